package publisher

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

const (
	pdfMimeType   = "application/pdf"
	fontFamily    = "ehon"
	placeholderFS = 12.0
)

// FontSet は PDF に埋め込む UTF-8 TrueType フォントです。Bold が空の場合は Regular を使います。
type FontSet struct {
	Regular []byte
	Bold    []byte
}

// PDFCanvas は fpdf を使った Canvas の実装です。
type PDFCanvas struct {
	pdf     *fpdf.Fpdf
	hasBold bool
	images  int
}

// NewPDFCanvas はページ寸法とフォントを設定した PDFCanvas を生成します。
func NewPDFCanvas(format domain.PageFormat, fonts FontSet) (*PDFCanvas, error) {
	if len(fonts.Regular) == 0 {
		return nil, fmt.Errorf("本文用フォントは必須です")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: format.Width, Ht: format.Height},
	})
	pdf.SetMargins(format.Margin, format.Margin, format.Margin)
	pdf.SetAutoPageBreak(false, format.Margin)

	pdf.AddUTF8FontFromBytes(fontFamily, "", fonts.Regular)
	hasBold := len(fonts.Bold) > 0
	if hasBold {
		pdf.AddUTF8FontFromBytes(fontFamily, "B", fonts.Bold)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("フォントの登録に失敗しました: %w", err)
	}

	return &PDFCanvas{pdf: pdf, hasBold: hasBold}, nil
}

// NewPDFCanvasFactory は同じフォントを使う CanvasFactory を返します。
func NewPDFCanvasFactory(fonts FontSet) CanvasFactory {
	return func(format domain.PageFormat) (Canvas, error) {
		return NewPDFCanvas(format, fonts)
	}
}

func (c *PDFCanvas) MimeType() string { return pdfMimeType }

// SetTitle は物語のタイトルを PDF の文書情報に設定します。
func (c *PDFCanvas) SetTitle(title string) {
	c.pdf.SetTitle(title, true)
}

func (c *PDFCanvas) AddPage() error {
	c.pdf.AddPage()
	return c.pdf.Error()
}

// DrawImage は PNG/JPEG/GIF の画像を rect に描画します。
func (c *PDFCanvas) DrawImage(rect domain.Rect, data []byte, mimeType string) error {
	imageType, err := fpdfImageType(mimeType)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("画像データが空です")
	}

	c.images++
	name := fmt.Sprintf("scene_%d", c.images)
	opts := fpdf.ImageOptions{ImageType: imageType}
	info := c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if info == nil || c.pdf.Err() {
		err := c.pdf.Error()
		// 画像の登録失敗は文書全体を壊さないようエラー状態を戻す
		c.pdf.ClearError()
		return fmt.Errorf("画像の登録に失敗しました: %w", err)
	}
	c.pdf.ImageOptions(name, rect.X, rect.Y, rect.W, rect.H, false, opts, 0, "")
	return c.pdf.Error()
}

// DrawPlaceholder は rect に枠と中央寄せのメッセージを描画します。
func (c *PDFCanvas) DrawPlaceholder(rect domain.Rect, message string) error {
	c.pdf.SetFillColor(240, 240, 240)
	c.pdf.SetDrawColor(180, 180, 180)
	c.pdf.Rect(rect.X, rect.Y, rect.W, rect.H, "FD")

	c.pdf.SetFont(fontFamily, "", placeholderFS)
	c.pdf.SetTextColor(120, 120, 120)
	w := c.pdf.GetStringWidth(message)
	c.pdf.Text(rect.X+(rect.W-w)/2, rect.Y+rect.H/2+placeholderFS/2, message)
	c.pdf.SetTextColor(0, 0, 0)
	return c.pdf.Error()
}

// DrawText は (x, y) を上端として行を順に描画します。
func (c *PDFCanvas) DrawText(x, y float64, lines []string, font domain.FontSpec) error {
	style := ""
	if font.Weight == domain.FontBold && c.hasBold {
		style = "B"
	}
	c.pdf.SetFont(fontFamily, style, font.Size)
	c.pdf.SetTextColor(0, 0, 0)

	leading := font.Leading
	if leading <= 0 {
		leading = font.Size
	}
	for i, line := range lines {
		c.pdf.Text(x, y+font.Size+float64(i)*leading, line)
	}
	return c.pdf.Error()
}

func (c *PDFCanvas) Finalize(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("PDFの書き出しに失敗しました: %w", err)
	}
	return nil
}

func fpdfImageType(mimeType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return "PNG", nil
	case "image/jpeg", "image/jpg":
		return "JPG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("未対応の画像形式です: %q", mimeType)
	}
}
