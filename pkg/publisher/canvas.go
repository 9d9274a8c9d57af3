package publisher

import (
	"io"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// Canvas はページ単位の描画を抽象化します。1つの Canvas は1つの文書に対応します。
type Canvas interface {
	// SetTitle は文書のメタデータにタイトルを設定します。
	SetTitle(title string)
	AddPage() error
	DrawImage(rect domain.Rect, data []byte, mimeType string) error
	DrawPlaceholder(rect domain.Rect, message string) error
	DrawText(x, y float64, lines []string, font domain.FontSpec) error
	// Finalize は文書を w に書き出します。呼び出し後の描画はできません。
	Finalize(w io.Writer) error
	MimeType() string
}

// CanvasFactory は文書ごとに新しい Canvas を生成します。
type CanvasFactory func(format domain.PageFormat) (Canvas, error)

// RenderDocument は Document のページを順に Canvas に描画します。
// 画像の描画に失敗したページはプレースホルダーで代替し、その旨を warnings に返します。
func RenderDocument(c Canvas, doc domain.Document, placeholderLabel string) (warnings []string, err error) {
	c.SetTitle(doc.Title)
	for _, page := range doc.Pages {
		if err := c.AddPage(); err != nil {
			return warnings, err
		}

		img := page.Image
		if img.Placeholder {
			if err := c.DrawPlaceholder(img.Rect, img.Message); err != nil {
				return warnings, err
			}
		} else if err := c.DrawImage(img.Rect, img.Data, img.MimeType); err != nil {
			warnings = append(warnings, imageWarning(page.SceneIndex, err))
			if err := c.DrawPlaceholder(img.Rect, placeholderLabel); err != nil {
				return warnings, err
			}
		}

		if page.Title != nil {
			lines := page.Title.Lines
			if len(lines) == 0 {
				lines = []string{page.Title.Text}
			}
			if err := c.DrawText(page.Title.X, page.Title.Y, lines, page.Title.Font); err != nil {
				return warnings, err
			}
		}
		if err := c.DrawText(page.Text.X, page.Text.Y, page.Text.Lines, page.Text.Font); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}
