package director

import "github.com/shouni/go-ehon-kit/pkg/domain"

// A4 縦のページ寸法（ポイント）です。
const (
	A4Width  = 595.28
	A4Height = 841.89

	DefaultMargin    = 40.0
	DefaultImageSize = 512.0

	// titleGap は画像の下端からタイトルまでの距離です。
	titleGap = 20.0
	// titleBodyGap はタイトルの最終行から本文までの距離です。
	titleBodyGap = 4.0
	// bodyGap はタイトルの無いページで画像下端から本文までの距離です。
	bodyGap = 20.0
)

// A4Portrait は標準のページフォーマットを返します。
func A4Portrait() domain.PageFormat {
	return domain.PageFormat{
		Name:      "A4",
		Width:     A4Width,
		Height:    A4Height,
		Margin:    DefaultMargin,
		ImageSize: DefaultImageSize,
	}
}

// LayoutManager はページ内の画像・タイトル・本文の座標を決めます。
type LayoutManager struct {
	format domain.PageFormat
}

func NewLayoutManager(format domain.PageFormat) *LayoutManager {
	return &LayoutManager{format: format}
}

// ImageRect は画像の配置領域を返します。一辺は余白を除いたページ幅に収まるよう切り詰め、
// 水平方向に中央揃え、上端は余白の位置に置きます。
func (l *LayoutManager) ImageRect() domain.Rect {
	size := l.format.ImageSize
	if maxSize := l.format.Width - 2*l.format.Margin; size > maxSize {
		size = maxSize
	}
	return domain.Rect{
		X: (l.format.Width - size) / 2,
		Y: l.format.Margin,
		W: size,
		H: size,
	}
}

// TitleOrigin はタイトルの描画開始位置を返します。
func (l *LayoutManager) TitleOrigin() (x, y float64) {
	r := l.ImageRect()
	return l.format.Margin, r.Y + r.H + titleGap
}

// BodyOrigin は本文の描画開始位置を返します。titleHeight はタイトルが占める高さで、タイトルの無いページでは 0 です。
func (l *LayoutManager) BodyOrigin(titleHeight float64) (x, y float64) {
	if titleHeight > 0 {
		_, ty := l.TitleOrigin()
		return l.format.Margin, ty + titleHeight + titleBodyGap
	}
	r := l.ImageRect()
	return l.format.Margin, r.Y + r.H + bodyGap
}

// MaxLines は y から描き始めたとき、下余白より上に収まる行数を返します。
// 1行目のベースラインは y+Size、以降は Leading ごとに下がります。
func (l *LayoutManager) MaxLines(y float64, font domain.FontSpec) int {
	leading := font.Leading
	if leading <= 0 {
		leading = font.Size
	}
	avail := l.format.Height - l.format.Margin - y - font.Size
	if avail < 0 {
		return 0
	}
	return int(avail/leading) + 1
}
