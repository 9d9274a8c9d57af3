package director

import (
	"strings"
	"unicode"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const (
	// DefaultLineRunes は本文1行あたりの文字数です。
	DefaultLineRunes = 38

	bodyFontSize  = 11.0
	titleFontSize = 14.0
	leadingRatio  = 1.2
)

// lineHeadForbidden は行頭に置かない記号です。前の行の末尾に追い込みます。
const lineHeadForbidden = "。、！？」』）!?,."

// StyleManager は本文とタイトルの書体と文字組みを管理します。
type StyleManager struct {
	lineRunes int
}

func NewStyleManager(lineRunes int) *StyleManager {
	if lineRunes <= 0 {
		lineRunes = DefaultLineRunes
	}
	return &StyleManager{lineRunes: lineRunes}
}

// BodyFont は本文の書体です。
func (s *StyleManager) BodyFont() domain.FontSpec {
	return domain.FontSpec{Weight: domain.FontRegular, Size: bodyFontSize, Leading: bodyFontSize * leadingRatio}
}

// TitleFont はタイトルの書体です。
func (s *StyleManager) TitleFont() domain.FontSpec {
	return domain.FontSpec{Weight: domain.FontBold, Size: titleFontSize, Leading: titleFontSize * leadingRatio}
}

// FormatTitle はタイトルを『』で囲みます。
func (s *StyleManager) FormatTitle(title string) string {
	return "『" + Normalize(title) + "』"
}

// WrapTitle は『』で囲んだタイトルを、タイトルの文字サイズで本文と同じ幅に収まるよう折り返します。
func (s *StyleManager) WrapTitle(title string) []string {
	width := max(1, int(float64(s.lineRunes)*bodyFontSize/titleFontSize))
	return s.wrapParagraph(strings.TrimSpace(s.FormatTitle(title)), width)
}

// halfwidthKana は半角の句読点・カナ・長音・濁点・半濁点 (U+FF61..U+FF9F) です。
var halfwidthKana = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0xFF61, Hi: 0xFF9F, Stride: 1}},
}

// Normalize は半角カナを全角に揃え、NFC に正規化します。
// 半角の濁点は結合文字になるので、NFC で直前のカナと合成されます。
func Normalize(text string) string {
	t := transform.Chain(
		runes.If(runes.In(halfwidthKana), width.Widen, nil),
		norm.NFC,
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Wrap は本文を正規化して1行 lineRunes 文字で折り返します。
// 行頭禁則の記号は前の行に追い込みます。改行は段落の区切りとして保持します。
func (s *StyleManager) Wrap(text string) []string {
	var lines []string
	for _, para := range strings.Split(Normalize(text), "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines = append(lines, s.wrapParagraph(para, s.lineRunes)...)
	}
	return lines
}

func (s *StyleManager) wrapParagraph(para string, width int) []string {
	rs := []rune(para)
	var lines []string
	for len(rs) > 0 {
		n := min(width, len(rs))
		for n < len(rs) && strings.ContainsRune(lineHeadForbidden, rs[n]) {
			n++
		}
		line := strings.TrimSpace(string(rs[:n]))
		if line != "" {
			lines = append(lines, line)
		}
		rs = []rune(strings.TrimLeftFunc(string(rs[n:]), unicode.IsSpace))
	}
	return lines
}

