package director

import (
	"fmt"
	"time"

	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

const ellipsis = "…"

// Assembler は物語と挿絵をページの並びに組み立てます。副作用はなく、同じ入力からは同じ Document を返します。
type Assembler struct {
	format           domain.PageFormat
	layout           *LayoutManager
	style            *StyleManager
	placeholderLabel string
}

// NewAssembler は Assembler を初期化します。
func NewAssembler(format domain.PageFormat, placeholderLabel string) *Assembler {
	if placeholderLabel == "" {
		placeholderLabel = config.DefaultPlaceholderLabel
	}
	return &Assembler{
		format:           format,
		layout:           NewLayoutManager(format),
		style:            NewStyleManager(DefaultLineRunes),
		placeholderLabel: placeholderLabel,
	}
}

// Assemble はシーンごとに1ページを作ります。挿絵は SceneIndex で対応付け、
// 失敗または欠けている挿絵は同じ領域のプレースホルダーに置き換えます。
func (a *Assembler) Assemble(id string, spec domain.NarrativeSpec, ills []domain.Illustration, createdAt time.Time) (domain.Document, error) {
	if len(spec.Scenes) == 0 {
		return domain.Document{}, fmt.Errorf("シーンが1つもないため文書を組み立てられません")
	}

	doc := domain.Document{
		ID:        id,
		Title:     spec.Title,
		Format:    a.format,
		Pages:     make([]domain.Page, 0, len(spec.Scenes)),
		CreatedAt: createdAt,
	}
	for i, scene := range spec.Scenes {
		doc.Pages = append(doc.Pages, a.page(i == 0, spec.Title, scene, ills))
	}
	return doc, nil
}

func (a *Assembler) page(first bool, title string, scene domain.Scene, ills []domain.Illustration) domain.Page {
	p := domain.Page{
		SceneIndex: scene.Index,
		Image:      a.imageBlock(scene.Index, ills),
	}

	var titleHeight float64
	if first {
		x, y := a.layout.TitleOrigin()
		font := a.style.TitleFont()
		p.Title = &domain.TitleBlock{
			Text:  a.style.FormatTitle(title),
			Lines: a.style.WrapTitle(title),
			X:     x,
			Y:     y,
			Font:  font,
		}
		titleHeight = float64(len(p.Title.Lines)) * font.Leading
	}

	x, y := a.layout.BodyOrigin(titleHeight)
	font := a.style.BodyFont()
	p.Text = domain.TextBlock{
		X:     x,
		Y:     y,
		Lines: clampLines(a.style.Wrap(scene.Text), a.layout.MaxLines(y, font)),
		Font:  font,
	}
	return p
}

// clampLines は行数を n に切り詰め、切り詰めた場合は最終行の末尾を「…」にします。
func clampLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	if n <= 0 {
		return nil
	}
	out := append([]string(nil), lines[:n]...)
	last := []rune(out[n-1])
	if len(last) > 0 {
		last = last[:len(last)-1]
	}
	out[n-1] = string(last) + ellipsis
	return out
}

func (a *Assembler) imageBlock(sceneIndex int, ills []domain.Illustration) domain.ImageBlock {
	block := domain.ImageBlock{Rect: a.layout.ImageRect()}

	ill, ok := domain.IllustrationFor(ills, sceneIndex)
	if !ok || !ill.OK() {
		block.Placeholder = true
		block.Message = a.placeholderLabel
		return block
	}
	block.Data = ill.Data
	block.MimeType = ill.MimeType
	block.URL = ill.URL
	return block
}
