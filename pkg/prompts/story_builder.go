package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

//go:embed story.md
var StoryPrompt string

// fiveBeatStructure は5シーン構成のときに指示する展開です。
const fiveBeatStructure = "起→承→転→結→まとめ"

// StoryTemplateData は物語プロンプトのテンプレートに渡すデータ構造です。
type StoryTemplateData struct {
	Age               int
	Gender            string
	Hero              string
	Theme             string
	SceneCount        int
	MinChars          int
	MaxChars          int
	Beats             string
	StoryPlaceholders string
}

// StoryPromptBuilder は BookRequest から物語生成用のプロンプトを組み立てます。
type StoryPromptBuilder struct {
	tmpl *template.Template
}

// NewStoryPromptBuilder は埋め込みテンプレートを解析して StoryPromptBuilder を初期化します。
func NewStoryPromptBuilder() (*StoryPromptBuilder, error) {
	if StoryPrompt == "" {
		return nil, fmt.Errorf("プロンプトテンプレート 'story' (go:embed) の読み込みに失敗しました: 内容が空です")
	}
	tmpl, err := template.New("story").Parse(StoryPrompt)
	if err != nil {
		return nil, fmt.Errorf("プロンプト 'story' の解析に失敗: %w", err)
	}
	return &StoryPromptBuilder{tmpl: tmpl}, nil
}

// Build はリクエストとプロファイルからプロンプト文字列を生成します。副作用はありません。
func (b *StoryPromptBuilder) Build(req domain.BookRequest, profile config.Profile) (string, error) {
	if profile.SceneCount <= 0 {
		return "", fmt.Errorf("シーン数が不正です: %d", profile.SceneCount)
	}

	data := StoryTemplateData{
		Age:               req.Age,
		Gender:            string(req.Gender),
		Hero:              req.Hero,
		Theme:             req.Theme,
		SceneCount:        profile.SceneCount,
		MinChars:          profile.MinChars,
		MaxChars:          profile.MaxChars,
		StoryPlaceholders: storyPlaceholders(profile.SceneCount),
	}
	if profile.SceneCount == 5 {
		data.Beats = fiveBeatStructure
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return sb.String(), nil
}

func storyPlaceholders(n int) string {
	parts := make([]string, n)
	for i := range n {
		parts[i] = fmt.Sprintf("%q", fmt.Sprintf("シーン%d", i+1))
	}
	return strings.Join(parts, ",")
}
