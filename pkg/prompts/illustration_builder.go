package prompts

import (
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

const (
	// sceneExcerptRunes はプロンプトに含めるシーン本文の最大文字数です。
	sceneExcerptRunes = 80

	// NegativePrompt は絵の中に文字を描かせないための指定です。
	NegativePrompt = "text, letters, words, captions, speech bubble, signature, watermark, low quality, distorted, bad anatomy, scary"

	// SystemInstruction は挿絵生成時の役割定義です。
	SystemInstruction = "You are an illustrator of Japanese picture books for small children. Draw one gentle, cute scene without any written characters."
)

// IllustrationPromptBuilder はシーン本文と VisualIdentity から挿絵用プロンプトを構築します。
type IllustrationPromptBuilder struct{}

// NewIllustrationPromptBuilder は新しい IllustrationPromptBuilder を生成します。
func NewIllustrationPromptBuilder() *IllustrationPromptBuilder {
	return &IllustrationPromptBuilder{}
}

// Build は StylePrefix、SubjectTag、本文の抜粋をこの順に ", " で結合します。
// 空の要素は除外されます。
func (pb *IllustrationPromptBuilder) Build(sceneText string, identity domain.VisualIdentity) string {
	parts := []string{identity.StylePrefix, identity.SubjectTag, Truncate(sceneText, sceneExcerptRunes)}

	var cleanParts []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			cleanParts = append(cleanParts, s)
		}
	}
	return strings.Join(cleanParts, ", ")
}

// SubjectTag は主人公とテーマから全シーン共通の被写体タグを作ります。
func SubjectTag(req domain.BookRequest) string {
	var tags []string
	if h := strings.TrimSpace(req.Hero); h != "" {
		tags = append(tags, "main character: "+h)
	}
	if t := strings.TrimSpace(req.Theme); t != "" {
		tags = append(tags, "theme: "+t)
	}
	return strings.Join(tags, ", ")
}

// Truncate は s を先頭から最大 n 文字（rune）に切り詰めます。
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
