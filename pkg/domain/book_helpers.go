package domain

import (
	"strings"
	"unicode/utf8"
)

// TotalChars は全シーン本文の文字数（rune 数）を返します。
func (n NarrativeSpec) TotalChars() int {
	total := 0
	for _, s := range n.Scenes {
		total += utf8.RuneCountInString(s.Text)
	}
	return total
}

// Texts はシーン順の本文一覧を返します。
func (n NarrativeSpec) Texts() []string {
	texts := make([]string, len(n.Scenes))
	for i, s := range n.Scenes {
		texts[i] = s.Text
	}
	return texts
}

// FailedScenes は失敗した挿絵のシーン番号を昇順で返します。
func FailedScenes(ills []Illustration) []int {
	var failed []int
	for _, ill := range ills {
		if !ill.OK() {
			failed = append(failed, ill.SceneIndex)
		}
	}
	return failed
}

// IllustrationFor は SceneIndex に一致する挿絵を探します。
func IllustrationFor(ills []Illustration, sceneIndex int) (Illustration, bool) {
	for _, ill := range ills {
		if ill.SceneIndex == sceneIndex {
			return ill, true
		}
	}
	return Illustration{}, false
}

// sentenceTerminals は文末とみなす記号です。
const sentenceTerminals = "。！？!?」"

// FullText は全シーンの本文を1つの読み上げ用テキストに連結します。
// 文末記号で終わらないシーンには「。」を補います。
func (n NarrativeSpec) FullText() string {
	var b strings.Builder
	for _, text := range n.Texts() {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		b.WriteString(text)
		last, _ := utf8.DecodeLastRuneInString(text)
		if !strings.ContainsRune(sentenceTerminals, last) {
			b.WriteString("。")
		}
	}
	return b.String()
}
