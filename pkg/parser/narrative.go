package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// ErrMalformed は応答が期待した構造を満たさない場合に返されます。
var ErrMalformed = errors.New("malformed narrative response")

// narrativePayload はモデルに要求している JSON の形です。
type narrativePayload struct {
	Title string   `json:"title"`
	Story []string `json:"story"`
}

// ParseNarrative はモデルの応答テキストを NarrativeSpec に変換します。
// シーン数が sceneCount と一致しない、または空のシーンがある場合は ErrMalformed を返します。
func ParseNarrative(raw string, sceneCount int) (domain.NarrativeSpec, error) {
	rawJSON := ExtractJSON(raw)
	if rawJSON == "" {
		return domain.NarrativeSpec{}, fmt.Errorf("%w: 応答が空です", ErrMalformed)
	}

	var payload narrativePayload
	if err := json.Unmarshal([]byte(rawJSON), &payload); err != nil {
		return domain.NarrativeSpec{}, fmt.Errorf("%w: JSONの解析に失敗しました (応答抜粋: %q): %v", ErrMalformed, truncateString(raw, 200), err)
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return domain.NarrativeSpec{}, fmt.Errorf("%w: title がありません", ErrMalformed)
	}
	if len(payload.Story) != sceneCount {
		return domain.NarrativeSpec{}, fmt.Errorf("%w: シーン数が一致しません (want=%d, got=%d)", ErrMalformed, sceneCount, len(payload.Story))
	}

	spec := domain.NarrativeSpec{Title: title, Scenes: make([]domain.Scene, 0, sceneCount)}
	for i, text := range payload.Story {
		text = strings.TrimSpace(text)
		if text == "" {
			return domain.NarrativeSpec{}, fmt.Errorf("%w: シーン %d が空です", ErrMalformed, i)
		}
		spec.Scenes = append(spec.Scenes, domain.Scene{Index: i, Text: text})
	}
	return spec, nil
}

// ExtractJSON は応答から JSON 部分を取り出します。
// コードブロック、最も外側の波括弧、応答全体の順に試します。
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if matches := JSONBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1]
	}
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first != -1 && last > first {
		return raw[first : last+1]
	}
	return raw
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
