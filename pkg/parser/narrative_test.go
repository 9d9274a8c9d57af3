package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

func TestParseNarrative(t *testing.T) {
	t.Run("素のJSONを解析できること", func(t *testing.T) {
		raw := `{"title":"ロボットの ともだち","story":["ひとりの ロボット","ねこに であう","いっしょに あそぶ"]}`
		got, err := ParseNarrative(raw, 3)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		want := domain.NarrativeSpec{
			Title: "ロボットの ともだち",
			Scenes: []domain.Scene{
				{Index: 0, Text: "ひとりの ロボット"},
				{Index: 1, Text: "ねこに であう"},
				{Index: 2, Text: "いっしょに あそぶ"},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("結果が一致しません (-want +got):\n%s", diff)
		}
	})

	t.Run("コードブロックや前置きがあっても解析できること", func(t *testing.T) {
		inputs := []string{
			"```json\n{\"title\":\"t\",\"story\":[\"a\",\"b\",\"c\"]}\n```",
			"はい、どうぞ。\n{\"title\":\"t\",\"story\":[\"a\",\"b\",\"c\"]}\nいかがでしょう",
		}
		for _, in := range inputs {
			if _, err := ParseNarrative(in, 3); err != nil {
				t.Errorf("解析に失敗しました (%q): %v", in, err)
			}
		}
	})

	t.Run("不正な応答は ErrMalformed になること", func(t *testing.T) {
		tests := []struct {
			name string
			raw  string
		}{
			{name: "途中で切れたJSON", raw: `{"title":"t","story":["a","b"`},
			{name: "シーン数の不足", raw: `{"title":"t","story":["a","b"]}`},
			{name: "空のシーン", raw: `{"title":"t","story":["a"," ","c"]}`},
			{name: "タイトルなし", raw: `{"story":["a","b","c"]}`},
			{name: "空の応答", raw: ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseNarrative(tt.raw, 3)
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("ErrMalformed ではありません: %v", err)
				}
			})
		}
	})
}
