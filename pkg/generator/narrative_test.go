package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/parser"
	"github.com/shouni/go-ehon-kit/pkg/prompts"
)

const (
	wellFormed = `{"title":"ロボットの ともだち","story":["ロボットは ひとりでした。","ねこに あいました。","ふたりは ともだちに なりました。"]}`
	truncated  = `{"title":"ロボットの ともだち","story":["ロボットは ひとり`
)

func newNarrativeGenerator(t *testing.T, text *scriptedText) *NarrativeGenerator {
	t.Helper()
	pb, err := prompts.NewStoryPromptBuilder()
	if err != nil {
		t.Fatalf("プロンプトビルダーの初期化に失敗しました: %v", err)
	}
	g, err := NewNarrativeGenerator(text, pb, config.DefaultRetryTokenStep, 0)
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}
	return g
}

func TestNarrativeGenerator_Generate(t *testing.T) {
	req := domain.BookRequest{Age: 4, Gender: domain.GenderBoy, Hero: "ロボット", Theme: "ゆうじょう"}
	profile, _ := config.LookupProfile(config.ProfileShort)

	t.Run("1回目で成功した場合はシーン数どおりの物語を返すこと", func(t *testing.T) {
		text := &scriptedText{responses: []string{wellFormed}}
		spec, err := newNarrativeGenerator(t, text).Generate(context.Background(), req, profile)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if len(spec.Scenes) != profile.SceneCount {
			t.Errorf("シーン数 期待値 %d, 実際の値 %d", profile.SceneCount, len(spec.Scenes))
		}
		if len(text.requests) != 1 {
			t.Errorf("呼び出し回数 期待値 1, 実際の値 %d", len(text.requests))
		}
		if !text.requests[0].Structured || text.requests[0].MaxTokens != 700 {
			t.Errorf("リクエストが不正です: %+v", text.requests[0])
		}
	})

	t.Run("不正な応答の後は増量したトークンで再試行し2回目の結果を使うこと", func(t *testing.T) {
		text := &scriptedText{responses: []string{truncated, wellFormed}}
		spec, err := newNarrativeGenerator(t, text).Generate(context.Background(), req, profile)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if spec.Title != "ロボットの ともだち" {
			t.Errorf("タイトル 期待値 %q, 実際の値 %q", "ロボットの ともだち", spec.Title)
		}
		if len(text.requests) != 2 {
			t.Fatalf("呼び出し回数 期待値 2, 実際の値 %d", len(text.requests))
		}
		if got := text.requests[1].MaxTokens; got != 900 {
			t.Errorf("再試行時のトークン上限 期待値 900, 実際の値 %d", got)
		}
	})

	t.Run("2回とも不正なら NarrativeGenerationError を返すこと", func(t *testing.T) {
		text := &scriptedText{responses: []string{truncated, truncated, wellFormed}}
		spec, err := newNarrativeGenerator(t, text).Generate(context.Background(), req, profile)

		var nErr *domain.NarrativeGenerationError
		if !errors.As(err, &nErr) {
			t.Fatalf("NarrativeGenerationError ではありません: %v", err)
		}
		if nErr.Attempts != 2 {
			t.Errorf("試行回数 期待値 2, 実際の値 %d", nErr.Attempts)
		}
		if !errors.Is(err, parser.ErrMalformed) {
			t.Errorf("最後の原因が保持されていません: %v", err)
		}
		if len(spec.Scenes) != 0 {
			t.Error("部分的な物語が返されました")
		}
		if len(text.requests) != 2 {
			t.Errorf("呼び出し回数 期待値 2, 実際の値 %d", len(text.requests))
		}
	})

	t.Run("上流のエラーも1回だけ再試行すること", func(t *testing.T) {
		text := &scriptedText{
			errs:      []error{errors.New("503 service unavailable")},
			responses: []string{"", wellFormed},
		}
		if _, err := newNarrativeGenerator(t, text).Generate(context.Background(), req, profile); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if len(text.requests) != 2 {
			t.Errorf("呼び出し回数 期待値 2, 実際の値 %d", len(text.requests))
		}
	})

	t.Run("連続した上流エラーは UpstreamServiceError を保持すること", func(t *testing.T) {
		boom := errors.New("503")
		text := &scriptedText{errs: []error{boom, boom}}
		_, err := newNarrativeGenerator(t, text).Generate(context.Background(), req, profile)

		var up *domain.UpstreamServiceError
		if !errors.As(err, &up) || up.Stage != domain.StageNarrative {
			t.Errorf("UpstreamServiceError が保持されていません: %v", err)
		}
	})
}

func TestNewNarrativeGenerator_RequiresDependencies(t *testing.T) {
	if _, err := NewNarrativeGenerator(nil, nil, 0, 0); err == nil {
		t.Error("依存関係なしでエラーが発生しませんでした")
	}
}
