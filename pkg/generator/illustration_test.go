package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/prompts"
)

func newIllustrationGenerator(t *testing.T, images *fakeImages) *IllustrationGenerator {
	t.Helper()
	g, err := NewIllustrationGenerator(images, prompts.NewIllustrationPromptBuilder(), IllustrationOptions{Workers: 3})
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}
	return g
}

func TestIllustrationGenerator_GenerateAll(t *testing.T) {
	key := int64(424242)
	identity := domain.VisualIdentity{StylePrefix: "watercolor", SubjectTag: "main character: ロボット", ConsistencyKey: &key}
	scenes := []domain.Scene{
		{Index: 0, Text: "ロボットは ひとりでした。"},
		{Index: 1, Text: "ねこに あいました。"},
		{Index: 2, Text: "ふたりは ともだちに なりました。"},
	}

	t.Run("全シーンに同じシードが渡されること", func(t *testing.T) {
		images := &fakeImages{}
		results := newIllustrationGenerator(t, images).GenerateAll(context.Background(), scenes, identity)

		if len(results) != len(scenes) {
			t.Fatalf("結果数 期待値 %d, 実際の値 %d", len(scenes), len(results))
		}
		for _, req := range images.requests {
			if req.Seed == nil || *req.Seed != key {
				t.Errorf("シードが一致しません: %v", req.Seed)
			}
			if req.AspectRatio != IllustrationAspectRatio {
				t.Errorf("縦横比 期待値 %s, 実際の値 %s", IllustrationAspectRatio, req.AspectRatio)
			}
		}
	})

	t.Run("1シーンの失敗が他のシーンに影響しないこと", func(t *testing.T) {
		images := &fakeImages{failOn: map[string]bool{"ねこに": true}}
		results := newIllustrationGenerator(t, images).GenerateAll(context.Background(), scenes, identity)

		for i, ill := range results {
			if ill.SceneIndex != i {
				t.Errorf("順序が保持されていません: index=%d scene=%d", i, ill.SceneIndex)
			}
		}
		if !results[0].OK() || !results[2].OK() {
			t.Error("成功すべきシーンが失敗しています")
		}
		if results[1].Status != domain.IllustrationFailed {
			t.Fatalf("シーン1 が失敗になっていません: %+v", results[1])
		}
		var iErr *domain.IllustrationError
		if !errors.As(results[1].Err, &iErr) || iErr.SceneIndex != 1 {
			t.Errorf("IllustrationError が設定されていません: %v", results[1].Err)
		}
	})
}

func TestIllustrationGenerator_GenerateWithoutKey(t *testing.T) {
	images := &fakeImages{}
	ill := newIllustrationGenerator(t, images).Generate(context.Background(), domain.Scene{Index: 0, Text: "a"}, domain.VisualIdentity{})
	if !ill.OK() {
		t.Fatalf("生成に失敗しました: %v", ill.Err)
	}
	if images.requests[0].Seed != nil {
		t.Error("一貫性キーなしでシードが設定されています")
	}
}
