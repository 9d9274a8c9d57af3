package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNarrativeSpec_FullText(t *testing.T) {
	n := NarrativeSpec{
		Title: "ロボットのともだち",
		Scenes: []Scene{
			{Index: 0, Text: "ロボットは ひとりでした"},
			{Index: 1, Text: "あるひ ねこに あいました。"},
			{Index: 2, Text: "「いっしょに あそぼう！」"},
		},
	}

	want := "ロボットは ひとりでした。あるひ ねこに あいました。「いっしょに あそぼう！」"
	if got := n.FullText(); got != want {
		t.Errorf("期待値 %q, 実際の値 %q", want, got)
	}
	if got := n.TotalChars(); got != 39 {
		t.Errorf("文字数 期待値 39, 実際の値 %d", got)
	}
	if diff := cmp.Diff([]string{"ロボットは ひとりでした", "あるひ ねこに あいました。", "「いっしょに あそぼう！」"}, n.Texts()); diff != "" {
		t.Errorf("本文一覧が一致しません (-want +got):\n%s", diff)
	}

	t.Run("空白だけのシーンは読み上げに含めないこと", func(t *testing.T) {
		n := NarrativeSpec{Scenes: []Scene{{Index: 0, Text: "  "}, {Index: 1, Text: " おしまい \n"}}}
		if got := n.FullText(); got != "おしまい。" {
			t.Errorf("期待値 %q, 実際の値 %q", "おしまい。", got)
		}
	})
}

func TestFailedScenes(t *testing.T) {
	ills := []Illustration{
		{SceneIndex: 0, Status: IllustrationOK, Data: []byte{1}},
		{SceneIndex: 1, Status: IllustrationFailed, Err: errors.New("boom")},
		{SceneIndex: 2, Status: IllustrationOK},
	}
	if diff := cmp.Diff([]int{1, 2}, FailedScenes(ills)); diff != "" {
		t.Errorf("失敗シーンが一致しません (-want +got):\n%s", diff)
	}

	if _, ok := IllustrationFor(ills, 5); ok {
		t.Error("存在しないシーンが見つかりました")
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("503")
	upstream := &UpstreamServiceError{Stage: StageNarrative, Err: cause}
	err := &NarrativeGenerationError{Attempts: 2, Err: upstream}

	var up *UpstreamServiceError
	if !errors.As(err, &up) || up.Stage != StageNarrative {
		t.Fatalf("UpstreamServiceError を取り出せませんでした: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("根本原因まで辿れませんでした")
	}
}
