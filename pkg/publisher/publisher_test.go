package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/director"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

func sampleResult() domain.BookResult {
	return domain.BookResult{
		RequestID: "0a1b2c3d-0000-0000-0000-000000000000",
		Narrative: domain.NarrativeSpec{
			Title: "ロボットの ともだち",
			Scenes: []domain.Scene{
				{Index: 0, Text: "ロボットは ひとりでした。"},
				{Index: 1, Text: "ねこに あいました。"},
				{Index: 2, Text: "ふたりは ともだちに なりました。"},
			},
		},
		Illustrations: []domain.Illustration{
			{SceneIndex: 0, Status: domain.IllustrationOK, Data: []byte("png0"), MimeType: "image/png"},
			{SceneIndex: 1, Status: domain.IllustrationFailed, Err: errors.New("boom")},
			{SceneIndex: 2, Status: domain.IllustrationOK, Data: []byte("png2"), MimeType: "image/png"},
		},
	}
}

func newDocumentPublisher(t *testing.T, canvas *recordingCanvas, store *memoryStore) *DocumentPublisher {
	t.Helper()
	fixed := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	p, err := NewDocumentPublisher(
		director.NewAssembler(director.A4Portrait(), ""),
		func(domain.PageFormat) (Canvas, error) { return canvas, nil },
		store,
		Options{PlaceholderLabel: config.DefaultPlaceholderLabel, Now: func() time.Time { return fixed }},
	)
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}
	return p
}

func TestDocumentPublisher_Render(t *testing.T) {
	t.Run("失敗したシーンはプレースホルダーで描画され成果物が保存されること", func(t *testing.T) {
		canvas := &recordingCanvas{}
		store := newMemoryStore()
		out, err := newDocumentPublisher(t, canvas, store).Render(context.Background(), sampleResult())
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		want := []string{
			"page", "image:image/png:4", "text:bold:1", "text:regular:1",
			"page", "placeholder:" + config.DefaultPlaceholderLabel, "text:regular:1",
			"page", "image:image/png:4", "text:regular:1",
		}
		if diff := cmp.Diff(want, canvas.ops); diff != "" {
			t.Errorf("描画命令が一致しません (-want +got):\n%s", diff)
		}
		if canvas.title != "ロボットの ともだち" {
			t.Errorf("文書情報のタイトル 期待値 %q, 実際の値 %q", "ロボットの ともだち", canvas.title)
		}

		if out.Shape != domain.ShapeArtifact || out.Artifact == nil {
			t.Fatalf("成果物の参照がありません: %+v", out)
		}
		if out.Artifact.ID != "book_20261015_093000_0a1b2c3d" || out.Artifact.Pages != 3 {
			t.Errorf("参照が不正です: %+v", out.Artifact)
		}
		if string(store.docs[out.Artifact.ID].Data) != "%PDF-fake" {
			t.Error("文書が保存されていません")
		}
	})

	t.Run("長いタイトルは折り返した行数で描画されること", func(t *testing.T) {
		canvas := &recordingCanvas{}
		result := sampleResult()
		result.Narrative.Title = "ちいさな ロボットと ねこと いぬと うさぎの たのしい ふしぎな ぼうけん"

		if _, err := newDocumentPublisher(t, canvas, newMemoryStore()).Render(context.Background(), result); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if canvas.ops[2] != "text:bold:2" {
			t.Errorf("タイトルの描画命令 期待値 text:bold:2, 実際の値 %s", canvas.ops[2])
		}
		if canvas.title != result.Narrative.Title {
			t.Errorf("文書情報のタイトルが一致しません: %q", canvas.title)
		}
	})

	t.Run("読み上げ音声は別の成果物として保存されること", func(t *testing.T) {
		store := newMemoryStore()
		result := sampleResult()
		result.Narration = &domain.NarrationAudio{CorrelationID: result.RequestID, Data: []byte("wav"), MimeType: "audio/wav"}

		out, err := newDocumentPublisher(t, &recordingCanvas{}, store).Render(context.Background(), result)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if out.Narration == nil || out.Narration.Location == "" {
			t.Fatalf("音声の保存先がありません: %+v", out.Narration)
		}
		if result.Narration.Location != "" {
			t.Error("入力の NarrationAudio が変更されています")
		}
	})

	t.Run("画像を描画できない場合もプレースホルダーで代替し警告を返すこと", func(t *testing.T) {
		out, err := newDocumentPublisher(t, &recordingCanvas{failImages: true}, newMemoryStore()).Render(context.Background(), sampleResult())
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if len(out.Warnings) != 2 {
			t.Errorf("警告数 期待値 2, 実際の値 %d: %v", len(out.Warnings), out.Warnings)
		}
	})
}

func TestInlinePublisher_Render(t *testing.T) {
	result := sampleResult()
	result.Narration = &domain.NarrationAudio{Data: []byte("wav"), MimeType: "audio/wav"}

	out, err := NewInlinePublisher().Render(context.Background(), result)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if out.Shape != domain.ShapeInline || out.Artifact != nil {
		t.Fatalf("インライン応答ではありません: %+v", out)
	}

	want := []domain.InlineScene{
		{SceneIndex: 0, Image: DataURI("image/png", []byte("png0")), Text: "ロボットは ひとりでした。"},
		{SceneIndex: 1, Image: domain.PlaceholderMarker, Text: "ねこに あいました。", Failed: true},
		{SceneIndex: 2, Image: DataURI("image/png", []byte("png2")), Text: "ふたりは ともだちに なりました。"},
	}
	if diff := cmp.Diff(want, out.Inline.Scenes); diff != "" {
		t.Errorf("シーンが一致しません (-want +got):\n%s", diff)
	}
	if out.Inline.Audio != "data:audio/wav;base64,d2F2" {
		t.Errorf("音声の data URI が不正です: %q", out.Inline.Audio)
	}
}
