package workflow

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/examples"
	"github.com/shouni/go-ehon-kit/internal/storagetest"
	"github.com/shouni/go-ehon-kit/pkg/adapters"
	"github.com/shouni/go-ehon-kit/pkg/asset"
	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/publisher"
)

type fixedText struct{}

func (fixedText) Generate(context.Context, adapters.TextRequest) (string, error) {
	return "```json\n" + string(examples.SampleStoryJSON) + "\n```", nil
}

type fixedImages struct{}

func (fixedImages) GenerateIllustration(context.Context, imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	return &imagedom.ImageResponse{Data: []byte("png"), MimeType: "image/png"}, nil
}

type fixedSpeech struct{}

func (fixedSpeech) Synthesize(context.Context, string) (*adapters.SpeechResult, error) {
	return &adapters.SpeechResult{Data: []byte("RIFF"), MimeType: "audio/wav"}, nil
}

type stubCanvas struct{}

func (stubCanvas) SetTitle(string) {}
func (stubCanvas) AddPage() error { return nil }
func (stubCanvas) DrawImage(domain.Rect, []byte, string) error { return nil }
func (stubCanvas) DrawPlaceholder(domain.Rect, string) error { return nil }
func (stubCanvas) DrawText(float64, float64, []string, domain.FontSpec) error { return nil }
func (stubCanvas) MimeType() string { return "application/pdf" }
func (stubCanvas) Finalize(w io.Writer) error {
	_, err := io.WriteString(w, "%PDF-1.3")
	return err
}

func newTestArgs(t *testing.T) ManagerArgs {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OutputDir = "gs://ehon-test/books"
	cfg.RateInterval = 0
	cfg.RequestTimeout = time.Second

	storage := storagetest.New()
	return ManagerArgs{
		Config:            cfg,
		Reader:            storage,
		Writer:            storage,
		TextGenerator:     fixedText{},
		ImageGenerator:    fixedImages{},
		SpeechSynthesizer: fixedSpeech{},
		CanvasFactory:     func(domain.PageFormat) (publisher.Canvas, error) { return stubCanvas{}, nil },
		Now:               func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) },
	}
}

func testRequest() domain.BookRequest {
	return examples.SampleRequest()
}

func TestNew_Validation(t *testing.T) {
	t.Run("Reader が無い場合はエラー", func(t *testing.T) {
		args := newTestArgs(t)
		args.Reader = nil
		if _, err := New(context.Background(), args); err == nil {
			t.Error("エラーが返されませんでした")
		}
	})

	t.Run("バックエンドが無く API キーも無い場合はエラー", func(t *testing.T) {
		args := newTestArgs(t)
		args.TextGenerator = nil
		args.Config.GeminiAPIKey = ""
		if _, err := New(context.Background(), args); err == nil {
			t.Error("エラーが返されませんでした")
		}
	})

	t.Run("読み上げ無効なら音声バックエンドは不要", func(t *testing.T) {
		args := newTestArgs(t)
		args.SpeechSynthesizer = nil
		args.Config.NarrationEnabled = false
		if _, err := New(context.Background(), args); err != nil {
			t.Errorf("予期しないエラー: %v", err)
		}
	})
}

func TestManager_GenerateInline(t *testing.T) {
	m, err := New(context.Background(), newTestArgs(t))
	if err != nil {
		t.Fatal(err)
	}

	out, err := m.Generate(context.Background(), testRequest(), domain.ShapeInline)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if out.Shape != domain.ShapeInline || out.Inline == nil {
		t.Fatalf("インライン応答ではありません: %+v", out)
	}
	if out.Artifact != nil {
		t.Error("インライン応答に成果物の参照が含まれています")
	}

	var texts []string
	for _, s := range out.Inline.Scenes {
		texts = append(texts, s.Text)
	}
	sample, err := examples.LoadSampleNarrative()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sample.Texts(), texts); diff != "" {
		t.Errorf("本文が一致しません (-want +got):\n%s", diff)
	}
	if out.Title != sample.Title {
		t.Errorf("タイトル 期待値 %s, 実際の値 %s", sample.Title, out.Title)
	}
	if out.Inline.Audio == "" {
		t.Error("読み上げ音声がありません")
	}
}

func TestManager_GenerateArtifactAndFetch(t *testing.T) {
	m, err := New(context.Background(), newTestArgs(t))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	out, err := m.Generate(ctx, testRequest(), domain.ShapeArtifact)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if out.Artifact == nil {
		t.Fatal("成果物の参照がありません")
	}
	if !asset.ValidArtifactID(out.Artifact.ID) {
		t.Errorf("成果物IDの形式が不正です: %s", out.Artifact.ID)
	}
	if out.Narration == nil || out.Narration.Location == "" {
		t.Error("読み上げ音声の保存先がありません")
	}

	got, err := m.Fetch(ctx, out.Artifact.ID)
	if err != nil {
		t.Fatalf("取得に失敗しました: %v", err)
	}
	if string(got.Data) != "%PDF-1.3" {
		t.Errorf("文書の内容が一致しません: %q", got.Data)
	}
	if got.Pages != 3 {
		t.Errorf("ページ数 期待値 3, 実際の値 %d", got.Pages)
	}
}

func TestManager_Fetch_NotFound(t *testing.T) {
	m, err := New(context.Background(), newTestArgs(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"book_20261015_093000_deadbeef", "../etc/passwd", ""} {
		if _, err := m.Fetch(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("id=%q: ErrNotFound ではありません: %v", id, err)
		}
	}
}

func TestManager_ArtifactRequiresFonts(t *testing.T) {
	args := newTestArgs(t)
	args.CanvasFactory = nil
	m, err := New(context.Background(), args)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Generate(context.Background(), testRequest(), domain.ShapeArtifact); err == nil {
		t.Error("フォント無しで artifact 形式が成功しました")
	}
	if _, err := m.Generate(context.Background(), testRequest(), "html"); err == nil {
		t.Error("未知の応答形式でエラーになりませんでした")
	}
}
