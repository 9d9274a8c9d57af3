package pipeline

import (
	"context"

	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// NarrativeGenerator は物語の生成工程です。
type NarrativeGenerator interface {
	Generate(ctx context.Context, req domain.BookRequest, profile config.Profile) (domain.NarrativeSpec, error)
}

// IllustrationGenerator は全シーンの挿絵生成工程です。失敗はシーンごとの結果として返ります。
type IllustrationGenerator interface {
	GenerateAll(ctx context.Context, scenes []domain.Scene, identity domain.VisualIdentity) []domain.Illustration
}

// NarrationSynthesizer は読み上げ音声の合成工程です。
type NarrationSynthesizer interface {
	Synthesize(ctx context.Context, correlationID string, spec domain.NarrativeSpec) (*domain.NarrationAudio, error)
}

// OutputStrategy は生成結果を応答の形に変換します。
type OutputStrategy interface {
	Shape() domain.ResponseShape
	Render(ctx context.Context, result domain.BookResult) (*domain.BookOutput, error)
}
