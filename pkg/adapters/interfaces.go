package adapters

import (
	"context"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// TextRequest はテキスト生成の要求です。
type TextRequest struct {
	Prompt string
	// Structured が true の場合、JSON のみを返すようモデルに要求します。
	Structured bool
	MaxTokens  int
}

// TextGenerator は物語本文の生成を担うのだ
type TextGenerator interface {
	Generate(ctx context.Context, req TextRequest) (string, error)
}

// ImageGenerator はシーン1枚分の挿絵生成を担うのだ
type ImageGenerator interface {
	GenerateIllustration(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}

// SpeechResult は合成された音声データです。
type SpeechResult struct {
	Data     []byte
	MimeType string
}

// SpeechSynthesizer は読み上げ音声の合成を担うのだ
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (*SpeechResult, error)
}
