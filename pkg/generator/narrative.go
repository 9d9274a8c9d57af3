package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-ehon-kit/pkg/adapters"
	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/parser"
)

// maxNarrativeAttempts は初回を含む物語生成の試行回数の上限です。
const maxNarrativeAttempts = 2

// NarrativeGenerator は BookRequest から構造化された物語を生成します。
type NarrativeGenerator struct {
	text           adapters.TextGenerator
	promptBuilder  StoryPromptBuilder
	retryIncrement int
	timeout        time.Duration
}

// NewNarrativeGenerator は NarrativeGenerator を初期化します。
func NewNarrativeGenerator(text adapters.TextGenerator, pb StoryPromptBuilder, retryIncrement int, timeout time.Duration) (*NarrativeGenerator, error) {
	if text == nil {
		return nil, fmt.Errorf("TextGenerator は必須です")
	}
	if pb == nil {
		return nil, fmt.Errorf("StoryPromptBuilder は必須です")
	}
	return &NarrativeGenerator{
		text:           text,
		promptBuilder:  pb,
		retryIncrement: retryIncrement,
		timeout:        timeout,
	}, nil
}

// Generate は物語を生成します。構造が不正な応答や上流のエラーに対しては、
// トークン上限を増やして1回だけ再試行します。部分的な物語は返しません。
func (g *NarrativeGenerator) Generate(ctx context.Context, req domain.BookRequest, profile config.Profile) (domain.NarrativeSpec, error) {
	prompt, err := g.promptBuilder.Build(req, profile)
	if err != nil {
		return domain.NarrativeSpec{}, fmt.Errorf("プロンプト生成に失敗: %w", err)
	}

	maxTokens := profile.MaxTokens
	var (
		lastErr  error
		attempts int
	)
	for attempt := 1; attempt <= maxNarrativeAttempts; attempt++ {
		attempts = attempt
		spec, err := g.attempt(ctx, prompt, maxTokens, profile.SceneCount)
		if err == nil {
			if chars := spec.TotalChars(); !profile.WithinBudget(chars) {
				slog.WarnContext(ctx, "物語の文字数が目安の範囲外です",
					"chars", chars,
					"min", profile.MinChars,
					"max", profile.MaxChars,
				)
			}
			slog.InfoContext(ctx, "物語を生成しました", "title", spec.Title, "scenes", len(spec.Scenes), "attempt", attempt)
			return spec, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < maxNarrativeAttempts {
			slog.WarnContext(ctx, "物語の生成に失敗したため再試行します",
				"attempt", attempt,
				"max_tokens", maxTokens,
				"next_max_tokens", maxTokens+g.retryIncrement,
				"error", err,
			)
			maxTokens += g.retryIncrement
		}
	}

	return domain.NarrativeSpec{}, &domain.NarrativeGenerationError{Attempts: attempts, Err: lastErr}
}

func (g *NarrativeGenerator) attempt(ctx context.Context, prompt string, maxTokens, sceneCount int) (domain.NarrativeSpec, error) {
	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.text.Generate(callCtx, adapters.TextRequest{
		Prompt:     prompt,
		Structured: true,
		MaxTokens:  maxTokens,
	})
	if err != nil {
		var up *domain.UpstreamServiceError
		if errors.As(err, &up) {
			return domain.NarrativeSpec{}, err
		}
		return domain.NarrativeSpec{}, &domain.UpstreamServiceError{Stage: domain.StageNarrative, Err: err}
	}
	return parser.ParseNarrative(raw, sceneCount)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
