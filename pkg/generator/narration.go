package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-ehon-kit/pkg/adapters"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// NarrationSynthesizer は物語全文を1本の読み上げ音声にします。
type NarrationSynthesizer struct {
	speech  adapters.SpeechSynthesizer
	timeout time.Duration
}

// NewNarrationSynthesizer は NarrationSynthesizer を初期化します。
func NewNarrationSynthesizer(speech adapters.SpeechSynthesizer, timeout time.Duration) (*NarrationSynthesizer, error) {
	if speech == nil {
		return nil, fmt.Errorf("SpeechSynthesizer は必須です")
	}
	return &NarrationSynthesizer{speech: speech, timeout: timeout}, nil
}

// Synthesize はシーンを文区切りで連結したテキストを音声化します。
// 失敗時は *domain.NarrationSynthesisError を返します。
func (n *NarrationSynthesizer) Synthesize(ctx context.Context, correlationID string, spec domain.NarrativeSpec) (*domain.NarrationAudio, error) {
	text := spec.FullText()
	if text == "" {
		return nil, &domain.NarrationSynthesisError{Err: fmt.Errorf("読み上げるテキストがありません")}
	}

	callCtx, cancel := withTimeout(ctx, n.timeout)
	defer cancel()

	start := time.Now()
	res, err := n.speech.Synthesize(callCtx, text)
	if err != nil {
		return nil, &domain.NarrationSynthesisError{Err: err}
	}
	if res == nil || len(res.Data) == 0 {
		return nil, &domain.NarrationSynthesisError{Err: fmt.Errorf("音声データが空です")}
	}

	slog.InfoContext(ctx, "読み上げ音声を合成しました",
		"request_id", correlationID,
		"bytes", len(res.Data),
		"duration", time.Since(start),
	)
	return &domain.NarrationAudio{
		CorrelationID: correlationID,
		Data:          res.Data,
		MimeType:      res.MimeType,
	}, nil
}
