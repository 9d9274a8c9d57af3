package adapters

import (
	"context"
	"fmt"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"google.golang.org/genai"
)

// NewGeminiClient は音声合成に使う genai クライアントを初期化します。
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY は必須です")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// firstInlineData は応答の最初の候補から、MIME タイプの条件を満たす最初のインラインデータを返します。
func firstInlineData(resp *genai.GenerateContentResponse, accept func(mime string) bool) (*genai.Blob, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("応答に候補が含まれていません")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return nil, fmt.Errorf("応答が空です (finish_reason=%s)", cand.FinishReason)
	}
	for _, part := range cand.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if accept(part.InlineData.MIMEType) {
			return part.InlineData, nil
		}
	}
	return nil, fmt.Errorf("応答にデータが含まれていません (finish_reason=%s)", cand.FinishReason)
}

func upstream(stage domain.Stage, err error) error {
	return &domain.UpstreamServiceError{Stage: stage, Err: err}
}
