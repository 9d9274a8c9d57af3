package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// jsonOnlyDirective は構造化出力を求める際にプロンプト末尾へ付与する指示です。
const jsonOnlyDirective = "出力は JSON オブジェクトのみとし、前後に説明文やコードフェンスを付けないでください。"

// ContentGenerator はテキスト生成に使う go-gemini-client の操作です。gemini.GenerativeModel が満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, modelName string) (*gemini.Response, error)
}

// GeminiText は go-gemini-client を使った TextGenerator の実装です。
type GeminiText struct {
	client ContentGenerator
	model  string
}

// NewGeminiText は GeminiText を初期化します。
func NewGeminiText(client ContentGenerator, model string) (*GeminiText, error) {
	if client == nil {
		return nil, fmt.Errorf("gemini client は必須です")
	}
	if model == "" {
		return nil, fmt.Errorf("model は必須です")
	}
	return &GeminiText{client: client, model: model}, nil
}

// Generate はプロンプトを送信し、応答テキストを返します。
// GenerateContent は出力トークン数を指定できないため、MaxTokens は出力量の目安としてプロンプトに含めます。
func (g *GeminiText) Generate(ctx context.Context, req TextRequest) (string, error) {
	resp, err := g.client.GenerateContent(ctx, buildTextPrompt(req), g.model)
	if err != nil {
		return "", upstream(domain.StageNarrative, err)
	}
	if resp == nil {
		return "", upstream(domain.StageNarrative, fmt.Errorf("モデル %s の応答が空です", g.model))
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", upstream(domain.StageNarrative, fmt.Errorf("モデル %s の応答が空です", g.model))
	}
	return text, nil
}

func buildTextPrompt(req TextRequest) string {
	var directives []string
	if req.MaxTokens > 0 {
		directives = append(directives, fmt.Sprintf("出力全体は %d トークン以内に収めてください。", req.MaxTokens))
	}
	if req.Structured {
		directives = append(directives, jsonOnlyDirective)
	}
	prompt := strings.TrimRight(req.Prompt, "\n")
	if len(directives) == 0 {
		return prompt
	}
	return prompt + "\n\n" + strings.Join(directives, "\n")
}
