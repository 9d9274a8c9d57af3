package adapters

import (
	"context"
	"fmt"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// seedMask は Gemini のシードが int32 の範囲に収まるよう下位 31 bit を残します。
const seedMask = 0x7FFFFFFF

// PanelGenerator は gemini-image-kit の1枚画像生成です。imagekit.ImageGenerator が満たします。
type PanelGenerator interface {
	GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}

// GeminiImage は gemini-image-kit を使った ImageGenerator の実装です。
type GeminiImage struct {
	panels PanelGenerator
}

// NewGeminiImage は GeminiImage を初期化します。
func NewGeminiImage(panels PanelGenerator) (*GeminiImage, error) {
	if panels == nil {
		return nil, fmt.Errorf("image generator は必須です")
	}
	return &GeminiImage{panels: panels}, nil
}

// GenerateIllustration は1枚の画像を生成します。
// Seed は下位 31 bit に丸めて渡すため、同じ一貫性キーからは常に同じシードが送られます。
func (g *GeminiImage) GenerateIllustration(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	var usedSeed int64
	if req.Seed != nil {
		masked := *req.Seed & seedMask
		req.Seed = &masked
		usedSeed = masked
	}

	resp, err := g.panels.GenerateMangaPanel(ctx, req)
	if err != nil {
		return nil, upstream(domain.StageIllustration, err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, upstream(domain.StageIllustration, fmt.Errorf("応答に画像データが含まれていません"))
	}
	if resp.UsedSeed == 0 {
		resp.UsedSeed = usedSeed
	}
	return resp, nil
}
