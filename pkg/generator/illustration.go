package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/adapters"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/prompts"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// IllustrationAspectRatio は絵本の挿絵の縦横比です。ページ上では正方形で配置されます。
const IllustrationAspectRatio = "1:1"

// IllustrationGenerator はシーンごとに挿絵を生成します。失敗はエラーではなく結果として返します。
type IllustrationGenerator struct {
	images        adapters.ImageGenerator
	promptBuilder IllustrationPromptBuilder
	limiter       *rate.Limiter
	workers       int
	timeout       time.Duration
}

// IllustrationOptions は IllustrationGenerator の任意設定です。
type IllustrationOptions struct {
	// RateInterval が正の場合、呼び出し間隔を rate.Limiter で制御します。
	RateInterval time.Duration
	Workers      int
	Timeout      time.Duration
}

// NewIllustrationGenerator は IllustrationGenerator を初期化します。
func NewIllustrationGenerator(images adapters.ImageGenerator, pb IllustrationPromptBuilder, opts IllustrationOptions) (*IllustrationGenerator, error) {
	if images == nil {
		return nil, fmt.Errorf("ImageGenerator は必須です")
	}
	if pb == nil {
		return nil, fmt.Errorf("IllustrationPromptBuilder は必須です")
	}

	var limiter *rate.Limiter
	if opts.RateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RateInterval), 2)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	return &IllustrationGenerator{
		images:        images,
		promptBuilder: pb,
		limiter:       limiter,
		workers:       workers,
		timeout:       opts.Timeout,
	}, nil
}

// Generate は1シーン分の挿絵を生成します。ConsistencyKey はそのままシードとして渡します。
func (g *IllustrationGenerator) Generate(ctx context.Context, scene domain.Scene, identity domain.VisualIdentity) domain.Illustration {
	prompt := g.promptBuilder.Build(scene.Text, identity)
	ill := domain.Illustration{
		SceneIndex:   scene.Index,
		SourcePrompt: prompt,
	}
	logger := slog.With("scene_index", scene.Index)

	fail := func(err error) domain.Illustration {
		logger.WarnContext(ctx, "挿絵の生成に失敗しました。プレースホルダーで代替します", "error", err)
		ill.Status = domain.IllustrationFailed
		ill.Err = &domain.IllustrationError{SceneIndex: scene.Index, Err: err}
		return ill
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fail(err)
		}
	}

	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.images.GenerateIllustration(callCtx, imagedom.ImageGenerationRequest{
		Prompt:         prompt,
		SystemPrompt:   prompts.SystemInstruction,
		NegativePrompt: prompts.NegativePrompt,
		AspectRatio:    IllustrationAspectRatio,
		Seed:           identity.ConsistencyKey,
	})
	if err != nil {
		return fail(err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return fail(fmt.Errorf("画像データが空です"))
	}

	logger.InfoContext(ctx, "挿絵を生成しました", "mime_type", resp.MimeType, "duration", time.Since(start))
	ill.Data = resp.Data
	ill.MimeType = resp.MimeType
	ill.Status = domain.IllustrationOK
	return ill
}

// GenerateAll は全シーンの挿絵を並列に生成します。結果はシーン順に並び、
// 1シーンの失敗が他のシーンを中断することはありません。
func (g *IllustrationGenerator) GenerateAll(ctx context.Context, scenes []domain.Scene, identity domain.VisualIdentity) []domain.Illustration {
	results := make([]domain.Illustration, len(scenes))

	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for i, scene := range scenes {
		eg.Go(func() error {
			results[i] = g.Generate(ctx, scene, identity)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}
