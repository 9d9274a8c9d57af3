package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-ehon-kit/pkg/adapters"
	"github.com/shouni/go-ehon-kit/pkg/asset"
	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/director"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/generator"
	"github.com/shouni/go-ehon-kit/pkg/pipeline"
	"github.com/shouni/go-ehon-kit/pkg/prompts"
	"github.com/shouni/go-ehon-kit/pkg/publisher"

	imagekit "github.com/shouni/gemini-image-kit/pkg/generator"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

const (
	defaultGeminiTemperature float32 = 0.8

	defaultCacheExpiration = 5 * time.Minute
	cacheCleanupInterval   = 15 * time.Minute
	defaultTTL             = 5 * time.Minute
)

// ManagerArgs は Manager の構築に必要な依存関係です。
// TextGenerator などのバックエンドが nil の場合は Gemini クライアントから生成します。
type ManagerArgs struct {
	Config config.Config
	Reader remoteio.InputReader
	Writer remoteio.OutputWriter
	Fonts  publisher.FontSet

	TextGenerator     adapters.TextGenerator
	ImageGenerator    adapters.ImageGenerator
	SpeechSynthesizer adapters.SpeechSynthesizer

	// CanvasFactory が nil の場合は Fonts を使った PDF キャンバスを使います。
	CanvasFactory publisher.CanvasFactory
	Now           func() time.Time
	OnTransition  func(requestID string, from, to domain.RequestState)
}

// Manager は生成パイプラインと成果物ストアを束ねます。
type Manager struct {
	cfg      config.Config
	pipeline *pipeline.Pipeline
	store    *asset.Store
	inline   *publisher.InlinePublisher
	document *publisher.DocumentPublisher
}

// New は設定とバックエンドを基に新しい Manager を初期化します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	if args.Reader == nil {
		return nil, fmt.Errorf("InputReader は必須です")
	}
	if args.Writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}
	if err := args.Config.Validate(); err != nil {
		return nil, fmt.Errorf("設定が不正です: %w", err)
	}

	backends, err := initializeBackends(ctx, args)
	if err != nil {
		return nil, err
	}

	p, err := buildPipeline(args, backends)
	if err != nil {
		return nil, fmt.Errorf("パイプラインの初期化に失敗しました: %w", err)
	}

	store, err := asset.NewStore(args.Writer, args.Reader, args.Config.OutputDir, args.Config.ArtifactTTL)
	if err != nil {
		return nil, fmt.Errorf("成果物ストアの初期化に失敗しました: %w", err)
	}

	document, err := initializeDocumentPublisher(args, store)
	if err != nil {
		return nil, err
	}

	return &Manager{
		cfg:      args.Config,
		pipeline: p,
		store:    store,
		inline:   publisher.NewInlinePublisher(),
		document: document,
	}, nil
}

type backends struct {
	text   adapters.TextGenerator
	images adapters.ImageGenerator
	speech adapters.SpeechSynthesizer
}

// initializeBackends は注入されていないバックエンドを Gemini クライアントから生成します。
// 物語と挿絵は go-gemini-client と gemini-image-kit を、読み上げは genai を直接使います。
func initializeBackends(ctx context.Context, args ManagerArgs) (backends, error) {
	b := backends{
		text:   args.TextGenerator,
		images: args.ImageGenerator,
		speech: args.SpeechSynthesizer,
	}
	if !args.Config.NarrationEnabled {
		b.speech = nil
	}

	if b.text == nil || b.images == nil {
		aiClient, err := initializeAIClient(ctx, args.Config.GeminiAPIKey)
		if err != nil {
			return backends{}, err
		}
		if b.text == nil {
			if b.text, err = adapters.NewGeminiText(aiClient, args.Config.GeminiModel); err != nil {
				return backends{}, err
			}
		}
		if b.images == nil {
			gen, err := initializeImageGenerator(args.Reader, aiClient, args.Config)
			if err != nil {
				return backends{}, err
			}
			if b.images, err = adapters.NewGeminiImage(gen); err != nil {
				return backends{}, err
			}
		}
	}

	if args.Config.NarrationEnabled && b.speech == nil {
		client, err := initializeSpeechClient(ctx, args.Config.GeminiAPIKey)
		if err != nil {
			return backends{}, err
		}
		if b.speech, err = adapters.NewGeminiSpeech(client, args.Config.SpeechModel, args.Config.SpeechVoice); err != nil {
			return backends{}, err
		}
	}
	return b, nil
}

// initializeAIClient は gemini クライアントを初期化します。
func initializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY が設定されていません")
	}
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// initializeSpeechClient は音声合成用の genai クライアントを初期化します。
func initializeSpeechClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY が設定されていません")
	}
	return adapters.NewGeminiClient(ctx, apiKey)
}

// initializeImageGenerator は、画像キャッシュを含む ImageGenerator を初期化します。
func initializeImageGenerator(reader remoteio.InputReader, aiClient gemini.GenerativeModel, cfg config.Config) (imagekit.ImageGenerator, error) {
	httpClient := httpkit.New(cfg.RequestTimeout)
	imgCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	core, err := imagekit.NewGeminiImageCore(
		aiClient,
		reader,
		httpClient,
		imgCache,
		defaultTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}
	return imagekit.NewGeminiGenerator(cfg.ImageModel, core)
}

func buildPipeline(args ManagerArgs, b backends) (*pipeline.Pipeline, error) {
	cfg := args.Config

	storyPB, err := prompts.NewStoryPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("StoryPromptBuilder の新規作成に失敗しました: %w", err)
	}
	narrative, err := generator.NewNarrativeGenerator(b.text, storyPB, cfg.RetryTokenIncrement, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	illustrations, err := generator.NewIllustrationGenerator(b.images, prompts.NewIllustrationPromptBuilder(), generator.IllustrationOptions{
		RateInterval: cfg.RateInterval,
		Workers:      cfg.Workers,
		Timeout:      cfg.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	// 読み上げが無効な場合は nil のままにします
	var narration pipeline.NarrationSynthesizer
	if b.speech != nil {
		n, err := generator.NewNarrationSynthesizer(b.speech, cfg.RequestTimeout)
		if err != nil {
			return nil, err
		}
		narration = n
	}

	return pipeline.New(narrative, illustrations, narration, pipeline.Options{
		Profile:        cfg.Profile,
		StylePrefix:    cfg.StylePrefix,
		ConsistentSeed: cfg.ConsistentSeed,
		OnTransition:   args.OnTransition,
	})
}

// initializeDocumentPublisher は PDF 出力用の publisher を初期化します。
// フォントもキャンバスも無い場合は nil を返し、artifact 形式の要求をエラーにします。
func initializeDocumentPublisher(args ManagerArgs, store *asset.Store) (*publisher.DocumentPublisher, error) {
	newCanvas := args.CanvasFactory
	if newCanvas == nil {
		if len(args.Fonts.Regular) == 0 {
			return nil, nil
		}
		newCanvas = publisher.NewPDFCanvasFactory(args.Fonts)
	}

	format := director.A4Portrait()
	doc, err := publisher.NewDocumentPublisher(
		director.NewAssembler(format, args.Config.PlaceholderLabel),
		newCanvas,
		store,
		publisher.Options{
			Format:           format,
			PlaceholderLabel: args.Config.PlaceholderLabel,
			Now:              args.Now,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("DocumentPublisher の初期化に失敗しました: %w", err)
	}
	return doc, nil
}
