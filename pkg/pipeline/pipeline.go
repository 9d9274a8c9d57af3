package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/shouni/go-ehon-kit/pkg/pipeline"

// Options は Pipeline の設定です。
type Options struct {
	Profile        config.Profile
	StylePrefix    string
	ConsistentSeed bool
	// NewRequestID はリクエスト ID を払い出します。nil の場合は UUID v4 を使います。
	NewRequestID func() string
	// OnTransition は状態遷移のたびに呼ばれます。
	OnTransition func(requestID string, from, to domain.RequestState)
}

// Pipeline は1リクエストの生成工程全体をオーケストレートする司令塔です。
// リクエストをまたいで共有する可変状態は持ちません。
type Pipeline struct {
	narrative     NarrativeGenerator
	illustrations IllustrationGenerator
	narration     NarrationSynthesizer
	opts          Options
	tracer        trace.Tracer
}

// New は Pipeline を初期化します。narration が nil の場合は読み上げを行いません。
func New(narrative NarrativeGenerator, illustrations IllustrationGenerator, narration NarrationSynthesizer, opts Options) (*Pipeline, error) {
	if narrative == nil {
		return nil, fmt.Errorf("NarrativeGenerator は必須です")
	}
	if illustrations == nil {
		return nil, fmt.Errorf("IllustrationGenerator は必須です")
	}
	if opts.Profile.SceneCount <= 0 {
		return nil, fmt.Errorf("profile のシーン数は 1 以上である必要があります")
	}
	if opts.NewRequestID == nil {
		opts.NewRequestID = uuid.NewString
	}
	return &Pipeline{
		narrative:     narrative,
		illustrations: illustrations,
		narration:     narration,
		opts:          opts,
		tracer:        otel.Tracer(tracerName),
	}, nil
}

// Run はリクエストを検証し、物語・挿絵・読み上げを生成して strategy の形で応答を返します。
// 物語の生成に失敗した場合は後続の工程を開始しません。挿絵と読み上げの失敗は応答を失敗にしません。
func (p *Pipeline) Run(ctx context.Context, req domain.BookRequest, strategy OutputStrategy) (*domain.BookOutput, error) {
	if strategy == nil {
		return nil, fmt.Errorf("OutputStrategy は必須です")
	}

	requestID := p.opts.NewRequestID()
	ctx, span := p.tracer.Start(ctx, "ehon.generate", trace.WithAttributes(
		attribute.String("request_id", requestID),
		attribute.String("shape", string(strategy.Shape())),
	))
	defer span.End()

	run := &requestRun{
		id:     requestID,
		sm:     domain.NewStateMachine(),
		notify: p.opts.OnTransition,
		logger: slog.With("request_id", requestID),
	}
	start := time.Now()

	out, err := p.run(ctx, run, req, strategy)
	if err != nil {
		run.fail()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		run.logger.ErrorContext(ctx, "絵本の生成に失敗しました", "state", run.sm.Current(), "error", err)
		return nil, err
	}

	run.logger.InfoContext(ctx, "絵本の生成が完了しました",
		"title", out.Title,
		"shape", out.Shape,
		"warnings", len(out.Warnings),
		"duration", time.Since(start),
	)
	return out, nil
}

func (p *Pipeline) run(ctx context.Context, run *requestRun, req domain.BookRequest, strategy OutputStrategy) (*domain.BookOutput, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 1. 物語
	if err := run.advance(domain.StateNarrativePending); err != nil {
		return nil, err
	}
	narrative, err := p.generateNarrative(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := run.advance(domain.StateNarrativeReady); err != nil {
		return nil, err
	}

	// 2. 挿絵と読み上げ（並行）
	identity := newVisualIdentity(run.id, req, p.opts.StylePrefix, p.opts.ConsistentSeed)
	if err := run.advance(domain.StateIllustrationsPending); err != nil {
		return nil, err
	}
	result := domain.BookResult{
		RequestID: run.id,
		Request:   req,
		Narrative: narrative,
		Identity:  identity,
	}
	p.generateMedia(ctx, run, &result)

	// 3. 応答の組み立て
	if err := run.advance(domain.StateAssembling); err != nil {
		return nil, err
	}
	out, err := p.render(ctx, strategy, result)
	if err != nil {
		return nil, err
	}
	if err := run.advance(domain.StateComplete); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Pipeline) generateNarrative(ctx context.Context, req domain.BookRequest) (domain.NarrativeSpec, error) {
	ctx, span := p.tracer.Start(ctx, "ehon.narrative", trace.WithAttributes(
		attribute.String("profile", p.opts.Profile.Name),
		attribute.Int("scene_count", p.opts.Profile.SceneCount),
	))
	defer span.End()

	spec, err := p.narrative.Generate(ctx, req, p.opts.Profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "narrative generation failed")
		return domain.NarrativeSpec{}, err
	}
	span.SetAttributes(attribute.Int("total_chars", spec.TotalChars()))
	return spec, nil
}

// generateMedia は挿絵と読み上げを並行に実行します。どちらの失敗もエラーにはせず警告として記録します。
func (p *Pipeline) generateMedia(ctx context.Context, run *requestRun, result *domain.BookResult) {
	var (
		illustrationWarnings []string
		narrationWarning     string
	)

	var eg errgroup.Group
	eg.Go(func() error {
		ctx, span := p.tracer.Start(ctx, "ehon.illustration", trace.WithAttributes(
			attribute.Int("scene_count", len(result.Narrative.Scenes)),
		))
		defer span.End()

		result.Illustrations = p.illustrations.GenerateAll(ctx, result.Narrative.Scenes, result.Identity)
		failed := domain.FailedScenes(result.Illustrations)
		span.SetAttributes(attribute.Int("failed_scenes", len(failed)))
		for _, idx := range failed {
			illustrationWarnings = append(illustrationWarnings, fmt.Sprintf("シーン %d の挿絵を生成できませんでした", idx))
		}
		return nil
	})

	if p.narration != nil {
		eg.Go(func() error {
			ctx, span := p.tracer.Start(ctx, "ehon.narration")
			defer span.End()

			audio, err := p.narration.Synthesize(ctx, run.id, result.Narrative)
			if err != nil {
				span.RecordError(err)
				run.logger.WarnContext(ctx, "読み上げ音声を省略します", "error", err)
				narrationWarning = "読み上げ音声を生成できませんでした"
				return nil
			}
			result.Narration = audio
			return nil
		})
	}
	_ = eg.Wait()

	result.Warnings = illustrationWarnings
	if narrationWarning != "" {
		result.Warnings = append(result.Warnings, narrationWarning)
	}
}

func (p *Pipeline) render(ctx context.Context, strategy OutputStrategy, result domain.BookResult) (*domain.BookOutput, error) {
	ctx, span := p.tracer.Start(ctx, "ehon.render", trace.WithAttributes(
		attribute.String("shape", string(strategy.Shape())),
	))
	defer span.End()

	out, err := strategy.Render(ctx, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, &domain.UpstreamServiceError{Stage: domain.StageRender, Err: err}
	}
	return out, nil
}

// requestRun は1回の Run に閉じた状態です。
type requestRun struct {
	id     string
	sm     *domain.StateMachine
	notify func(requestID string, from, to domain.RequestState)
	logger *slog.Logger
}

func (r *requestRun) advance(to domain.RequestState) error {
	from := r.sm.Current()
	if err := r.sm.Advance(to); err != nil {
		return err
	}
	r.logger.Debug("状態が遷移しました", "from", from, "to", to)
	if r.notify != nil {
		r.notify(r.id, from, to)
	}
	return nil
}

func (r *requestRun) fail() {
	from := r.sm.Current()
	if from.Terminal() {
		return
	}
	r.sm.Fail()
	if r.notify != nil {
		r.notify(r.id, from, domain.StateFailed)
	}
}
