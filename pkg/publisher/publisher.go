package publisher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-ehon-kit/pkg/asset"
	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// DocumentAssembler は物語と挿絵からページの並びを組み立てる契約です。
type DocumentAssembler interface {
	Assemble(id string, spec domain.NarrativeSpec, ills []domain.Illustration, createdAt time.Time) (domain.Document, error)
}

// ArtifactStore は成果物を永続化する契約です。
type ArtifactStore interface {
	SaveDocument(ctx context.Context, doc asset.Document) (domain.ArtifactRef, error)
	SaveNarration(ctx context.Context, id string, audio *domain.NarrationAudio) (string, error)
}

// Options は DocumentPublisher の任意設定です。
type Options struct {
	Format           domain.PageFormat
	PlaceholderLabel string
	// Now は成果物の生成時刻を返します。nil の場合は time.Now を使います。
	Now func() time.Time
}

// DocumentPublisher は文書を組版して保存し、成果物への参照を応答にする OutputStrategy です。
type DocumentPublisher struct {
	assembler DocumentAssembler
	newCanvas CanvasFactory
	store     ArtifactStore
	opts      Options
}

// NewDocumentPublisher は DocumentPublisher を初期化します。
func NewDocumentPublisher(assembler DocumentAssembler, newCanvas CanvasFactory, store ArtifactStore, opts Options) (*DocumentPublisher, error) {
	if assembler == nil {
		return nil, fmt.Errorf("DocumentAssembler は必須です")
	}
	if newCanvas == nil {
		return nil, fmt.Errorf("CanvasFactory は必須です")
	}
	if store == nil {
		return nil, fmt.Errorf("ArtifactStore は必須です")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &DocumentPublisher{
		assembler: assembler,
		newCanvas: newCanvas,
		store:     store,
		opts:      opts,
	}, nil
}

// Shape は応答の形を返します。
func (p *DocumentPublisher) Shape() domain.ResponseShape { return domain.ShapeArtifact }

// Render は Document を組み立てて描画し、保存した成果物の参照を返します。
// 読み上げ音声は文書とは別の成果物として保存します。
func (p *DocumentPublisher) Render(ctx context.Context, result domain.BookResult) (*domain.BookOutput, error) {
	now := p.opts.Now()
	id := asset.NewArtifactID(now, result.RequestID)

	doc, err := p.assembler.Assemble(id, result.Narrative, result.Illustrations, now)
	if err != nil {
		return nil, fmt.Errorf("文書の組み立てに失敗しました: %w", err)
	}

	canvas, err := p.newCanvas(doc.Format)
	if err != nil {
		return nil, fmt.Errorf("キャンバスの初期化に失敗しました: %w", err)
	}
	warnings, err := RenderDocument(canvas, doc, p.opts.PlaceholderLabel)
	if err != nil {
		return nil, fmt.Errorf("文書の描画に失敗しました: %w", err)
	}
	for _, w := range warnings {
		slog.WarnContext(ctx, w, "request_id", result.RequestID)
	}

	var buf bytes.Buffer
	if err := canvas.Finalize(&buf); err != nil {
		return nil, err
	}

	ref, err := p.store.SaveDocument(ctx, asset.Document{
		ID:        id,
		Title:     doc.Title,
		Data:      buf.Bytes(),
		MimeType:  canvas.MimeType(),
		Pages:     len(doc.Pages),
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("成果物の保存に失敗しました: %w", err)
	}

	out := &domain.BookOutput{
		RequestID: result.RequestID,
		Title:     result.Narrative.Title,
		Shape:     domain.ShapeArtifact,
		Artifact:  &ref,
		Warnings:  append(append([]string(nil), result.Warnings...), warnings...),
	}

	if result.Narration != nil {
		loc, err := p.store.SaveNarration(ctx, id, result.Narration)
		if err != nil {
			slog.WarnContext(ctx, "読み上げ音声の保存に失敗しました", "request_id", result.RequestID, "error", err)
			out.Warnings = append(out.Warnings, "読み上げ音声を保存できませんでした")
		} else {
			narration := *result.Narration
			narration.Location = loc
			out.Narration = &narration
		}
	}
	return out, nil
}

func imageWarning(sceneIndex int, err error) string {
	return fmt.Sprintf("シーン %d の画像を描画できなかったためプレースホルダーで代替しました: %v", sceneIndex, err)
}
