package workflow

import (
	"context"
	"fmt"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/pipeline"
)

// Generate はリクエストから絵本を生成し、shape で指定された形の応答を返します。
func (m *Manager) Generate(ctx context.Context, req domain.BookRequest, shape domain.ResponseShape) (*domain.BookOutput, error) {
	strategy, err := m.strategy(shape)
	if err != nil {
		return nil, err
	}
	return m.pipeline.Run(ctx, req, strategy)
}

// Fetch は保存済みの成果物を識別子で取得します。無い場合は domain.ErrNotFound を返します。
func (m *Manager) Fetch(ctx context.Context, id string) (*domain.Artifact, error) {
	return m.store.Fetch(ctx, id)
}

func (m *Manager) strategy(shape domain.ResponseShape) (pipeline.OutputStrategy, error) {
	switch shape {
	case domain.ShapeInline:
		return m.inline, nil
	case domain.ShapeArtifact, "":
		if m.document == nil {
			return nil, fmt.Errorf("artifact 形式の出力にはフォントの指定が必要です")
		}
		return m.document, nil
	default:
		return nil, fmt.Errorf("未知の応答形式です: %q (inline または artifact を指定してください)", shape)
	}
}
