package workflow

import (
	"context"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// Workflow は絵本の生成と成果物の取得を提供する窓口です。
type Workflow interface {
	Generate(ctx context.Context, req domain.BookRequest, shape domain.ResponseShape) (*domain.BookOutput, error)
	Fetch(ctx context.Context, id string) (*domain.Artifact, error)
}

var _ Workflow = (*Manager)(nil)
