package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-ehon-kit/internal/builder"
	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/pkg/asset"
	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/workflow"
	ehon "github.com/shouni/go-ehon-kit/pkg/config"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// Execute は CLI の入力から絵本を1冊生成し、応答を JSON で w に書き出すのだ。
func Execute(ctx context.Context, cfg ehon.Config, opts config.GenerateOptions, shape domain.ResponseShape, w io.Writer) (*domain.BookOutput, error) {
	req, err := BuildRequest(opts)
	if err != nil {
		return nil, err
	}

	m, err := setupManager(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "絵本の生成を開始するのだ！",
		"age", req.Age,
		"hero", req.Hero,
		"theme", req.Theme,
		"profile", cfg.Profile.Name,
		"shape", shape,
	)

	out, err := m.Generate(ctx, req, shape)
	if err != nil {
		return nil, fmt.Errorf("絵本の生成に失敗したのだ: %w", err)
	}
	for _, warning := range out.Warnings {
		slog.WarnContext(ctx, warning)
	}

	if err := writeJSON(w, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteFetch は保存済みの成果物を取得して outputPath に書き出すのだ。
// outputPath が空なら w に直接書き出すのだ
// 取得だけなので Gemini のクライアントは作らないのだ
func ExecuteFetch(ctx context.Context, cfg ehon.Config, opts config.GenerateOptions, id, outputPath string, w io.Writer) error {
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	reader, writer, err := builder.InitializeIO(ctx)
	if err != nil {
		return err
	}
	return fetchArtifact(ctx, cfg, reader, writer, id, outputPath, w)
}

// fetchArtifact は outputPath も remoteio 経由で書くので gs:// にも書き出せるのだ
func fetchArtifact(ctx context.Context, cfg ehon.Config, reader remoteio.InputReader, writer remoteio.OutputWriter, id, outputPath string, w io.Writer) error {
	store, err := asset.NewStore(writer, reader, cfg.OutputDir, cfg.ArtifactTTL)
	if err != nil {
		return err
	}

	artifact, err := store.Fetch(ctx, id)
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err := w.Write(artifact.Data)
		return err
	}
	if err := writer.Write(ctx, outputPath, bytes.NewReader(artifact.Data), artifact.MimeType); err != nil {
		return fmt.Errorf("成果物の書き出しに失敗したのだ (%s): %w", outputPath, err)
	}
	slog.InfoContext(ctx, "成果物を書き出したのだ", "id", id, "path", outputPath, "pages", artifact.Pages)
	return nil
}

// BuildRequest は CLI のフラグから BookRequest を組み立てるのだ。検証は Pipeline に任せるのだ
func BuildRequest(opts config.GenerateOptions) (domain.BookRequest, error) {
	gender, ok := domain.ParseGender(opts.Gender)
	if !ok {
		return domain.BookRequest{}, &domain.ValidationError{Fields: []domain.FieldViolation{{
			Field:  "gender",
			Reason: fmt.Sprintf("%q または %q を指定してほしいのだ (got %q)", domain.GenderBoy, domain.GenderGirl, opts.Gender),
		}}}
	}
	return domain.BookRequest{
		Age:    opts.Age,
		Gender: gender,
		Hero:   opts.Hero,
		Theme:  opts.Theme,
	}, nil
}

func setupManager(ctx context.Context, cfg ehon.Config, opts config.GenerateOptions) (*workflow.Manager, error) {
	if opts.Profile != "" {
		p, err := ehon.LookupProfile(opts.Profile)
		if err != nil {
			return nil, err
		}
		cfg.Profile = p
	}
	if opts.NoNarration {
		cfg.NarrationEnabled = false
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}

	reader, writer, err := builder.InitializeIO(ctx)
	if err != nil {
		return nil, err
	}
	appCtx := builder.NewAppContext(cfg, opts, reader, writer)
	return builder.BuildManager(ctx, &appCtx)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON の書き出しに失敗したのだ: %w", err)
	}
	return nil
}
