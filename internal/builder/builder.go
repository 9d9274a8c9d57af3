package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/publisher"
	"github.com/shouni/go-ehon-kit/pkg/workflow"

	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// InitializeIO は GCS とローカルの両方を扱えるリーダーとライターを作るのだ。
// パスが gs:// で始まれば GCS、それ以外はローカルのファイルとして扱われるのだ
func InitializeIO(ctx context.Context) (remoteio.InputReader, remoteio.OutputWriter, error) {
	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("GCS クライアントファクトリの初期化に失敗したのだ: %w", err)
	}
	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, nil, fmt.Errorf("InputReader の初期化に失敗したのだ: %w", err)
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, nil, fmt.Errorf("OutputWriter の初期化に失敗したのだ: %w", err)
	}
	return reader, writer, nil
}

// BuildManager は設定に従って workflow.Manager を構築します。
// フォントが指定されていない場合は inline 形式のみ使えるのだ
func BuildManager(ctx context.Context, appCtx *AppContext) (*workflow.Manager, error) {
	fonts, err := LoadFonts(ctx, appCtx.Reader, appCtx.Config.FontRegularPath, appCtx.Config.FontBoldPath)
	if err != nil {
		return nil, err
	}

	m, err := workflow.New(ctx, workflow.ManagerArgs{
		Config: appCtx.Config,
		Reader: appCtx.Reader,
		Writer: appCtx.Writer,
		Fonts:  fonts,
		OnTransition: func(requestID string, from, to domain.RequestState) {
			slog.DebugContext(ctx, "state", "request_id", requestID, "from", from, "to", to)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Manager の初期化に失敗したのだ: %w", err)
	}
	return m, nil
}

// LoadFonts は本文用と見出し用の TrueType フォントを読み込みます。
func LoadFonts(ctx context.Context, reader remoteio.InputReader, regularPath, boldPath string) (publisher.FontSet, error) {
	var fonts publisher.FontSet
	if regularPath == "" {
		slog.WarnContext(ctx, "フォントが指定されていないので PDF は出力できないのだ (EHON_FONT_REGULAR)")
		return fonts, nil
	}

	regular, err := readAll(ctx, reader, regularPath)
	if err != nil {
		return fonts, fmt.Errorf("本文用フォントの読み込みに失敗したのだ: %w", err)
	}
	fonts.Regular = regular

	if boldPath != "" {
		bold, err := readAll(ctx, reader, boldPath)
		if err != nil {
			return fonts, fmt.Errorf("見出し用フォントの読み込みに失敗したのだ: %w", err)
		}
		fonts.Bold = bold
	}
	return fonts, nil
}

func readAll(ctx context.Context, reader remoteio.InputReader, path string) ([]byte, error) {
	rc, err := reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("'%s' を開けなかったのだ: %w", path, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
