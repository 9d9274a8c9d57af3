package builder

import (
	"github.com/shouni/go-ehon-kit/internal/config"
	ehon "github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  ehon.Config            // Configは、ファイルと環境変数から読み込まれた設定です（APIキー、モデル名など）。
	Options config.GenerateOptions // Optionsは、コマンドラインから渡された実行時の設定です（年齢、主人公など）。
	Reader  remoteio.InputReader   // Readerは、フォントや成果物の読み込みに使用する入力元です。
	Writer  remoteio.OutputWriter  // Writerは、生成された成果物を保存するための出力先です。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg ehon.Config, opts config.GenerateOptions, reader remoteio.InputReader, writer remoteio.OutputWriter) AppContext {
	return AppContext{
		Config:  cfg,
		Options: opts,
		Reader:  reader,
		Writer:  writer,
	}
}
