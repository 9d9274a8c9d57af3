package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shouni/go-ehon-kit/internal/config"
	"github.com/shouni/go-ehon-kit/internal/telemetry"
	ehon "github.com/shouni/go-ehon-kit/pkg/config"
	"github.com/spf13/cobra"
)

const appName = "ehon-go"

var (
	opts config.GenerateOptions
	cfg  ehon.Config

	configFile string
	verbose    bool
	logJSON    bool
	traceOn    bool

	shutdownTracer func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:                appName,
	Short:              "年齢と好みに合わせた絵本を AI で作るのだ！",
	SilenceUsage:       true,
	PersistentPreRunE:  preRunAppE,
	PersistentPostRunE: postRunAppE,
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, storyCmd, fetchCmd, choicesCmd)
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "設定ファイル（YAML）のパスなのだ。未指定なら ehon.yaml を探すのだ。")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出すのだ。")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "ログを JSON で出すのだ。")
	rootCmd.PersistentFlags().BoolVar(&traceOn, "trace", false, "工程ごとのトレースを標準エラーに出すのだ。")
}

// preRunAppE は、コマンド実行前に .env と設定ファイルを読み込むのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	setupLogger()

	loaded, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if traceOn {
		shutdown, err := telemetry.InitTracer(appName, os.Stderr, slog.Default())
		if err != nil {
			return fmt.Errorf("トレースの初期化に失敗したのだ: %w", err)
		}
		shutdownTracer = shutdown
	}
	return nil
}

// postRunAppE は、溜まったスパンを書き出してから終わるのだ。
func postRunAppE(cmd *cobra.Command, args []string) error {
	if shutdownTracer != nil {
		return shutdownTracer(cmd.Context())
	}
	return nil
}

// requireAPIKey は Gemini を呼ぶコマンドの前に API キーを確認するのだ。
func requireAPIKey(cmd *cobra.Command, args []string) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	return nil
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	if logJSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
