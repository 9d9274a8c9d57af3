package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-ehon-kit/internal/pipeline"
	"github.com/shouni/go-ehon-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// generateCmd は、絵本を生成して PDF の成果物として保存するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "絵本を生成して PDF として保存するのだ。",
	Long: `年齢・性別・主人公・テーマから物語と挿絵を生成し、1シーン1ページの PDF にまとめるのだ。
読み上げ音声は PDF とは別のファイルとして同じディレクトリに保存するのだよ。`,
	Example: "  ehon-go generate --age 4 --gender おとこのこ --hero ロボット --theme ゆうじょう",
	PreRunE: requireAPIKey,
	RunE:    generateCommand,
}

func init() {
	addBookFlags(generateCmd)
	generateCmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "成果物の保存先ディレクトリなのだ。")
}

// addBookFlags は generate と story で共通のリクエスト用フラグを定義するのだ。
func addBookFlags(c *cobra.Command) {
	c.Flags().IntVarP(&opts.Age, "age", "a", 4, fmt.Sprintf("読者の年齢（%d〜%d）なのだ。", domain.MinAge, domain.MaxAge))
	c.Flags().StringVarP(&opts.Gender, "gender", "g", string(domain.GenderBoy), "おとこのこ / おんなのこ なのだ。")
	c.Flags().StringVar(&opts.Hero, "hero", "", "主人公なのだ。choices で候補を確認できるのだ。")
	c.Flags().StringVar(&opts.Theme, "theme", "", "テーマなのだ。choices で候補を確認できるのだ。")
	c.Flags().StringVarP(&opts.Profile, "profile", "p", "", "物語の長さ（short / standard）なのだ。")
	c.Flags().BoolVar(&opts.NoNarration, "no-narration", false, "読み上げ音声を作らないのだ。")
	_ = c.MarkFlagRequired("hero")
	_ = c.MarkFlagRequired("theme")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	out, err := pipeline.Execute(ctx, cfg, opts, domain.ShapeArtifact, os.Stdout)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "絵本ができあがったのだ！",
		"title", out.Title,
		"id", out.Artifact.ID,
		"path", out.Artifact.Location,
	)
	return nil
}
