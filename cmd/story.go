package cmd

import (
	"os"

	"github.com/shouni/go-ehon-kit/internal/pipeline"
	"github.com/shouni/go-ehon-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// storyCmd は、保存せずに {画像, 本文} の組を JSON で標準出力に流すのだ。
var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "絵本をインライン形式（JSON）で出力するのだ。",
	Long: `画像は data URI、失敗したシーンは placeholder として、シーン順に JSON で出力するのだ。
何も保存しないので、フロントエンドでそのまま描画したいときに使うのだよ。`,
	Example: "  ehon-go story --age 6 --gender おんなのこ --hero まほうつかい --theme ぼうけん > book.json",
	PreRunE: requireAPIKey,
	RunE:    storyCommand,
}

func init() {
	addBookFlags(storyCmd)
}

func storyCommand(cmd *cobra.Command, args []string) error {
	_, err := pipeline.Execute(cmd.Context(), cfg, opts, domain.ShapeInline, os.Stdout)
	return err
}
