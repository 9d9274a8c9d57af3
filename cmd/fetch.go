package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/shouni/go-ehon-kit/internal/pipeline"
	"github.com/shouni/go-ehon-kit/pkg/domain"

	"github.com/spf13/cobra"
)

var fetchOutput string

// fetchCmd は、保存済みの PDF を識別子で取り出すのだ。
var fetchCmd = &cobra.Command{
	Use:     "fetch <id>",
	Short:   "保存済みの絵本を識別子で取り出すのだ。",
	Example: "  ehon-go fetch book_20261015_093000_0a1b2c3d -o book.pdf",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := pipeline.ExecuteFetch(cmd.Context(), cfg, opts, args[0], fetchOutput, os.Stdout)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("絵本 %q は見つからなかったのだ（期限切れかもしれないのだ）", args[0])
		}
		return err
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "書き出し先のパスなのだ。未指定なら標準出力なのだ。")
	fetchCmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "成果物の保存先ディレクトリなのだ。")
}
