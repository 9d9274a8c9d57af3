package cmd

import (
	"fmt"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// choicesCmd は、選べる性別・主人公・テーマを表示するのだ。
var choicesCmd = &cobra.Command{
	Use:   "choices",
	Short: "選べる項目の一覧を表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		genders := make([]string, len(domain.Genders))
		for i, g := range domain.Genders {
			genders[i] = string(g)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "age:    %d〜%d\n", domain.MinAge, domain.MaxAge)
		fmt.Fprintf(w, "gender: %s\n", strings.Join(genders, " / "))
		fmt.Fprintf(w, "hero:   %s（自由入力もできるのだ）\n", strings.Join(domain.Heroes, " / "))
		fmt.Fprintf(w, "theme:  %s（自由入力もできるのだ）\n", strings.Join(domain.Themes, " / "))
		return nil
	},
}
