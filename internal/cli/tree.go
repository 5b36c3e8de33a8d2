package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/SiteLens/internal/emoji"
	"github.com/yildizm/SiteLens/internal/formatter"
	"github.com/yildizm/SiteLens/internal/ui/components"
)

func newTreeCommand() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "tree [tree.yaml]",
		Short: "Print the element tree",
		Long: `Load an element tree and print it with element ids. Useful for checking a
tree file before opening it, and for finding ids for analyze --select.`,
		Example: `  sitelens tree
  sitelens tree site.yaml --summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetGlobalConfig()

			tree, err := loadTree(treePath(cfg, args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			view := formatter.NewTreeView(colorEnabled(cfg), !emoji.IsEmojiDisabled())
			fmt.Fprint(out, view.Render(tree))

			if summary {
				theme, _ := components.ThemeByName(cfg.UI.Theme)
				box := components.TreeSummary(tree, 40, components.NewStyles(theme))
				fmt.Fprintln(out, box.Render())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "also print element counts by type")

	return cmd
}
