package commands

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/cli/ui"
	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "search FILE QUERY",
		Short: "print the rows of a file matching a query",
		Long: `Search a file's rows.

Simple mode matches the query as a case-insensitive substring of any cell.
Enhanced mode understands phrases such as "duration > 3", "high priority",
"skill python" and "completed".`,
		Example: `  $ datapilot search clients.csv acme
  $ datapilot search tasks.csv "duration > 3" --mode enhanced`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := core.SearchMode(strings.ToLower(mode))
			if m != core.SearchSimple && m != core.SearchEnhanced {
				return fmt.Errorf("unknown search mode %q", mode)
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			svc, files, err := loadSession(cmd.Context(), opts, args[:1], p)
			if err != nil {
				return err
			}
			f := files[0]

			res, err := svc.Search(cmd.Context(), f.ID, args[1], m)
			if err != nil {
				return err
			}
			if res.Translated != res.Query {
				p.Info("query: %s", res.Translated)
			}
			if len(res.Rows) == 0 {
				p.Warning("no rows match")
				return nil
			}

			table := [][]string{append([]string{"ROW"}, f.Headers...)}
			for _, r := range res.Rows {
				table = append(table, append([]string{fmt.Sprint(r + 1)}, f.Rows[r]...))
			}
			p.Table(table, func(r, c int, cell string) lipgloss.Style {
				if r == 0 {
					return ui.Styles.Header
				}
				return lipgloss.NewStyle()
			})
			p.Success("%d of %d rows", len(res.Rows), f.RowCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(core.SearchSimple), "search mode: simple or enhanced")
	return cmd
}
