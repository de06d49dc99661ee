package commands

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/cli/ui"
	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/JonMunkholm/datapilot/internal/web/templates"
	"github.com/spf13/cobra"
)

func newReportCmd(opts *globalOptions) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "report FILE...",
		Short: "write a validation report for one or more files",
		Example: `  $ datapilot report clients.csv tasks.csv --format html --out report.html`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "json" && format != "html" {
				return fmt.Errorf("%w: %q", core.ErrUnsupportedExport, format)
			}

			p := ui.NewPrinter(cmd.ErrOrStderr())
			svc, _, err := loadSession(cmd.Context(), opts, args, p)
			if err != nil {
				return err
			}
			rep := svc.Report()

			w, closeFn, err := createOutput(out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if format == "html" {
				err = templates.ReportPage(rep).Render(cmd.Context(), w)
			} else {
				err = core.WriteReportJSON(w, rep)
			}
			if err != nil {
				closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}
			if out != "-" {
				p.Success("wrote %s: %d files, %d issues", out, len(rep.Files), rep.Summary.TotalIssues)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "report format: json or html")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path, - for stdout")
	return cmd
}
