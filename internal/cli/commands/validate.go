package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/cli/ui"
	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var (
		severity string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "validate files and list their issues",
		Long: `Validate one or more CSV or XLSX files.

Each file's category is inferred from its name and headers unless --category
is given. Exits non-zero when any error-severity issue remains.`,
		Example: `  $ datapilot validate clients.csv workers.csv tasks.csv
  $ datapilot validate tasks.xlsx --severity error
  $ datapilot validate clients.csv --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sev := core.Severity(strings.ToLower(severity))
			switch sev {
			case "", core.SeverityError, core.SeverityWarning, core.SeverityInfo:
			default:
				return fmt.Errorf("unknown severity %q", severity)
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			svc, files, err := loadSession(cmd.Context(), opts, args, p)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(svc.Report()); err != nil {
					return err
				}
			} else {
				for _, f := range files {
					p.FileSummary(f)
					p.Issues(core.FilterBySeverity(f.Issues, sev))
					p.Println("")
				}
			}

			if err := svc.CanAdvance(); err != nil {
				if !asJSON {
					p.Error("validation failed: fix the errors above before continuing")
				}
				return err
			}
			if !asJSON {
				p.Success("%d file(s) valid", len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&severity, "severity", "s", "", "only show issues of this severity")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the validation report as JSON")
	return cmd
}
