// Package commands implements the datapilot command line: validating,
// searching, rule evaluation and export over local CSV and XLSX files.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/datapilot/internal/cli/ui"
	"github.com/JonMunkholm/datapilot/internal/logging"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	logLevel  string
	logFormat string
	category  string
	maxSize   int64
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:     "datapilot",
		Short:   "Validate and clean client, worker and task spreadsheets",
		Version: version,
		Long: `datapilot loads client, worker and task files (CSV or XLSX), validates
every cell against the category's schema, evaluates allocation rules and
exports cleaned data and reports.`,
		Example: `  # Validate files and list every issue
  $ datapilot validate clients.csv tasks.xlsx

  # Find high-priority tasks
  $ datapilot search tasks.csv "high priority" --mode enhanced

  # Evaluate a rules document against a file
  $ datapilot rules eval --config rules.yaml tasks.csv

  # Convert a cleaned file to XLSX
  $ datapilot export clients.csv --format xlsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat))
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(fmt.Sprintf("datapilot version %s\n", version))
	root.SetUsageTemplate(usageTemplate())

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	pf.StringVarP(&opts.category, "category", "c", "", "force the file category: clients, workers or tasks")
	pf.Int64Var(&opts.maxSize, "max-size", 20<<20, "maximum file size in bytes")

	root.AddCommand(
		newValidateCmd(opts),
		newSearchCmd(opts),
		newRulesCmd(opts),
		newExportCmd(opts),
		newReportCmd(opts),
	)
	return root
}

// Execute runs the command line and prints any error as a user message.
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil {
		ui.NewPrinter(root.ErrOrStderr()).UserError("datapilot failed", err)
	}
	return err
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + ui.Styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}
