package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/JonMunkholm/datapilot/internal/cli/ui"
	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newRulesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "check and evaluate rules documents",
	}
	cmd.AddCommand(newRulesCheckCmd(), newRulesEvalCmd(opts), newRulesInitCmd())
	return cmd
}

func readRulesFile(path string) (core.RulesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.RulesConfig{}, err
	}
	return core.ReadRulesConfig(data)
}

func newRulesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check CONFIG",
		Short: "validate a rules document and its priority weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ui.NewPrinter(cmd.OutOrStdout())
			cfg, err := readRulesFile(args[0])
			if err != nil {
				return err
			}

			enabled := 0
			for _, r := range cfg.Rules {
				if r.Enabled {
					enabled++
				}
			}
			p.Success("%d rules (%d enabled)", len(cfg.Rules), enabled)

			rows := [][]string{{"WEIGHT", "VALUE"}}
			for _, dim := range core.WeightDimensions {
				v, _ := cfg.Priorities.Get(dim)
				rows = append(rows, []string{dim, fmt.Sprintf("%.3f", v)})
			}
			p.Table(rows, headerStyle)

			if !cfg.Priorities.Balanced() {
				return fmt.Errorf("%w: sum is %.3f", core.ErrWeightsUnbalanced, cfg.Priorities.Sum())
			}
			p.Success("weights sum to 1")
			return nil
		},
	}
}

func newRulesEvalCmd(opts *globalOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "eval FILE...",
		Short: "list the rows each enabled rule matches",
		Example: `  $ datapilot rules eval --config rules.yaml tasks.csv`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ui.NewPrinter(cmd.OutOrStdout())
			data, err := os.ReadFile(configPath)
			if err != nil {
				return err
			}

			svc, files, err := loadSession(cmd.Context(), opts, args, p)
			if err != nil {
				return err
			}
			if _, err := svc.ImportRules(cmd.Context(), data); err != nil {
				return err
			}

			for _, f := range files {
				matches, err := svc.EvaluateRules(f.ID)
				if err != nil {
					return err
				}
				p.Println(ui.Styles.Bold.Render(f.Name))
				if len(matches) == 0 {
					p.Warning("no enabled rules")
					continue
				}
				rows := [][]string{{"PRIORITY", "RULE", "ROWS"}}
				for _, m := range matches {
					rows = append(rows, []string{fmt.Sprint(m.Priority), m.RuleName, formatRows(m.Rows)})
				}
				p.Table(rows, headerStyle)
				p.Println("")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "rules.json", "rules document (JSON or YAML)")
	return cmd
}

func newRulesInitCmd() *cobra.Command {
	var (
		template string
		format   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "write an empty rules document with preset weights",
		Example: `  $ datapilot rules init --template fairness-first --format yaml --out rules.yaml`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weights, err := core.Template(template)
			if err != nil {
				return fmt.Errorf("%w (choose one of %s)", err, strings.Join(core.TemplateNames(), ", "))
			}

			w, closeFn, err := createOutput(out, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := core.WriteRulesConfig(w, core.BuildRulesConfig(nil, weights, time.Now()), format); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVar(&template, "template", "default", "weight preset")
	cmd.Flags().StringVar(&format, "format", "json", "document format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path, - for stdout")
	return cmd
}

func headerStyle(r, c int, cell string) lipgloss.Style {
	if r == 0 {
		return ui.Styles.Header
	}
	return lipgloss.NewStyle()
}

// formatRows prints 0-based indices as 1-based row numbers.
func formatRows(rows []int) string {
	if len(rows) == 0 {
		return "-"
	}
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprint(r + 1)
	}
	return strings.Join(parts, ", ")
}
