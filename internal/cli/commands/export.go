package commands

import (
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/cli/ui"
	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		format   string
		out      string
		dir      string
		original bool
	)

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "write a file's cleaned or original data as CSV, XLSX or JSON",
		Example: `  $ datapilot export clients.csv --format xlsx
  $ datapilot export tasks.xlsx --format json --out -
  $ datapilot export workers.csv --original --dir out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := core.Format(strings.ToLower(format))
			p := ui.NewPrinter(cmd.ErrOrStderr())

			svc, files, err := loadSession(cmd.Context(), opts, args, p)
			if err != nil {
				return err
			}
			file := files[0]

			path := out
			if path == "" {
				path = filepath.Join(dir, core.ExportFileName(file, f, original))
			}
			w, closeFn, err := createOutput(path, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := svc.ExportFile(w, file.ID, f, original); err != nil {
				closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}
			if path != "-" {
				p.Success("wrote %s (%d rows)", path, file.RowCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(core.FormatCSV), "output format: csv, xlsx or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, - for stdout (default <name>_cleaned.<format>)")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory for the default output name")
	cmd.Flags().BoolVar(&original, "original", false, "export the data as uploaded, before edits")
	return cmd
}
