package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Printer writes styled output to one writer.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	successColor.Fprintf(p.w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	errorColor.Fprintf(p.w, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, args ...any) {
	warningColor.Fprintf(p.w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	infoColor.Fprintf(p.w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// Println prints plain text.
func (p *Printer) Println(s string) {
	fmt.Fprintln(p.w, s)
}

// UserError prints err as its mapped user message in an error box.
func (p *Printer) UserError(title string, err error) {
	msg := core.MapError(err)
	body := fmt.Sprintf("%s\n\n%s\n%s", errorColor.Sprint(title), msg.Message, Styles.Muted.Render(msg.Action+" (code "+msg.Code+")"))
	fmt.Fprintln(p.w, Styles.ErrorBox.Render(body))
}

// FileSummary prints a boxed overview of one file.
func (p *Printer) FileSummary(f *core.DataFile) {
	counts := core.CountBySeverity(f.Issues)
	lines := []string{
		Styles.Bold.Render(f.Name),
		fmt.Sprintf("type: %s   rows: %d   columns: %d", f.Category, f.RowCount(), len(f.Headers)),
		fmt.Sprintf("%s   %s   %s",
			Styles.Error.Render(fmt.Sprintf("%d errors", counts[core.SeverityError])),
			Styles.Warning.Render(fmt.Sprintf("%d warnings", counts[core.SeverityWarning])),
			Styles.Info.Render(fmt.Sprintf("%d info", counts[core.SeverityInfo])),
		),
	}
	if missing := core.MissingColumns(f.Category, f.Headers); len(missing) > 0 {
		lines = append(lines, "missing columns: "+strings.Join(missing, ", "))
	}
	fmt.Fprintln(p.w, Styles.FileBox.Render(strings.Join(lines, "\n")))
}

// Issues prints issues as aligned columns. Rows are shown 1-based.
func (p *Printer) Issues(issues []core.ValidationIssue) {
	if len(issues) == 0 {
		p.Success("no issues")
		return
	}

	rows := make([][]string, 0, len(issues)+1)
	rows = append(rows, []string{"ROW", "FIELD", "SEVERITY", "MESSAGE"})
	for _, is := range issues {
		row := "-"
		if !is.IsFileLevel() {
			row = fmt.Sprint(is.Row + 1)
		}
		rows = append(rows, []string{row, is.Field, string(is.Severity), is.Message})
	}
	p.Table(rows, func(r, c int, cell string) lipgloss.Style {
		if r == 0 {
			return Styles.Header
		}
		if c == 2 {
			return severityStyle(core.Severity(cell))
		}
		return lipgloss.NewStyle()
	})
}

// Table prints rows as left-aligned columns padded to the widest cell. The
// first row is treated like any other; style picks per-cell styling.
func (p *Printer) Table(rows [][]string, style func(r, c int, cell string) lipgloss.Style) {
	widths := map[int]int{}
	for _, row := range rows {
		for c, cell := range row {
			if w := lipgloss.Width(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			st := lipgloss.NewStyle()
			if style != nil {
				st = style(r, c, cell)
			}
			if c < len(row)-1 {
				st = st.Width(widths[c] + 2)
			}
			cells[c] = st.Render(cell)
		}
		fmt.Fprintln(p.w, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
}

func severityStyle(s core.Severity) lipgloss.Style {
	switch s {
	case core.SeverityError:
		return Styles.Error
	case core.SeverityWarning:
		return Styles.Warning
	}
	return Styles.Info
}
