// Package templates renders the server's HTML: the validation report page and
// the error fragments returned to HTMX requests.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/a-h/templ"
)

// ErrorAlert renders an inline error box.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-error" role="alert">`)
		fmt.Fprintf(&b, `<p class="alert-message">%s</p>`, templ.EscapeString(message))
		if action != "" {
			fmt.Fprintf(&b, `<p class="alert-action">%s</p>`, templ.EscapeString(action))
		}
		if code != "" {
			fmt.Fprintf(&b, `<p class="alert-code">Error code: <code>%s</code></p>`, templ.EscapeString(code))
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Page wraps body in the document shell.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>%s</title><style>%s</style></head><body><main>`,
			templ.EscapeString(title), pageCSS); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

const pageCSS = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}` +
	`table{border-collapse:collapse;margin:1rem 0}td,th{border:1px solid #d1d5db;padding:.25rem .5rem;text-align:left}` +
	`.sev-error{color:#b91c1c}.sev-warning{color:#b45309}.sev-info{color:#1d4ed8}` +
	`.alert-error{border:1px solid #fca5a5;background:#fef2f2;padding:.75rem}`

// ReportPage renders a validation report as a standalone document.
func ReportPage(rep core.ValidationReport) templ.Component {
	return Page("Validation report", ReportBody(rep))
}

// ReportBody renders the report summary, per-file table and issue list.
func ReportBody(rep core.ValidationReport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Validation report</h1>`)
		fmt.Fprintf(&b, `<p>Generated %s</p>`, templ.EscapeString(rep.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

		fmt.Fprintf(&b, `<h2>Summary</h2><p>%d issues</p><table><tr>`, rep.Summary.TotalIssues)
		for _, sev := range core.AllSeverities {
			fmt.Fprintf(&b, `<th class="sev-%s">%s</th>`, sev, templ.EscapeString(string(sev)))
		}
		b.WriteString(`</tr><tr>`)
		for _, sev := range core.AllSeverities {
			fmt.Fprintf(&b, `<td>%d</td>`, rep.Summary.BySeverity[sev])
		}
		b.WriteString(`</tr></table><table><tr><th>Type</th><th>Count</th></tr>`)
		for _, k := range core.AllKinds {
			if n := rep.Summary.ByKind[k]; n > 0 {
				fmt.Fprintf(&b, `<tr><td>%s</td><td>%d</td></tr>`, templ.EscapeString(string(k)), n)
			}
		}
		b.WriteString(`</table>`)

		b.WriteString(`<h2>Files</h2>`)
		if len(rep.Files) == 0 {
			b.WriteString(`<p>No files uploaded.</p>`)
		} else {
			b.WriteString(`<table><tr><th>File</th><th>Type</th><th>Rows</th><th>Errors</th><th>Warnings</th><th>Info</th></tr>`)
			for _, f := range rep.Files {
				fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td></tr>`,
					templ.EscapeString(f.FileName), templ.EscapeString(string(f.Category)),
					f.RowCount, f.Errors, f.Warnings, f.Infos)
			}
			b.WriteString(`</table>`)
		}

		if len(rep.Issues) > 0 {
			names := make(map[string]string, len(rep.Files))
			for _, f := range rep.Files {
				names[f.FileID] = f.FileName
			}
			b.WriteString(`<h2>Issues</h2><table><tr><th>File</th><th>Row</th><th>Field</th><th>Severity</th><th>Message</th><th>Suggestion</th></tr>`)
			for _, is := range rep.Issues {
				row := "file"
				if !is.IsFileLevel() {
					row = fmt.Sprint(is.Row + 1)
				}
				fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td class="sev-%s">%s</td><td>%s</td><td>%s</td></tr>`,
					templ.EscapeString(names[is.FileID]), row, templ.EscapeString(is.Field),
					is.Severity, templ.EscapeString(string(is.Severity)),
					templ.EscapeString(is.Message), templ.EscapeString(is.Suggestion))
			}
			b.WriteString(`</table>`)
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}
