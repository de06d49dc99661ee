package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/datapilot/internal/core"
)

func TestErrorAlert_Escapes(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorAlert("<b>bad</b>", "retry", "FILE001").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<b>bad</b>") || !strings.Contains(out, "&lt;b&gt;bad&lt;/b&gt;") {
		t.Errorf("message not escaped: %s", out)
	}
	if !strings.Contains(out, "FILE001") || !strings.Contains(out, "retry") {
		t.Errorf("alert = %s", out)
	}
}

func TestReportPage(t *testing.T) {
	rep := core.ValidationReport{
		GeneratedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Summary: core.ReportSummary{
			TotalIssues: 1,
			BySeverity:  map[core.Severity]int{core.SeverityError: 1},
			ByKind:      map[core.IssueKind]int{core.KindMalformed: 1},
		},
		Files: []core.FileSummary{{FileID: "f1", FileName: "clients.csv", Category: core.CategoryClients, RowCount: 2, Errors: 1}},
		Issues: []core.ValidationIssue{{
			FileID: "f1", Row: 1, Column: 2, Field: "email",
			Message: `Invalid email "x"`, Severity: core.SeverityError, Kind: core.KindMalformed,
		}},
	}

	var buf bytes.Buffer
	if err := ReportPage(rep).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<!DOCTYPE html>", "clients.csv", "<td>2</td>", "Invalid email &#34;x&#34;", "malformed"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestReportBody_NoFiles(t *testing.T) {
	var buf bytes.Buffer
	ReportBody(core.ValidationReport{}).Render(context.Background(), &buf)
	if !strings.Contains(buf.String(), "No files uploaded.") {
		t.Errorf("empty report = %s", buf.String())
	}
}
