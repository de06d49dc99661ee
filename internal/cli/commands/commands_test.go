package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/datapilot/internal/core"
)

const (
	cleanClients = "client_id,name,email,priority\nc1,Acme,a@acme.io,3\n"
	badClients   = "client_id,name,email,priority\nc1,Acme,a@acme.io,3\nc2,Beta,not-an-email,2\n"
	tasks        = "task_id,title,duration,priority\nT1,Paint,2,5\nT2,Fix,6,1\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clients.csv", cleanClients)
	bad := writeFile(t, dir, "clients_bad.csv", badClients)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		want    []string
	}{
		{"clean file", []string{"validate", clean}, nil, []string{"clients.csv", "no issues", "1 file(s) valid"}},
		{"bad email blocks", []string{"validate", bad}, core.ErrBlockingIssues, []string{"not-an-email", "validation failed"}},
		{"severity filter", []string{"validate", bad, "--severity", "warning"}, core.ErrBlockingIssues, []string{"no issues"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clients.csv", cleanClients)
	pdf := writeFile(t, dir, "notes.pdf", "x")

	if _, _, err := run(t, "validate", clean, "--severity", "fatal"); err == nil {
		t.Error("unknown severity accepted")
	}
	if _, _, err := run(t, "validate", filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("missing file accepted")
	}
	if _, _, err := run(t, "validate", clean, "--category", "robots"); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("bad category err = %v, want ErrUnknownCategory", err)
	}

	out, _, err := run(t, "validate", pdf)
	if !errors.Is(err, core.ErrUnsupportedFormat) {
		t.Errorf("pdf err = %v, want ErrUnsupportedFormat", err)
	}
	if !strings.Contains(out, "notes.pdf") {
		t.Errorf("output does not name the rejected file:\n%s", out)
	}
}

func TestValidate_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "clients.csv", cleanClients)

	out, _, err := run(t, "validate", path, "--json")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	var rep core.ValidationReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(rep.Files) != 1 || rep.Files[0].Category != core.CategoryClients {
		t.Errorf("report files = %+v", rep.Files)
	}
}

func TestSearch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tasks.csv", tasks)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"simple", []string{"search", path, "paint"}, "1 of 2 rows", false},
		{"enhanced", []string{"search", path, "duration > 3", "--mode", "enhanced"}, "Fix", false},
		{"no match", []string{"search", path, "zebra"}, "no rows match", false},
		{"bad mode", []string{"search", path, "x", "--mode", "fuzzy"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRulesInitCheckEval(t *testing.T) {
	dir := t.TempDir()
	taskPath := writeFile(t, dir, "tasks.csv", tasks)
	rulesPath := filepath.Join(dir, "rules.yaml")

	if _, _, err := run(t, "rules", "init", "--template", "balanced", "--format", "yaml", "--out", rulesPath); err != nil {
		t.Fatalf("init: %v", err)
	}
	out, _, err := run(t, "rules", "check", rulesPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "0 rules") || !strings.Contains(out, "0.200") {
		t.Errorf("check output:\n%s", out)
	}

	doc := `{"rules":[{"name":"Long tasks","type":"load-limit","priority":4,"enabled":true,
"conditions":[{"field":"duration","operator":"greater-than","value":"3"}]}]}`
	evalPath := writeFile(t, dir, "rules.json", doc)
	out, _, err = run(t, "rules", "eval", "--config", evalPath, taskPath)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(out, "Long tasks") || !strings.Contains(out, "2") {
		t.Errorf("eval output:\n%s", out)
	}

	if _, _, err := run(t, "rules", "init", "--template", "nope"); !errors.Is(err, core.ErrUnknownTemplate) {
		t.Errorf("unknown template err = %v", err)
	}
}

func TestRulesCheck_Unbalanced(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.json",
		`{"rules":[],"priorities":{"priorityLevel":0.5,"taskFulfillment":0.5,"fairness":0.5,"efficiency":0,"resourceUtilization":0}}`)

	if _, _, err := run(t, "rules", "check", path); !errors.Is(err, core.ErrWeightsUnbalanced) {
		t.Errorf("err = %v, want ErrWeightsUnbalanced", err)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clients.csv", cleanClients)

	out, _, err := run(t, "export", path, "--format", "json", "--out", "-")
	if err != nil {
		t.Fatalf("stdout export: %v", err)
	}
	if !strings.Contains(out, `"email": "a@acme.io"`) && !strings.Contains(out, `"email":"a@acme.io"`) {
		t.Errorf("json export:\n%s", out)
	}

	if _, _, err := run(t, "export", path, "--dir", dir); err != nil {
		t.Fatalf("file export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "clients_cleaned.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != cleanClients {
		t.Errorf("exported csv = %q, want %q", data, cleanClients)
	}

	if _, _, err := run(t, "export", path, "--format", "pdf", "--out", "-"); !errors.Is(err, core.ErrUnsupportedExport) {
		t.Errorf("pdf export err = %v", err)
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clients.csv", badClients)

	out, _, err := run(t, "report", path)
	if err != nil {
		t.Fatalf("json report: %v", err)
	}
	var rep core.ValidationReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Summary.TotalIssues != 1 {
		t.Errorf("total issues = %d, want 1", rep.Summary.TotalIssues)
	}

	htmlPath := filepath.Join(dir, "report.html")
	if _, _, err := run(t, "report", path, "--format", "html", "--out", htmlPath); err != nil {
		t.Fatalf("html report: %v", err)
	}
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(html), "Validation report") {
		t.Errorf("html report missing title")
	}

	if _, _, err := run(t, "report", path, "--format", "pdf"); !errors.Is(err, core.ErrUnsupportedExport) {
		t.Errorf("pdf report err = %v", err)
	}
}

func TestFormatRows(t *testing.T) {
	tests := []struct {
		rows []int
		want string
	}{
		{nil, "-"},
		{[]int{0}, "1"},
		{[]int{0, 4}, "1, 5"},
	}
	for _, tt := range tests {
		if got := formatRows(tt.rows); got != tt.want {
			t.Errorf("formatRows(%v) = %q, want %q", tt.rows, got, tt.want)
		}
	}
}
