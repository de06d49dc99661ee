package core

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestBuildReport(t *testing.T) {
	a := newTestFile(CategoryClients, []string{"id", "name", "email", "priority"}, []string{"c1", "", "bad", "9"})
	a.Issues = NewFileValidator(nil).Validate(a)
	b := newTestFile(CategoryTasks, []string{"id", "title", "duration", "priority", "budget"}, []string{"t1", "x", "1", "1", "-3"})
	b.ID = "f2"
	b.Issues = NewFileValidator(nil).Validate(b)

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("X", 3600))
	rep := BuildReport([]*DataFile{a, b}, now)

	if rep.Summary.TotalIssues != 4 {
		t.Errorf("TotalIssues = %d, want 4", rep.Summary.TotalIssues)
	}
	if got := rep.Summary.BySeverity[SeverityError]; got != 3 {
		t.Errorf("errors = %d, want 3", got)
	}
	if got := rep.Summary.BySeverity[SeverityWarning]; got != 1 {
		t.Errorf("warnings = %d, want 1", got)
	}
	if got := rep.Summary.ByKind[KindCoverage]; got != 0 {
		t.Errorf("coverage = %d, want 0 and present", got)
	}
	if len(rep.Files) != 2 || rep.Files[0].Errors != 3 || rep.Files[1].Warnings != 1 {
		t.Errorf("files = %+v", rep.Files)
	}
	if rep.GeneratedAt.Location() != time.UTC {
		t.Error("GeneratedAt should be UTC")
	}

	var buf bytes.Buffer
	if err := WriteReportJSON(&buf, rep); err != nil {
		t.Fatalf("WriteReportJSON() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	summary := decoded["summary"].(map[string]any)
	if _, ok := summary["byType"]; !ok {
		t.Errorf("summary keys = %v, want byType", summary)
	}
}

func TestBuildReport_Empty(t *testing.T) {
	rep := BuildReport(nil, time.Now())
	if rep.Summary.TotalIssues != 0 || rep.Files == nil || rep.Issues == nil {
		t.Errorf("empty report = %+v, want zero counts and non-nil slices", rep)
	}
}
