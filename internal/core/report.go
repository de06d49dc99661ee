package core

import (
	"encoding/json"
	"io"
	"time"
)

// ReportSummary aggregates issue counts across all files.
type ReportSummary struct {
	TotalIssues int               `json:"totalIssues"`
	BySeverity  map[Severity]int  `json:"bySeverity"`
	ByKind      map[IssueKind]int `json:"byType"`
}

// FileSummary aggregates one file's issues.
type FileSummary struct {
	FileID   string   `json:"fileId"`
	FileName string   `json:"fileName"`
	Category Category `json:"type"`
	RowCount int      `json:"rowCount"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
}

// ValidationReport is the exported validation document.
type ValidationReport struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Summary     ReportSummary     `json:"summary"`
	Files       []FileSummary     `json:"files"`
	Issues      []ValidationIssue `json:"issues"`
}

// BuildReport summarizes the current issues of the given files.
func BuildReport(files []*DataFile, now time.Time) ValidationReport {
	rep := ValidationReport{
		GeneratedAt: now.UTC(),
		Files:       make([]FileSummary, 0, len(files)),
		Issues:      []ValidationIssue{},
	}

	for _, f := range files {
		counts := CountBySeverity(f.Issues)
		rep.Files = append(rep.Files, FileSummary{
			FileID:   f.ID,
			FileName: f.Name,
			Category: f.Category,
			RowCount: f.RowCount(),
			Errors:   counts[SeverityError],
			Warnings: counts[SeverityWarning],
			Infos:    counts[SeverityInfo],
		})
		rep.Issues = append(rep.Issues, f.Issues...)
	}

	rep.Summary = ReportSummary{
		TotalIssues: len(rep.Issues),
		BySeverity:  CountBySeverity(rep.Issues),
		ByKind:      CountByKind(rep.Issues),
	}
	return rep
}

// WriteReportJSON encodes the report as indented JSON.
func WriteReportJSON(w io.Writer, rep ValidationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
