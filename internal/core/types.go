package core

import "time"

// Category identifies which kind of entity a file describes.
type Category string

const (
	CategoryClients Category = "clients"
	CategoryWorkers Category = "workers"
	CategoryTasks   Category = "tasks"
)

// Severity classifies an issue. Only SeverityError blocks progress.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IssueKind is the taxonomy of validation findings.
type IssueKind string

const (
	KindMissing   IssueKind = "missing"
	KindDuplicate IssueKind = "duplicate"
	KindMalformed IssueKind = "malformed"
	KindRange     IssueKind = "range"

	// Reserved for cross-file, rule-conflict and capacity checks.
	// Nothing in this package emits them yet.
	KindReference  IssueKind = "reference"
	KindConflict   IssueKind = "conflict"
	KindSaturation IssueKind = "saturation"
	KindCoverage   IssueKind = "coverage"
)

// AllSeverities lists severities in report order.
var AllSeverities = []Severity{SeverityError, SeverityWarning, SeverityInfo}

// AllKinds lists issue kinds in report order.
var AllKinds = []IssueKind{
	KindMissing, KindDuplicate, KindMalformed, KindRange,
	KindReference, KindConflict, KindSaturation, KindCoverage,
}

// ValidationIssue is a single validation finding.
// Row and Column are -1 for file-level issues.
type ValidationIssue struct {
	ID         string    `json:"id"`
	FileID     string    `json:"fileId"`
	Row        int       `json:"row"`
	Column     int       `json:"column"`
	Field      string    `json:"field"`
	Message    string    `json:"message"`
	Severity   Severity  `json:"severity"`
	Kind       IssueKind `json:"type"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// IsFileLevel reports whether the issue applies to the file rather than a cell.
func (i ValidationIssue) IsFileLevel() bool {
	return i.Row < 0 && i.Column < 0
}

// Grid is a rectangular block of cell values, row-major.
type Grid [][]string

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// DataFile is an uploaded table. Rows is the working grid that edits replace;
// Original is the grid as parsed and is never modified.
type DataFile struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   Category          `json:"type"`
	Headers    []string          `json:"headers"`
	Rows       Grid              `json:"data"`
	Original   Grid              `json:"originalData"`
	Issues     []ValidationIssue `json:"errors"`
	UploadedAt time.Time         `json:"uploadedAt"`
}

// RowCount returns the number of data rows in the working grid.
func (f *DataFile) RowCount() int {
	return len(f.Rows)
}

// Cell returns the working value at (row, col), or "" when out of range.
func (f *DataFile) Cell(row, col int) string {
	if row < 0 || row >= len(f.Rows) || col < 0 || col >= len(f.Rows[row]) {
		return ""
	}
	return f.Rows[row][col]
}

// RowMap returns a header → value view of one working row.
func (f *DataFile) RowMap(row int) map[string]string {
	m := make(map[string]string, len(f.Headers))
	for col, h := range f.Headers {
		m[h] = f.Cell(row, col)
	}
	return m
}

// clone returns a copy that shares nothing mutable with f.
func (f *DataFile) clone() *DataFile {
	c := *f
	c.Headers = append([]string(nil), f.Headers...)
	c.Rows = f.Rows.Clone()
	c.Original = f.Original.Clone()
	c.Issues = append([]ValidationIssue(nil), f.Issues...)
	return &c
}

// CountBySeverity tallies issues per severity.
func CountBySeverity(issues []ValidationIssue) map[Severity]int {
	counts := make(map[Severity]int, len(AllSeverities))
	for _, s := range AllSeverities {
		counts[s] = 0
	}
	for _, is := range issues {
		counts[is.Severity]++
	}
	return counts
}

// CountByKind tallies issues per kind.
func CountByKind(issues []ValidationIssue) map[IssueKind]int {
	counts := make(map[IssueKind]int, len(AllKinds))
	for _, k := range AllKinds {
		counts[k] = 0
	}
	for _, is := range issues {
		counts[is.Kind]++
	}
	return counts
}

// FilterBySeverity returns the issues with the given severity.
// An empty severity returns all issues.
func FilterBySeverity(issues []ValidationIssue, sev Severity) []ValidationIssue {
	if sev == "" {
		return append([]ValidationIssue(nil), issues...)
	}
	var out []ValidationIssue
	for _, is := range issues {
		if is.Severity == sev {
			out = append(out, is)
		}
	}
	return out
}

// HasBlocking reports whether any issue is error-severity.
func HasBlocking(issues []ValidationIssue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// UploadOutcome is the per-file result of a batch upload.
type UploadOutcome struct {
	FileName string    `json:"fileName"`
	File     *DataFile `json:"file,omitempty"`
	Err      error     `json:"-"`
	Error    string    `json:"error,omitempty"`
}

// OK reports whether the file was accepted.
func (o UploadOutcome) OK() bool {
	return o.Err == nil && o.File != nil
}
