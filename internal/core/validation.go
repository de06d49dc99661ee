package core

// validation.go produces the issue list for uploaded files.
//
// Validation happens at three levels, in this order:
//  1. File: every required column of the category must be present
//  2. Cell: each value is checked by the classifier chain for its header
//  3. Rows: the identifier column must not repeat
//
// Findings are returned as data, never as errors. A pass always runs to
// completion and replaces the previous issue list.

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// requiredWhenEmpty are the header terms whose cells may not be blank.
var requiredWhenEmpty = []string{"id", "name", "email"}

// CellValidator classifies one cell value given its column header.
type CellValidator struct {
	classifiers []FieldClassifier
	required    func(header string) bool
	newID       func() string
}

// NewCellValidator creates a validator running the given classifier chain.
// A nil chain uses DefaultClassifiers.
func NewCellValidator(classifiers []FieldClassifier) *CellValidator {
	if classifiers == nil {
		classifiers = DefaultClassifiers()
	}
	return &CellValidator{
		classifiers: classifiers,
		required:    HeaderContains(requiredWhenEmpty...),
		newID:       uuid.NewString,
	}
}

// Validate returns the issues for one cell. Blank cells in id/name/email
// columns yield a single missing issue; any other blank cell yields nothing.
func (v *CellValidator) Validate(fileID string, row, col int, header, value string) []ValidationIssue {
	if strings.TrimSpace(value) == "" {
		if !v.required(header) {
			return nil
		}
		return []ValidationIssue{v.issue(fileID, row, col, header, Finding{
			Kind:       KindMissing,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("Required field %q is empty", header),
			Suggestion: fmt.Sprintf("Enter a value for %s", header),
		})}
	}

	var issues []ValidationIssue
	for _, c := range v.classifiers {
		if !c.Match(header) {
			continue
		}
		if f := c.Check(value); f != nil {
			issues = append(issues, v.issue(fileID, row, col, header, *f))
		}
	}
	return issues
}

func (v *CellValidator) issue(fileID string, row, col int, header string, f Finding) ValidationIssue {
	return ValidationIssue{
		ID:         v.newID(),
		FileID:     fileID,
		Row:        row,
		Column:     col,
		Field:      header,
		Message:    f.Message,
		Severity:   f.Severity,
		Kind:       f.Kind,
		Suggestion: f.Suggestion,
	}
}

// FileValidator produces the complete issue list for a file.
type FileValidator struct {
	cells *CellValidator
}

// NewFileValidator creates a file validator around a cell validator.
// A nil cell validator uses the default classifier chain.
func NewFileValidator(cells *CellValidator) *FileValidator {
	if cells == nil {
		cells = NewCellValidator(nil)
	}
	return &FileValidator{cells: cells}
}

// Validate runs the column, cell and duplicate checks and returns the issues
// in emission order.
func (v *FileValidator) Validate(f *DataFile) []ValidationIssue {
	var issues []ValidationIssue

	for _, field := range MissingColumns(f.Category, f.Headers) {
		issues = append(issues, v.cells.issue(f.ID, -1, -1, field, Finding{
			Kind:       KindMissing,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("Missing required column: %s", field),
			Suggestion: fmt.Sprintf("Add a column named %q or rename an existing column to include it", field),
		}))
	}

	for r, row := range f.Rows {
		for c, header := range f.Headers {
			value := ""
			if c < len(row) {
				value = row[c]
			}
			issues = append(issues, v.cells.Validate(f.ID, r, c, header, value)...)
		}
	}

	issues = append(issues, v.duplicates(f)...)
	return issues
}

// duplicates reports the second and later occurrences of each identifier.
func (v *FileValidator) duplicates(f *DataFile) []ValidationIssue {
	col := IdentifierColumn(f.Category, f.Headers)
	if col < 0 {
		return nil
	}
	header := f.Headers[col]

	var issues []ValidationIssue
	firstSeen := make(map[string]int)
	for r := range f.Rows {
		id := strings.TrimSpace(f.Cell(r, col))
		if id == "" {
			continue
		}
		first, seen := firstSeen[id]
		if !seen {
			firstSeen[id] = r
			continue
		}
		issues = append(issues, v.cells.issue(f.ID, r, col, header, Finding{
			Kind:       KindDuplicate,
			Severity:   SeverityError,
			Message:    fmt.Sprintf("Duplicate %s %q (first seen in row %d)", header, id, first+1),
			Suggestion: "Give each row a unique identifier",
		}))
	}
	return issues
}

// IdentifierColumn locates a file's primary key column, or -1.
//
// Preference order: a header that is exactly "id"; a header naming the file's
// own entity (client_id in a clients file); otherwise the first header
// containing "id" that does not name another entity, which skips foreign keys
// such as client_id in a tasks file.
func IdentifierColumn(c Category, headers []string) int {
	for i, h := range headers {
		if strings.EqualFold(h, "id") {
			return i
		}
	}

	own := categoryNoun(c)
	if own != "" {
		for i, h := range headers {
			lh := strings.ToLower(h)
			if strings.Contains(lh, "id") && strings.Contains(lh, own) {
				return i
			}
		}
	}

	for i, h := range headers {
		lh := strings.ToLower(h)
		if !strings.Contains(lh, "id") {
			continue
		}
		foreign := false
		for _, noun := range []string{"client", "task", "worker"} {
			if noun != own && strings.Contains(lh, noun) {
				foreign = true
				break
			}
		}
		if !foreign {
			return i
		}
	}
	return -1
}
