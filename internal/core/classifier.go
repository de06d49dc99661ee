package core

// classifier.go maps column headers to value checks.
//
// Field typing is fuzzy: a column is treated as an email column when its header
// contains "email", as a priority column when it contains "priority", and so on.
// Each FieldClassifier pairs such a header predicate with a value check. The
// validator runs the chain in order, so a stricter schema can swap the chain
// without touching how cells are visited or how issues are emitted.

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// emailRegex accepts the usual local@domain.tld shape.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Finding describes one problem with a cell value, before it is placed in a file.
type Finding struct {
	Kind       IssueKind
	Severity   Severity
	Message    string
	Suggestion string
}

// FieldClassifier pairs a header predicate with a check on non-empty values.
// Check returns nil when the value is acceptable.
type FieldClassifier struct {
	Name  string
	Match func(header string) bool
	Check func(value string) *Finding
}

// HeaderContains returns a predicate matching headers that contain any of the
// terms, case-insensitively.
func HeaderContains(terms ...string) func(string) bool {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	return func(header string) bool {
		h := strings.ToLower(header)
		for _, t := range lowered {
			if strings.Contains(h, t) {
				return true
			}
		}
		return false
	}
}

// AnyHeader matches every column.
func AnyHeader(string) bool { return true }

// DefaultClassifiers returns the standard chain in evaluation order:
// email, priority, duration, budget, skills, then JSON for any column.
func DefaultClassifiers() []FieldClassifier {
	return []FieldClassifier{
		{Name: "email", Match: HeaderContains("email"), Check: checkEmail},
		{Name: "priority", Match: HeaderContains("priority"), Check: checkPriority},
		{Name: "duration", Match: HeaderContains("duration"), Check: checkDuration},
		{Name: "budget", Match: HeaderContains("budget"), Check: checkBudget},
		{Name: "skills", Match: HeaderContains("skill"), Check: checkSkills},
		{Name: "json", Match: AnyHeader, Check: checkJSON},
	}
}

func checkEmail(v string) *Finding {
	if emailRegex.MatchString(strings.TrimSpace(v)) {
		return nil
	}
	return &Finding{
		Kind:       KindMalformed,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("Invalid email format: %q", v),
		Suggestion: "Use the form name@example.com",
	}
}

func checkPriority(v string) *Finding {
	if p, ok := ParseInteger(v); ok && p >= 1 && p <= 5 {
		return nil
	}
	return &Finding{
		Kind:       KindRange,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("Priority must be a whole number between 1 and 5, got %q", v),
		Suggestion: "Use a value from 1 (lowest) to 5 (highest)",
	}
}

func checkDuration(v string) *Finding {
	if d, ok := ParseNumber(v); ok && d > 0 {
		return nil
	}
	return &Finding{
		Kind:       KindRange,
		Severity:   SeverityError,
		Message:    fmt.Sprintf("Duration must be a positive number, got %q", v),
		Suggestion: "Enter the duration as a number greater than 0",
	}
}

func checkBudget(v string) *Finding {
	if b, ok := ParseMoney(v); ok && b >= 0 {
		return nil
	}
	return &Finding{
		Kind:       KindRange,
		Severity:   SeverityWarning,
		Message:    fmt.Sprintf("Budget should be a non-negative amount, got %q", v),
		Suggestion: "Enter an amount such as 1500 or $1,500",
	}
}

func checkSkills(v string) *Finding {
	if !strings.ContainsAny(v, ";|") {
		return nil
	}
	return &Finding{
		Kind:       KindMalformed,
		Severity:   SeverityWarning,
		Message:    "Skills should be separated by commas",
		Suggestion: strings.NewReplacer(";", ",", "|", ",").Replace(v),
	}
}

func checkJSON(v string) *Finding {
	t := strings.TrimSpace(v)
	if !strings.HasPrefix(t, "{") && !strings.HasPrefix(t, "[") {
		return nil
	}
	if json.Valid([]byte(t)) {
		return nil
	}
	return &Finding{
		Kind:       KindMalformed,
		Severity:   SeverityError,
		Message:    "Value looks like JSON but does not parse",
		Suggestion: "Check for missing brackets, quotes or commas",
	}
}
