package core

// search.go filters a file's rows by a free-text query.
//
// Simple mode is a case-insensitive substring match over every cell of a row.
// Enhanced mode first rewrites a few recognizable phrasings into compact filter
// tokens ("tasks longer than > 3 in duration" → "duration>3") and then applies
// the token. There is no language understanding: unrecognized input passes
// through unchanged.

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SearchMode selects how a query is interpreted.
type SearchMode string

const (
	SearchSimple   SearchMode = "simple"
	SearchEnhanced SearchMode = "enhanced"
)

var (
	thresholdRegex  = regexp.MustCompile(`>\s*(\d+(?:\.\d+)?)`)
	skillWordRegex  = regexp.MustCompile(`skills?\s+(\w+)`)
	compareTokRegex = regexp.MustCompile(`^(\w+)\s*([<>])\s*(-?\d+(?:\.\d+)?)$`)
	fieldTokRegex   = regexp.MustCompile(`^(\w+):(.+)$`)
)

// TranslateQuery rewrites recognized phrasings into filter tokens.
func TranslateQuery(q string) string {
	lower := strings.ToLower(strings.TrimSpace(q))

	if strings.Contains(lower, "duration") {
		if m := thresholdRegex.FindStringSubmatch(lower); m != nil {
			return "duration>" + m[1]
		}
	}
	if strings.Contains(lower, "high priority") ||
		(strings.Contains(lower, "priority") && strings.Contains(lower, "high")) {
		return "priority:high"
	}
	if strings.Contains(lower, "low priority") ||
		(strings.Contains(lower, "priority") && strings.Contains(lower, "low")) {
		return "priority:low"
	}
	if m := skillWordRegex.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	if strings.Contains(lower, "completed") || strings.Contains(lower, "done") {
		return "status:completed"
	}
	if strings.Contains(lower, "pending") || strings.Contains(lower, "waiting") {
		return "status:pending"
	}
	return q
}

// SearchOptions controls a search.
type SearchOptions struct {
	Mode SearchMode
	// Delay is an artificial pause applied in enhanced mode. Zero means none.
	Delay time.Duration
}

// SearchResult lists the rows a query matched.
type SearchResult struct {
	Query      string     `json:"query"`
	Translated string     `json:"translated"`
	Mode       SearchMode `json:"mode"`
	Rows       []int      `json:"rows"`
}

// Search returns the indices of working rows matching the query.
// An empty query matches every row.
func Search(ctx context.Context, f *DataFile, query string, opts SearchOptions) (SearchResult, error) {
	mode := opts.Mode
	if mode == "" {
		mode = SearchSimple
	}

	res := SearchResult{Query: query, Translated: query, Mode: mode, Rows: []int{}}
	if mode == SearchEnhanced {
		if opts.Delay > 0 {
			timer := time.NewTimer(opts.Delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return res, fmt.Errorf("%w: %w", ErrSearchCancelled, ctx.Err())
			case <-timer.C:
			}
		}
		res.Translated = TranslateQuery(query)
	}

	match := rowMatcher(f, strings.TrimSpace(res.Translated), mode == SearchEnhanced)
	for i := range f.Rows {
		if match(f.Rows[i]) {
			res.Rows = append(res.Rows, i)
		}
	}
	return res, nil
}

// rowMatcher builds the predicate for one query. Tokens are only interpreted
// in enhanced mode.
func rowMatcher(f *DataFile, q string, tokens bool) func([]string) bool {
	if q == "" {
		return func([]string) bool { return true }
	}

	if tokens {
		if m := compareTokRegex.FindStringSubmatch(q); m != nil {
			if col := columnContaining(f.Headers, m[1]); col >= 0 {
				threshold, _ := ParseNumber(m[3])
				greater := m[2] == ">"
				return func(row []string) bool {
					v, ok := ParseNumber(cellAt(row, col))
					if !ok {
						return false
					}
					if greater {
						return v > threshold
					}
					return v < threshold
				}
			}
		}
		if m := fieldTokRegex.FindStringSubmatch(q); m != nil {
			if col := columnContaining(f.Headers, m[1]); col >= 0 {
				field, want := strings.ToLower(m[1]), strings.ToLower(strings.TrimSpace(m[2]))
				return func(row []string) bool {
					return fieldMatches(field, want, cellAt(row, col))
				}
			}
		}
	}

	needle := strings.ToLower(q)
	return func(row []string) bool {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), needle) {
				return true
			}
		}
		return false
	}
}

// fieldMatches applies a field:value token. Priority levels also match the
// numeric scale: high is 4 or more, low is 2 or less.
func fieldMatches(field, want, cell string) bool {
	v := strings.ToLower(strings.TrimSpace(cell))
	if field == "priority" {
		if p, ok := ParseInteger(v); ok {
			switch want {
			case "high":
				return p >= 4
			case "low":
				return p <= 2
			}
		}
	}
	return strings.Contains(v, want)
}

func columnContaining(headers []string, term string) int {
	term = strings.ToLower(term)
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), term) {
			return i
		}
	}
	return -1
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
