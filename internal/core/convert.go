package core

// convert.go turns raw uploaded cell text into typed values.
//
// Uploaded data is messy: stray whitespace, currency symbols, thousands
// separators and Excel formula prefixes all show up in real files. Numbers are
// scanned through pgtype.Numeric so arbitrary-precision decimals are accepted
// exactly before being compared.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a plain decimal literal.
// Scientific notation is not accepted.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// integerRegex matches an optionally signed run of digits.
var integerRegex = regexp.MustCompile(`^[+-]?\d+$`)

// ParseNumber parses a numeric cell. Returns false for empty or non-numeric input.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return 0, false
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return 0, false
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid || math.IsInf(f.Float64, 0) || math.IsNaN(f.Float64) {
		return 0, false
	}
	return f.Float64, true
}

// ParseMoney parses a currency amount after removing "$" and "," characters.
func ParseMoney(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return ParseNumber(s)
}

// ParseInteger parses a strict integer cell; "3.0" and "3x" are rejected.
func ParseInteger(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !integerRegex.MatchString(s) {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return i, true
}

// NormalizeHeader lower-cases a header and replaces every character outside
// [a-z0-9] with an underscore: "Client ID" → "client_id".
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(CleanCell(h)))
	var b strings.Builder
	b.Grow(len(h))
	for _, r := range h {
		if r < unicode.MaxASCII && (unicode.IsLower(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// NormalizeHeaders applies NormalizeHeader to each header.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeHeader(h)
	}
	return out
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return s
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// fitRow pads or truncates a row to width cells. Values are kept verbatim.
func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
