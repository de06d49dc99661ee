package core

import (
	"reflect"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"123", 123, true},
		{"0", 0, true},
		{"-456", -456, true},
		{"+7", 7, true},
		{"123.45", 123.45, true},
		{".99", 0.99, true},
		{"99.", 99, true},
		{"  42  ", 42, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"1,000", 0, false},
		{"$5", 0, false},
		{"1e5", 0, false},
		{"1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"$1,500", 1500, true},
		{"1500.50", 1500.5, true},
		{"$-20", -20, true},
		{"USD 10", 0, false},
		{"$", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseMoney(tt.input)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseMoney(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"3", 3, true},
		{" 5 ", 5, true},
		{"-1", -1, true},
		{"3.0", 0, false},
		{"3.5", 0, false},
		{"3x", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseInteger(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseInteger(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Client ID", "client_id"},
		{"  Email  ", "email"},
		{"Priority-Level", "priority_level"},
		{"Budget ($)", "budget____"},
		{`="TaskID"`, "taskid"},
		{"Zoë", "zo_"},
		{"duration", "duration"},
	}

	for _, tt := range tests {
		if got := NormalizeHeader(tt.input); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{`="00123"`, "00123"},
		{`="`, `="`},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFitRow(t *testing.T) {
	tests := []struct {
		name  string
		row   []string
		width int
		want  []string
	}{
		{"pads short rows", []string{"a"}, 3, []string{"a", "", ""}},
		{"truncates long rows", []string{"a", "b", "c"}, 2, []string{"a", "b"}},
		{"keeps values verbatim", []string{" a ", "b"}, 2, []string{" a ", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitRow(tt.row, tt.width); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fitRow() = %q, want %q", got, tt.want)
			}
		})
	}
}
