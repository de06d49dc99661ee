package core

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseFile_CSV(t *testing.T) {
	input := "\n\"Client ID\",Name,Email,Priority Level\n" +
		"c1,Acme,a@acme.io,3\n" +
		",,,\n" +
		"c2,Beta\n" +
		"c3,Gamma,g@x.io,1,extra\n"

	f, err := ParseFile("clients.csv", strings.NewReader(input), ParseOptions{})
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	wantHeaders := []string{"client_id", "name", "email", "priority_level"}
	if !reflect.DeepEqual(f.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", f.Headers, wantHeaders)
	}
	wantRows := Grid{
		{"c1", "Acme", "a@acme.io", "3"},
		{"c2", "Beta", "", ""},
		{"c3", "Gamma", "g@x.io", "1"},
	}
	if !reflect.DeepEqual(f.Rows, wantRows) {
		t.Errorf("Rows = %q, want %q", f.Rows, wantRows)
	}
	if !reflect.DeepEqual(f.Original, wantRows) {
		t.Errorf("Original = %q, want %q", f.Original, wantRows)
	}
	if f.Category != CategoryClients {
		t.Errorf("Category = %q, want clients", f.Category)
	}
	if f.ID == "" || f.UploadedAt.IsZero() {
		t.Error("ParseFile should assign an ID and upload time")
	}

	f.Rows[0][0] = "edited"
	if f.Original[0][0] != "c1" {
		t.Error("Original must not share storage with Rows")
	}
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		input string
		opts  ParseOptions
		want  error
	}{
		{"unsupported extension", "data.pdf", "id\n1\n", ParseOptions{}, ErrUnsupportedFormat},
		{"empty", "a.csv", "", ParseOptions{}, ErrEmptyFile},
		{"blank lines only", "a.csv", "\n,,\n", ParseOptions{}, ErrEmptyFile},
		{"header only", "a.csv", "id,name\n", ParseOptions{}, ErrNoDataRows},
		{"too large", "a.csv", "id,name\n" + strings.Repeat("x,y\n", 100), ParseOptions{MaxBytes: 64}, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.file, strings.NewReader(tt.input), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseFile() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseFile_ForcedCategoryAndBOM(t *testing.T) {
	input := "\xEF\xBB\xBFid,title\nt1,Paint\n"
	f, err := ParseFile("clients_export.csv", strings.NewReader(input), ParseOptions{Category: CategoryTasks})
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if f.Category != CategoryTasks {
		t.Errorf("Category = %q, want forced tasks", f.Category)
	}
	if f.Headers[0] != "id" {
		t.Errorf("first header = %q, want BOM stripped", f.Headers[0])
	}
}

func TestParseFile_XLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"Worker ID", "Name", "Skills", "Availability"},
		{"w1", "Ana", "go,sql", "1,2"},
		{"w2", "Ben", "design", "3"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := r
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	wb.Close()

	f, err := ParseFile("team.xlsx", &buf, ParseOptions{})
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if f.Category != CategoryWorkers {
		t.Errorf("Category = %q, want workers", f.Category)
	}
	want := Grid{{"w1", "Ana", "go,sql", "1,2"}, {"w2", "Ben", "design", "3"}}
	if !reflect.DeepEqual(f.Rows, want) {
		t.Errorf("Rows = %q, want %q", f.Rows, want)
	}
}

func TestFormatFromName(t *testing.T) {
	tests := []struct {
		name string
		want Format
		ok   bool
	}{
		{"a.csv", FormatCSV, true},
		{"A.CSV", FormatCSV, true},
		{"a.txt", FormatCSV, true},
		{"a.xlsx", FormatXLSX, true},
		{"a.xls", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		got, err := FormatFromName(tt.name)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("FormatFromName(%q) = %q, %v", tt.name, got, err)
		}
	}
}
