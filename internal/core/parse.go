package core

// parse.go turns an uploaded CSV or XLSX file into a DataFile.
//
// The first non-empty record is the header row. Headers are normalized
// (lower-case, non-alphanumerics → "_"), fully blank data rows are dropped,
// and every remaining row is padded or truncated to the header width.

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Format is a tabular file format for import and export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// FormatFromName picks a format from a file extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
}

// ParseOptions controls file parsing.
type ParseOptions struct {
	// MaxBytes caps the raw file size; zero disables the cap.
	MaxBytes int64
	// Category forces a category instead of inferring one.
	Category Category
}

// ParseFile reads a CSV or XLSX file into a new DataFile with a fresh ID.
// The returned file has no issues yet; validate it before use.
func ParseFile(name string, r io.Reader, opts ParseOptions) (*DataFile, error) {
	format, err := FormatFromName(name)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readCSV(WrapForParsing(r, opts.MaxBytes))
	case FormatXLSX:
		records, err = readXLSX(NewSizeLimitReader(r, opts.MaxBytes))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	f, err := buildDataFile(name, records, opts.Category)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return f, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	return rows, nil
}

// buildDataFile assembles a DataFile from raw records.
func buildDataFile(name string, records [][]string, category Category) (*DataFile, error) {
	start := 0
	for start < len(records) && isEmptyRow(records[start]) {
		start++
	}
	if start == len(records) {
		return nil, ErrEmptyFile
	}

	headers := NormalizeHeaders(records[start])
	var rows Grid
	for _, rec := range records[start+1:] {
		if isEmptyRow(rec) {
			continue
		}
		rows = append(rows, fitRow(rec, len(headers)))
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	if category == "" {
		category = InferCategory(name, headers)
	}

	return &DataFile{
		ID:         uuid.NewString(),
		Name:       name,
		Category:   category,
		Headers:    headers,
		Rows:       rows,
		Original:   rows.Clone(),
		UploadedAt: time.Now().UTC(),
	}, nil
}
