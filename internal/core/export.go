package core

// export.go writes session artifacts: cleaned (or original) data per file and
// the rules configuration document.

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"sigs.k8s.io/yaml"
)

// ConfigVersion tags exported rules documents.
const ConfigVersion = "1.0"

// ExportFileName returns the artifact name for a file's data.
func ExportFileName(f *DataFile, format Format, original bool) string {
	base := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
	if base == "" {
		base = string(f.Category)
	}
	suffix := "cleaned"
	if original {
		suffix = "original"
	}
	return fmt.Sprintf("%s_%s.%s", base, suffix, format)
}

// ExportData writes a file's working grid, or its original grid, in the given format.
func ExportData(w io.Writer, f *DataFile, format Format, original bool) error {
	rows := f.Rows
	if original {
		rows = f.Original
	}

	switch format {
	case FormatCSV:
		return writeCSV(w, f.Headers, rows)
	case FormatJSON:
		return writeJSONRows(w, f.Headers, rows)
	case FormatXLSX:
		return writeXLSX(w, f.Headers, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedExport, format)
}

func writeCSV(w io.Writer, headers []string, rows Grid) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(fitRow(row, len(headers))); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSONRows(w io.Writer, headers []string, rows Grid) error {
	records := make([]map[string]string, len(rows))
	for i, row := range rows {
		rec := make(map[string]string, len(headers))
		for c, h := range headers {
			rec[h] = cellAt(row, c)
		}
		records[i] = rec
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeXLSX(w io.Writer, headers []string, rows Grid) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	writeRow := func(r int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = v
		}
		return wb.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, headers); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, fitRow(row, len(headers))); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}
	if err := wb.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ExportMetadata describes a rules document.
type ExportMetadata struct {
	ExportedAt   time.Time `json:"exportedAt"`
	TotalRules   int       `json:"totalRules"`
	EnabledRules int       `json:"enabledRules"`
	Version      string    `json:"version"`
}

// RulesConfig is the exported rules configuration document.
type RulesConfig struct {
	Rules      []Rule          `json:"rules"`
	Priorities PriorityWeights `json:"priorities"`
	Metadata   ExportMetadata  `json:"metadata"`
}

// BuildRulesConfig assembles the rules document.
func BuildRulesConfig(rules []Rule, weights PriorityWeights, now time.Time) RulesConfig {
	enabled := 0
	for _, r := range rules {
		if r.Enabled {
			enabled++
		}
	}
	if rules == nil {
		rules = []Rule{}
	}
	return RulesConfig{
		Rules:      rules,
		Priorities: weights,
		Metadata: ExportMetadata{
			ExportedAt:   now.UTC(),
			TotalRules:   len(rules),
			EnabledRules: enabled,
			Version:      ConfigVersion,
		},
	}
}

// WriteRulesConfig encodes the document as "json" or "yaml".
func WriteRulesConfig(w io.Writer, cfg RulesConfig, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "yaml", "yml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode rules yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedExport, format)
}

// ReadRulesConfig decodes a rules document in JSON or YAML and validates its rules.
// A missing priorities block falls back to DefaultWeights.
func ReadRulesConfig(data []byte) (RulesConfig, error) {
	var raw struct {
		Rules      []Rule           `json:"rules"`
		Priorities *PriorityWeights `json:"priorities"`
		Metadata   ExportMetadata   `json:"metadata"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RulesConfig{}, fmt.Errorf("decode rules config: %w", err)
	}

	cfg := RulesConfig{Rules: raw.Rules, Priorities: DefaultWeights, Metadata: raw.Metadata}
	if raw.Priorities != nil {
		cfg.Priorities = *raw.Priorities
	}
	for i, r := range cfg.Rules {
		if err := r.Validate(); err != nil {
			return RulesConfig{}, fmt.Errorf("rule %d (%s): %w", i+1, r.Name, err)
		}
	}
	return cfg, nil
}
