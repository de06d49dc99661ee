package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestExportData_CSVRoundTrip(t *testing.T) {
	f := newTestFile(CategoryTasks,
		[]string{"id", "title", "notes"},
		[]string{"t1", "Paint, then dry", `say "hi"`},
		[]string{"t2", "Multi\nline", ""},
		[]string{"t3", "  padded  ", "{\"a\":1}"},
	)
	f.Name = "tasks.csv"

	var buf bytes.Buffer
	if err := ExportData(&buf, f, FormatCSV, false); err != nil {
		t.Fatalf("ExportData() error = %v", err)
	}

	back, err := ParseFile("tasks.csv", &buf, ParseOptions{Category: CategoryTasks})
	if err != nil {
		t.Fatalf("re-parse error = %v", err)
	}
	if !reflect.DeepEqual(back.Headers, f.Headers) {
		t.Errorf("headers = %v, want %v", back.Headers, f.Headers)
	}
	if !reflect.DeepEqual(back.Rows, f.Rows) {
		t.Errorf("rows = %q, want %q", back.Rows, f.Rows)
	}
}

func TestExportData_OriginalAndJSON(t *testing.T) {
	f := newTestFile(CategoryClients,
		[]string{"id", "name"},
		[]string{"c1", "Acme"},
	)
	f.Rows[0][1] = "Acme Corp"

	var buf bytes.Buffer
	if err := ExportData(&buf, f, FormatJSON, true); err != nil {
		t.Fatalf("ExportData() error = %v", err)
	}
	var records []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(records) != 1 || records[0]["name"] != "Acme" {
		t.Errorf("original export = %v, want the unedited name", records)
	}

	buf.Reset()
	ExportData(&buf, f, FormatJSON, false)
	if !strings.Contains(buf.String(), "Acme Corp") {
		t.Errorf("cleaned export %q should carry the edit", buf.String())
	}
}

func TestExportData_XLSXRoundTrip(t *testing.T) {
	f := newTestFile(CategoryWorkers,
		[]string{"worker_id", "name", "skills"},
		[]string{"w1", "Ana", "go,sql"},
	)

	var buf bytes.Buffer
	if err := ExportData(&buf, f, FormatXLSX, false); err != nil {
		t.Fatalf("ExportData() error = %v", err)
	}
	back, err := ParseFile("w.xlsx", &buf, ParseOptions{})
	if err != nil {
		t.Fatalf("re-parse error = %v", err)
	}
	if !reflect.DeepEqual(back.Rows, f.Rows) {
		t.Errorf("rows = %q, want %q", back.Rows, f.Rows)
	}
}

func TestExportData_UnsupportedFormat(t *testing.T) {
	f := newTestFile(CategoryTasks, []string{"id"}, []string{"t1"})
	if err := ExportData(&bytes.Buffer{}, f, Format("pdf"), false); !errors.Is(err, ErrUnsupportedExport) {
		t.Errorf("ExportData(pdf) error = %v, want ErrUnsupportedExport", err)
	}
}

func TestExportFileName(t *testing.T) {
	f := &DataFile{Name: "clients.xlsx", Category: CategoryClients}
	if got := ExportFileName(f, FormatCSV, false); got != "clients_cleaned.csv" {
		t.Errorf("ExportFileName() = %q", got)
	}
	if got := ExportFileName(f, FormatJSON, true); got != "clients_original.json" {
		t.Errorf("ExportFileName(original) = %q", got)
	}
}

func TestRulesConfig_RoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rules := []Rule{
		{ID: "r1", Name: "pair", Type: RuleCoRun, Priority: 3, Enabled: true,
			Conditions: []RuleCondition{{Field: "task_id", Operator: OpIn, Value: "T1,T2", LogicalOperator: LogicAnd}},
			Actions:    []RuleAction{{Type: ActionGroup, Target: "tasks", Value: "T1,T2"}}},
		{ID: "r2", Name: "cap", Type: RuleLoadLimit, Priority: 7, Enabled: false},
	}
	weights, _ := Template("fairness-first")
	cfg := BuildRulesConfig(rules, weights, now)

	if cfg.Metadata.TotalRules != 2 || cfg.Metadata.EnabledRules != 1 || cfg.Metadata.Version != ConfigVersion {
		t.Errorf("metadata = %+v", cfg.Metadata)
	}

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteRulesConfig(&buf, cfg, format); err != nil {
				t.Fatalf("WriteRulesConfig() error = %v", err)
			}
			back, err := ReadRulesConfig(buf.Bytes())
			if err != nil {
				t.Fatalf("ReadRulesConfig() error = %v", err)
			}
			if len(back.Rules) != 2 || back.Rules[0].Conditions[0].Value != "T1,T2" || back.Rules[1].Enabled {
				t.Errorf("rules = %+v", back.Rules)
			}
			if back.Priorities != weights {
				t.Errorf("priorities = %+v, want %+v", back.Priorities, weights)
			}
			if !back.Metadata.ExportedAt.Equal(now) {
				t.Errorf("exportedAt = %v, want %v", back.Metadata.ExportedAt, now)
			}
		})
	}
}

func TestReadRulesConfig_Defaults(t *testing.T) {
	cfg, err := ReadRulesConfig([]byte("rules: []\n"))
	if err != nil {
		t.Fatalf("ReadRulesConfig() error = %v", err)
	}
	if cfg.Priorities != DefaultWeights {
		t.Errorf("priorities = %+v, want defaults", cfg.Priorities)
	}

	_, err = ReadRulesConfig([]byte(`{"rules":[{"name":"x","type":"co-run","priority":42}]}`))
	if !errors.Is(err, ErrInvalidRule) {
		t.Errorf("ReadRulesConfig(bad priority) error = %v, want ErrInvalidRule", err)
	}
}

func TestWriteRulesConfig_UnsupportedFormat(t *testing.T) {
	err := WriteRulesConfig(&bytes.Buffer{}, RulesConfig{}, "toml")
	if !errors.Is(err, ErrUnsupportedExport) {
		t.Errorf("WriteRulesConfig(toml) error = %v, want ErrUnsupportedExport", err)
	}
}
