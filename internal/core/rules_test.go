package core

import (
	"errors"
	"strings"
	"testing"
)

func TestRuleCondition_Matches(t *testing.T) {
	tests := []struct {
		name  string
		cond  RuleCondition
		value string
		want  bool
	}{
		{"equals exact", RuleCondition{Operator: OpEquals, Value: "high"}, "high", true},
		{"equals differs", RuleCondition{Operator: OpEquals, Value: "high"}, "3", false},
		{"equals is case sensitive", RuleCondition{Operator: OpEquals, Value: "high"}, "High", false},
		{"not equals", RuleCondition{Operator: OpNotEquals, Value: "a"}, "b", true},
		{"greater than", RuleCondition{Operator: OpGreaterThan, Value: "3"}, "4.5", true},
		{"greater than equal value", RuleCondition{Operator: OpGreaterThan, Value: "3"}, "3", false},
		{"greater than non numeric", RuleCondition{Operator: OpGreaterThan, Value: "3"}, "many", false},
		{"less than", RuleCondition{Operator: OpLessThan, Value: "10"}, "2", true},
		{"contains ignores case", RuleCondition{Operator: OpContains, Value: "SQL"}, "go,sql", true},
		{"regex", RuleCondition{Operator: OpRegex, Value: `^T\d+$`}, "t12", true},
		{"invalid regex never matches", RuleCondition{Operator: OpRegex, Value: `(`}, "(", false},
		{"in list", RuleCondition{Operator: OpIn, Value: "T1, T2 ,T3"}, "t2", true},
		{"not in list", RuleCondition{Operator: OpNotIn, Value: "T1,T2"}, "T3", true},
		{"unknown operator", RuleCondition{Operator: "between", Value: "1"}, "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Matches(tt.value); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestRule_MatchesLeftFold(t *testing.T) {
	row := map[string]string{"a": "1", "b": "0", "c": "1"}
	is := func(field, v string, logic LogicalOperator) RuleCondition {
		return RuleCondition{Field: field, Operator: OpEquals, Value: v, LogicalOperator: logic}
	}

	tests := []struct {
		name  string
		conds []RuleCondition
		want  bool
	}{
		{"no conditions match all", nil, true},
		{"single true", []RuleCondition{is("a", "1", "")}, true},
		{"and default", []RuleCondition{is("a", "1", ""), is("b", "1", "")}, false},
		// (a AND b) OR c = (true AND false) OR true
		{"and then or", []RuleCondition{is("a", "1", LogicAnd), is("b", "1", LogicOr), is("c", "1", "")}, true},
		// (a OR b) AND b = (true OR false) AND false
		{"or then and", []RuleCondition{is("a", "1", LogicOr), is("b", "1", LogicAnd), is("b", "1", "")}, false},
		{"missing field reads empty", []RuleCondition{is("zzz", "", "")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rule{Conditions: tt.conds}
			if got := r.Matches(row); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRule_MatchesNormalizedField(t *testing.T) {
	r := Rule{Conditions: []RuleCondition{{Field: "Priority Level", Operator: OpEquals, Value: "5"}}}
	if !r.Matches(map[string]string{"priority_level": "5"}) {
		t.Error("condition field should fall back to the normalized header")
	}
}

func TestRule_Validate(t *testing.T) {
	valid := Rule{
		Name:     "Pair T1 and T2",
		Type:     RuleCoRun,
		Priority: 5,
		Conditions: []RuleCondition{
			{Field: "task_id", Operator: OpIn, Value: "T1,T2"},
		},
		Actions: []RuleAction{{Type: ActionGroup, Target: "tasks", Value: "T1,T2"}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Rule)
		wantMsg string
	}{
		{"blank name", func(r *Rule) { r.Name = " " }, "name is required"},
		{"unknown type", func(r *Rule) { r.Type = "magic" }, "unknown rule type"},
		{"priority too low", func(r *Rule) { r.Priority = 0 }, "priority 0"},
		{"priority too high", func(r *Rule) { r.Priority = 11 }, "priority 11"},
		{"unknown operator", func(r *Rule) { r.Conditions[0].Operator = "like" }, "unknown operator"},
		{"bad logical operator", func(r *Rule) { r.Conditions[0].LogicalOperator = "XOR" }, "AND or OR"},
		{"unknown action", func(r *Rule) { r.Actions[0].Type = "explode" }, "unknown action type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := cloneRule(valid)
			tt.mutate(&r)
			err := r.Validate()
			if !errors.Is(err, ErrInvalidRule) {
				t.Fatalf("Validate() = %v, want ErrInvalidRule", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestEvaluateRules(t *testing.T) {
	f := newTestFile(CategoryTasks,
		[]string{"task_id", "duration", "priority"},
		[]string{"T1", "2", "5"},
		[]string{"T2", "6", "1"},
		[]string{"T3", "8", "4"},
	)
	rules := []Rule{
		{ID: "low", Name: "long tasks", Enabled: true, Priority: 2,
			Conditions: []RuleCondition{{Field: "duration", Operator: OpGreaterThan, Value: "5"}}},
		{ID: "off", Name: "disabled", Enabled: false, Priority: 10},
		{ID: "high", Name: "urgent", Enabled: true, Priority: 9,
			Conditions: []RuleCondition{{Field: "priority", Operator: OpIn, Value: "4,5"}}},
		{ID: "tie", Name: "everything", Enabled: true, Priority: 2},
	}

	matches := EvaluateRules(f, rules)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3 (disabled rule skipped)", len(matches))
	}

	wantOrder := []string{"high", "low", "tie"}
	for i, id := range wantOrder {
		if matches[i].RuleID != id {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i].RuleID, id)
		}
	}

	wantRows := map[string][]int{"high": {0, 2}, "low": {1, 2}, "tie": {0, 1, 2}}
	for _, m := range matches {
		got := m.Rows
		want := wantRows[m.RuleID]
		if len(got) != len(want) {
			t.Errorf("%s rows = %v, want %v", m.RuleID, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s rows = %v, want %v", m.RuleID, got, want)
				break
			}
		}
		if m.FileID != f.ID {
			t.Errorf("%s file id = %q, want %q", m.RuleID, m.FileID, f.ID)
		}
	}
}
