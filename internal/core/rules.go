package core

// rules.go defines user-authored business rules and how their conditions match
// a row.
//
// A rule's predicate folds its conditions strictly left to right: each
// condition's LogicalOperator joins it to the next one, so [a AND b OR c] is
// ((a AND b) OR c). Actions are inert descriptions of an intended effect; this
// package never applies them.

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// RuleType names the scheduling concern a rule expresses.
type RuleType string

const (
	RuleCoRun            RuleType = "co-run"
	RuleSlotRestriction  RuleType = "slot-restriction"
	RuleLoadLimit        RuleType = "load-limit"
	RulePhaseRestriction RuleType = "phase-restriction"
	RuleRegexFilter      RuleType = "regex-filter"
)

// Operator compares a field value with a condition value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not-equals"
	OpGreaterThan Operator = "greater-than"
	OpLessThan    Operator = "less-than"
	OpContains    Operator = "contains"
	OpRegex       Operator = "regex"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not-in"
)

// LogicalOperator joins a condition to the next one.
type LogicalOperator string

const (
	LogicAnd LogicalOperator = "AND"
	LogicOr  LogicalOperator = "OR"
)

// ActionType names the effect an action describes.
type ActionType string

const (
	ActionGroup    ActionType = "group"
	ActionRestrict ActionType = "restrict"
	ActionLimit    ActionType = "limit"
	ActionAssign   ActionType = "assign"
	ActionFlag     ActionType = "flag"
)

// Rule priority bounds.
const (
	MinRulePriority = 1
	MaxRulePriority = 10
)

// RuleCondition tests one field of a row.
type RuleCondition struct {
	Field           string          `json:"field"`
	Operator        Operator        `json:"operator"`
	Value           string          `json:"value"`
	LogicalOperator LogicalOperator `json:"logicalOperator,omitempty"`
}

// RuleAction describes what a matching rule intends to happen.
type RuleAction struct {
	Type       ActionType     `json:"type"`
	Target     string         `json:"target"`
	Value      string         `json:"value"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Rule is a named bundle of conditions and actions.
type Rule struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        RuleType        `json:"type"`
	Description string          `json:"description"`
	Conditions  []RuleCondition `json:"conditions"`
	Actions     []RuleAction    `json:"actions"`
	Enabled     bool            `json:"enabled"`
	Priority    int             `json:"priority"`
}

var validRuleTypes = map[RuleType]bool{
	RuleCoRun: true, RuleSlotRestriction: true, RuleLoadLimit: true,
	RulePhaseRestriction: true, RuleRegexFilter: true,
}

var validOperators = map[Operator]bool{
	OpEquals: true, OpNotEquals: true, OpGreaterThan: true, OpLessThan: true,
	OpContains: true, OpRegex: true, OpIn: true, OpNotIn: true,
}

var validActions = map[ActionType]bool{
	ActionGroup: true, ActionRestrict: true, ActionLimit: true, ActionAssign: true, ActionFlag: true,
}

// Validate checks a rule as submitted from a form.
// Returns an error wrapping ErrInvalidRule that lists every problem.
func (r Rule) Validate() error {
	var errs []error

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !validRuleTypes[r.Type] {
		errs = append(errs, fmt.Errorf("unknown rule type %q", r.Type))
	}
	if r.Priority < MinRulePriority || r.Priority > MaxRulePriority {
		errs = append(errs, fmt.Errorf("priority %d must be %d-%d", r.Priority, MinRulePriority, MaxRulePriority))
	}
	for i, c := range r.Conditions {
		if strings.TrimSpace(c.Field) == "" {
			errs = append(errs, fmt.Errorf("condition %d: field is required", i+1))
		}
		if !validOperators[c.Operator] {
			errs = append(errs, fmt.Errorf("condition %d: unknown operator %q", i+1, c.Operator))
		}
		if c.LogicalOperator != "" && c.LogicalOperator != LogicAnd && c.LogicalOperator != LogicOr {
			errs = append(errs, fmt.Errorf("condition %d: logical operator must be AND or OR", i+1))
		}
	}
	for i, a := range r.Actions {
		if !validActions[a.Type] {
			errs = append(errs, fmt.Errorf("action %d: unknown action type %q", i+1, a.Type))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRule, errors.Join(errs...))
	}
	return nil
}

// Matches evaluates the condition against a single field value.
func (c RuleCondition) Matches(value string) bool {
	switch c.Operator {
	case OpEquals:
		return value == c.Value
	case OpNotEquals:
		return value != c.Value
	case OpGreaterThan, OpLessThan:
		v, ok1 := ParseNumber(value)
		x, ok2 := ParseNumber(c.Value)
		if !ok1 || !ok2 {
			return false
		}
		if c.Operator == OpGreaterThan {
			return v > x
		}
		return v < x
	case OpContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(c.Value))
	case OpRegex:
		re, err := regexp.Compile("(?i)" + c.Value)
		if err != nil {
			return false
		}
		return re.MatchString(value)
	case OpIn:
		return inList(value, c.Value)
	case OpNotIn:
		return !inList(value, c.Value)
	}
	return false
}

// inList reports case-insensitive membership of v in a comma-separated list.
func inList(v, list string) bool {
	v = strings.TrimSpace(v)
	for _, item := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

// Matches evaluates the rule's folded predicate against a row given as
// header → value. Missing fields read as "". A rule without conditions
// matches every row.
func (r Rule) Matches(row map[string]string) bool {
	if len(r.Conditions) == 0 {
		return true
	}

	result := r.Conditions[0].Matches(lookupField(row, r.Conditions[0].Field))
	for i := 1; i < len(r.Conditions); i++ {
		next := r.Conditions[i].Matches(lookupField(row, r.Conditions[i].Field))
		if r.Conditions[i-1].LogicalOperator == LogicOr {
			result = result || next
		} else {
			result = result && next
		}
	}
	return result
}

// lookupField finds a row value by exact header, then by normalized header.
func lookupField(row map[string]string, field string) string {
	if v, ok := row[field]; ok {
		return v
	}
	if v, ok := row[NormalizeHeader(field)]; ok {
		return v
	}
	return ""
}

// RuleMatch lists the rows of one file that a rule matched.
type RuleMatch struct {
	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
	Priority int    `json:"priority"`
	FileID   string `json:"fileId"`
	Rows     []int  `json:"rows"`
}

// EvaluateRules runs every enabled rule over a file's working rows.
// Results are ordered by rule priority, highest first; ties keep the given order.
func EvaluateRules(f *DataFile, rules []Rule) []RuleMatch {
	rows := make([]map[string]string, f.RowCount())
	for i := range rows {
		rows[i] = f.RowMap(i)
	}

	var matches []RuleMatch
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		m := RuleMatch{RuleID: r.ID, RuleName: r.Name, Priority: r.Priority, FileID: f.ID, Rows: []int{}}
		for i, row := range rows {
			if r.Matches(row) {
				m.Rows = append(m.Rows, i)
			}
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority > matches[j].Priority
	})
	return matches
}
