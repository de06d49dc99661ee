package core

import (
	"errors"
	"testing"
)

func testRule(name string, priority int) Rule {
	return Rule{
		Name:     name,
		Type:     RuleLoadLimit,
		Priority: priority,
		Enabled:  true,
		Actions: []RuleAction{{
			Type:       ActionLimit,
			Target:     "workers",
			Value:      "3",
			Parameters: map[string]any{"phase": "1"},
		}},
	}
}

func TestRuleStore_AddListOrder(t *testing.T) {
	s := NewRuleStore()

	a, err := s.Add(testRule("a", 1))
	if err != nil {
		t.Fatalf("Add(a) error = %v", err)
	}
	if a.ID == "" {
		t.Error("Add should assign an ID")
	}
	if _, err := s.Add(testRule("b", 9)); err != nil {
		t.Fatalf("Add(b) error = %v", err)
	}
	if _, err := s.Add(Rule{ID: a.ID, Name: "dup", Type: RuleCoRun, Priority: 1}); !errors.Is(err, ErrDuplicateRuleID) {
		t.Errorf("Add with existing ID = %v, want ErrDuplicateRuleID", err)
	}
	if _, err := s.Add(Rule{Name: "bad"}); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("Add invalid = %v, want ErrInvalidRule", err)
	}

	list := s.List()
	if len(list) != 2 || list[0].Name != "a" || list[1].Name != "b" {
		t.Errorf("List() = %+v, want insertion order a, b", list)
	}
}

func TestRuleStore_UpdateDeleteToggle(t *testing.T) {
	s := NewRuleStore()
	a, _ := s.Add(testRule("a", 1))
	b, _ := s.Add(testRule("b", 2))

	a.Name = "a2"
	if _, err := s.Update(a); err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if got, _ := s.Get(a.ID); got.Name != "a2" {
		t.Errorf("Get after Update name = %q, want a2", got.Name)
	}
	if list := s.List(); list[0].ID != a.ID {
		t.Error("Update should keep the rule's position")
	}

	if _, err := s.Update(Rule{ID: "missing", Name: "x", Type: RuleCoRun, Priority: 1}); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("Update missing = %v, want ErrRuleNotFound", err)
	}

	off, err := s.SetEnabled(b.ID, false)
	if err != nil || off.Enabled {
		t.Fatalf("SetEnabled(false) = %+v, %v", off, err)
	}
	if got := s.Enabled(); len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("Enabled() = %+v, want only a", got)
	}

	if err := s.Delete(a.ID); err != nil {
		t.Fatalf("Delete error = %v", err)
	}
	if err := s.Delete(a.ID); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("second Delete = %v, want ErrRuleNotFound", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestRuleStore_CopiesOnReadAndWrite(t *testing.T) {
	s := NewRuleStore()
	r := testRule("a", 1)
	added, _ := s.Add(r)

	r.Actions[0].Parameters["phase"] = "mutated"
	got, _ := s.Get(added.ID)
	if got.Actions[0].Parameters["phase"] != "1" {
		t.Error("store should not share parameters with the caller's rule")
	}

	got.Actions[0].Parameters["phase"] = "mutated"
	again, _ := s.Get(added.ID)
	if again.Actions[0].Parameters["phase"] != "1" {
		t.Error("store should not share parameters with returned rules")
	}
}

func TestRuleStore_Replace(t *testing.T) {
	s := NewRuleStore()
	s.Add(testRule("old", 1))

	a := testRule("a", 1)
	a.ID = "r1"
	if err := s.Replace([]Rule{a, testRule("b", 2)}); err != nil {
		t.Fatalf("Replace error = %v", err)
	}
	list := s.List()
	if len(list) != 2 || list[0].ID != "r1" || list[1].ID == "" {
		t.Errorf("List() after Replace = %+v", list)
	}

	if err := s.Replace([]Rule{a, a}); !errors.Is(err, ErrDuplicateRuleID) {
		t.Errorf("Replace with duplicate IDs = %v, want ErrDuplicateRuleID", err)
	}
	if err := s.Replace([]Rule{{Name: "bad"}}); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("Replace with invalid rule = %v, want ErrInvalidRule", err)
	}
	if s.Len() != 2 {
		t.Errorf("failed Replace should leave the store unchanged, Len() = %d", s.Len())
	}
}
