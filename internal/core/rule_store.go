package core

import (
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// RuleStore keeps rules in memory in insertion order, which is also display order.
type RuleStore struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewRuleStore constructs an empty RuleStore.
func NewRuleStore() *RuleStore {
	return &RuleStore{}
}

// Add validates and appends a rule. An empty ID is replaced with a new UUID.
func (s *RuleStore) Add(r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(r.ID) >= 0 {
		return Rule{}, fmt.Errorf("%w: %s", ErrDuplicateRuleID, r.ID)
	}
	r = cloneRule(r)
	s.rules = append(s.rules, r)
	return cloneRule(r), nil
}

// Update replaces the rule with the same ID, keeping its position.
func (s *RuleStore) Update(r Rule) (Rule, error) {
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(r.ID)
	if i < 0 {
		return Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, r.ID)
	}
	s.rules[i] = cloneRule(r)
	return cloneRule(r), nil
}

// Delete removes a rule by ID.
func (s *RuleStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	s.rules = append(s.rules[:i], s.rules[i+1:]...)
	return nil
}

// SetEnabled turns a rule on or off without otherwise changing it.
func (s *RuleStore) SetEnabled(id string, enabled bool) (Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	s.rules[i].Enabled = enabled
	return cloneRule(s.rules[i]), nil
}

// Get returns a rule by ID.
func (s *RuleStore) Get(id string) (Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	return cloneRule(s.rules[i]), nil
}

// List returns all rules in insertion order.
func (s *RuleStore) List() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = cloneRule(r)
	}
	return out
}

// Enabled returns the enabled rules in insertion order.
func (s *RuleStore) Enabled() []Rule {
	var out []Rule
	for _, r := range s.List() {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// Replace swaps the whole rule set, validating every rule first.
func (s *RuleStore) Replace(rules []Rule) error {
	next := make([]Rule, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateRuleID, r.ID)
		}
		seen[r.ID] = true
		next = append(next, cloneRule(r))
	}

	s.mu.Lock()
	s.rules = next
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored rules.
func (s *RuleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

func (s *RuleStore) indexOf(id string) int {
	for i, r := range s.rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func cloneRule(r Rule) Rule {
	c := r
	c.Conditions = append([]RuleCondition(nil), r.Conditions...)
	c.Actions = make([]RuleAction, len(r.Actions))
	for i, a := range r.Actions {
		a.Parameters = maps.Clone(a.Parameters)
		c.Actions[i] = a
	}
	return c
}
