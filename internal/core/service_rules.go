package core

import (
	"context"
	"fmt"
	"log/slog"
)

// Rules returns the rule set in display order.
func (s *Service) Rules() []Rule {
	return s.rules.List()
}

// Rule returns one rule.
func (s *Service) Rule(id string) (Rule, error) {
	return s.rules.Get(id)
}

// AddRule validates and appends a rule.
func (s *Service) AddRule(ctx context.Context, r Rule) (Rule, error) {
	added, err := s.rules.Add(r)
	if err != nil {
		return Rule{}, err
	}
	s.activity.Record(ctx, ActivityEntry{Action: ActionRuleAdd, RuleID: added.ID, Detail: added.Name})
	slog.Info("rule added", "rule_id", added.ID, "name", added.Name, "type", added.Type, "priority", added.Priority)
	return added, nil
}

// UpdateRule replaces a rule in place.
func (s *Service) UpdateRule(ctx context.Context, r Rule) (Rule, error) {
	updated, err := s.rules.Update(r)
	if err != nil {
		return Rule{}, err
	}
	s.activity.Record(ctx, ActivityEntry{Action: ActionRuleUpdate, RuleID: updated.ID, Detail: updated.Name})
	return updated, nil
}

// DeleteRule removes a rule.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	if err := s.rules.Delete(id); err != nil {
		return err
	}
	s.activity.Record(ctx, ActivityEntry{Action: ActionRuleDelete, RuleID: id})
	slog.Info("rule deleted", "rule_id", id)
	return nil
}

// ToggleRule flips a rule's enabled flag.
func (s *Service) ToggleRule(ctx context.Context, id string) (Rule, error) {
	r, err := s.rules.Get(id)
	if err != nil {
		return Rule{}, err
	}
	r, err = s.rules.SetEnabled(id, !r.Enabled)
	if err != nil {
		return Rule{}, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:   ActionRuleToggle,
		RuleID:   id,
		NewValue: fmt.Sprintf("%t", r.Enabled),
	})
	return r, nil
}

// EvaluateRules runs the enabled rules over one file's working rows.
func (s *Service) EvaluateRules(id string) ([]RuleMatch, error) {
	f, err := s.File(id)
	if err != nil {
		return nil, err
	}
	s.metrics.observeRuleEvaluation()
	return EvaluateRules(f, s.rules.List()), nil
}

// Weights returns the current priority weights.
func (s *Service) Weights() PriorityWeights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}

// SetWeight sets one dimension and renormalizes the vector.
func (s *Service) SetWeight(ctx context.Context, dim string, value float64) (PriorityWeights, error) {
	s.mu.Lock()
	next, err := s.weights.Set(dim, value)
	if err != nil {
		s.mu.Unlock()
		return s.Weights(), err
	}
	s.weights = next
	s.mu.Unlock()

	s.activity.Record(ctx, ActivityEntry{
		Action:   ActionWeightsChange,
		Column:   dim,
		NewValue: fmt.Sprintf("%g", value),
	})
	return next, nil
}

// ApplyTemplate replaces the weights with a named preset.
func (s *Service) ApplyTemplate(ctx context.Context, name string) (PriorityWeights, error) {
	w, err := Template(name)
	if err != nil {
		return s.Weights(), err
	}
	s.mu.Lock()
	s.weights = w
	s.mu.Unlock()

	s.activity.Record(ctx, ActivityEntry{Action: ActionWeightsChange, Detail: "template " + name})
	return w, nil
}

// CheckWeights returns ErrWeightsUnbalanced when the weights do not sum to 1
// within WeightTolerance.
func (s *Service) CheckWeights() error {
	w := s.Weights()
	if !w.Balanced() {
		return fmt.Errorf("%w: sum is %.3f", ErrWeightsUnbalanced, w.Sum())
	}
	return nil
}

// RulesConfig assembles the exportable rules document.
func (s *Service) RulesConfig() RulesConfig {
	return BuildRulesConfig(s.rules.List(), s.Weights(), s.now())
}

// ImportRules replaces the rule set and weights from a JSON or YAML document.
func (s *Service) ImportRules(ctx context.Context, data []byte) (RulesConfig, error) {
	cfg, err := ReadRulesConfig(data)
	if err != nil {
		return RulesConfig{}, err
	}
	if err := s.rules.Replace(cfg.Rules); err != nil {
		return RulesConfig{}, err
	}
	s.mu.Lock()
	s.weights = cfg.Priorities
	s.mu.Unlock()

	s.activity.Record(ctx, ActivityEntry{
		Action: ActionRulesImport,
		Detail: fmt.Sprintf("%d rules", len(cfg.Rules)),
	})
	slog.Info("rules imported", "rules", len(cfg.Rules), "weights_balanced", cfg.Priorities.Balanced())
	return s.RulesConfig(), nil
}
