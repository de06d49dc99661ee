package core

import (
	"fmt"
	"math"
	"sort"
)

// WeightTolerance is how far the weight sum may drift from 1.
const WeightTolerance = 0.01

// Weight dimension names, as used in exports and the API.
const (
	WeightPriorityLevel       = "priorityLevel"
	WeightTaskFulfillment     = "taskFulfillment"
	WeightFairness            = "fairness"
	WeightEfficiency          = "efficiency"
	WeightResourceUtilization = "resourceUtilization"
)

// WeightDimensions lists the five dimensions in display order.
var WeightDimensions = []string{
	WeightPriorityLevel, WeightTaskFulfillment, WeightFairness,
	WeightEfficiency, WeightResourceUtilization,
}

// PriorityWeights is the five-dimensional allocation preference vector.
type PriorityWeights struct {
	PriorityLevel       float64 `json:"priorityLevel"`
	TaskFulfillment     float64 `json:"taskFulfillment"`
	Fairness            float64 `json:"fairness"`
	Efficiency          float64 `json:"efficiency"`
	ResourceUtilization float64 `json:"resourceUtilization"`
}

// DefaultWeights is the vector a new session starts with.
var DefaultWeights = PriorityWeights{
	PriorityLevel:       0.30,
	TaskFulfillment:     0.25,
	Fairness:            0.20,
	Efficiency:          0.15,
	ResourceUtilization: 0.10,
}

// WeightTemplates are preset vectors. Each sums to 1 and is applied verbatim.
var WeightTemplates = map[string]PriorityWeights{
	"default": DefaultWeights,
	"balanced": {
		PriorityLevel: 0.2, TaskFulfillment: 0.2, Fairness: 0.2,
		Efficiency: 0.2, ResourceUtilization: 0.2,
	},
	"priority-first": {
		PriorityLevel: 0.5, TaskFulfillment: 0.2, Fairness: 0.1,
		Efficiency: 0.1, ResourceUtilization: 0.1,
	},
	"fairness-first": {
		PriorityLevel: 0.15, TaskFulfillment: 0.2, Fairness: 0.4,
		Efficiency: 0.15, ResourceUtilization: 0.1,
	},
	"efficiency-first": {
		PriorityLevel: 0.1, TaskFulfillment: 0.2, Fairness: 0.1,
		Efficiency: 0.4, ResourceUtilization: 0.2,
	},
}

// TemplateNames returns the preset names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(WeightTemplates))
	for n := range WeightTemplates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sum returns the total of the five weights.
func (w PriorityWeights) Sum() float64 {
	return w.PriorityLevel + w.TaskFulfillment + w.Fairness + w.Efficiency + w.ResourceUtilization
}

// Balanced reports whether the weights sum to 1 within WeightTolerance.
func (w PriorityWeights) Balanced() bool {
	return math.Abs(w.Sum()-1) <= WeightTolerance
}

// Get returns one weight by dimension name.
func (w PriorityWeights) Get(dim string) (float64, error) {
	p, err := w.field(dim)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// Set changes one weight and rescales all five so they sum to 1 again.
// The other weights keep their relative proportions. When the new total is
// not positive the vector is left unnormalized.
func (w PriorityWeights) Set(dim string, value float64) (PriorityWeights, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return w, fmt.Errorf("%w: %v", ErrInvalidWeight, value)
	}
	p, err := w.field(dim)
	if err != nil {
		return w, err
	}
	*p = value
	return w.Normalize(), nil
}

// Normalize divides every weight by the total.
func (w PriorityWeights) Normalize() PriorityWeights {
	total := w.Sum()
	if total <= 0 {
		return w
	}
	w.PriorityLevel /= total
	w.TaskFulfillment /= total
	w.Fairness /= total
	w.Efficiency /= total
	w.ResourceUtilization /= total
	return w
}

// Template returns a preset vector by name.
func Template(name string) (PriorityWeights, error) {
	t, ok := WeightTemplates[name]
	if !ok {
		return PriorityWeights{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// AsMap returns the weights keyed by dimension name.
func (w PriorityWeights) AsMap() map[string]float64 {
	return map[string]float64{
		WeightPriorityLevel:       w.PriorityLevel,
		WeightTaskFulfillment:     w.TaskFulfillment,
		WeightFairness:            w.Fairness,
		WeightEfficiency:          w.Efficiency,
		WeightResourceUtilization: w.ResourceUtilization,
	}
}

func (w *PriorityWeights) field(dim string) (*float64, error) {
	switch dim {
	case WeightPriorityLevel:
		return &w.PriorityLevel, nil
	case WeightTaskFulfillment:
		return &w.TaskFulfillment, nil
	case WeightFairness:
		return &w.Fairness, nil
	case WeightEfficiency:
		return &w.Efficiency, nil
	case WeightResourceUtilization:
		return &w.ResourceUtilization, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWeight, dim)
}
