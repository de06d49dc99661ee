package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for a session service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	filesUploaded      *prometheus.CounterVec
	issuesFound        *prometheus.CounterVec
	validationDuration prometheus.Histogram
	ruleEvaluations    prometheus.Counter
	searches           *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass nil to create unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		filesUploaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapilot",
			Name:      "files_uploaded_total",
			Help:      "Uploaded files by outcome (accepted or rejected).",
		}, []string{"result"}),
		issuesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapilot",
			Name:      "validation_issues_total",
			Help:      "Validation issues emitted by kind and severity.",
		}, []string{"kind", "severity"}),
		validationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "datapilot",
			Name:      "validation_duration_seconds",
			Help:      "Time spent validating one file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		ruleEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "datapilot",
			Name:      "rule_evaluations_total",
			Help:      "Rule evaluation passes over a file.",
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datapilot",
			Name:      "searches_total",
			Help:      "Row searches by mode.",
		}, []string{"mode"}),
	}

	if reg != nil {
		reg.MustRegister(m.filesUploaded, m.issuesFound, m.validationDuration, m.ruleEvaluations, m.searches)
	}
	return m
}

func (m *Metrics) observeUpload(ok bool) {
	if m == nil {
		return
	}
	result := "accepted"
	if !ok {
		result = "rejected"
	}
	m.filesUploaded.WithLabelValues(result).Inc()
}

func (m *Metrics) observeValidation(issues []ValidationIssue, took time.Duration) {
	if m == nil {
		return
	}
	m.validationDuration.Observe(took.Seconds())
	for _, is := range issues {
		m.issuesFound.WithLabelValues(string(is.Kind), string(is.Severity)).Inc()
	}
}

func (m *Metrics) observeRuleEvaluation() {
	if m == nil {
		return
	}
	m.ruleEvaluations.Inc()
}

func (m *Metrics) observeSearch(mode SearchMode) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(string(mode)).Inc()
}
