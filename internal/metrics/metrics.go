// Package metrics defines the Prometheus collectors of the generation
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for GenerationsTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the collectors. A nil *Metrics records nothing, so
// components can take one optionally.
type Metrics struct {
	StepDuration            *prometheus.HistogramVec
	GenerationsTotal        *prometheus.CounterVec
	LLMRetriesTotal         *prometheus.CounterVec
	DegradedResultsTotal    *prometheus.CounterVec
	SequenceClassifications *prometheus.CounterVec
}

// New registers the collectors on reg. Use prometheus.NewRegistry() in
// tests and prometheus.DefaultRegisterer in the binary.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StepDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "puzzlegen_step_duration_seconds",
				Help:    "Duration of each generation step in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"step", "puzzle_type"},
		),
		GenerationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "puzzlegen_generations_total",
				Help: "Total number of complete quiz generations by outcome",
			},
			[]string{"puzzle_type", "outcome"},
		),
		LLMRetriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "puzzlegen_llm_retries_total",
				Help: "Total number of retried text generation calls",
			},
			[]string{"model"},
		),
		DegradedResultsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "puzzlegen_degraded_results_total",
				Help: "Total number of quizzes built from placeholder content",
			},
			[]string{"puzzle_type"},
		),
		SequenceClassifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "puzzlegen_sequence_classifications_total",
				Help: "Total number of number sequences classified, by detected kind",
			},
			[]string{"kind"},
		),
	}
}

// ObserveStep records how long one step took.
func (m *Metrics) ObserveStep(step, puzzleType string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepDuration.WithLabelValues(step, puzzleType).Observe(d.Seconds())
}

// ObserveGeneration counts a finished generation.
func (m *Metrics) ObserveGeneration(puzzleType string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.GenerationsTotal.WithLabelValues(puzzleType, outcome).Inc()
}

// ObserveRetry counts one retried LLM call. It makes *Metrics an
// llm.RetryObserver.
func (m *Metrics) ObserveRetry(model string) {
	if m == nil {
		return
	}
	m.LLMRetriesTotal.WithLabelValues(model).Inc()
}

// ObserveDegraded counts a quiz built from placeholder content.
func (m *Metrics) ObserveDegraded(puzzleType string) {
	if m == nil {
		return
	}
	m.DegradedResultsTotal.WithLabelValues(puzzleType).Inc()
}

// ObserveClassification counts a sequence classification.
func (m *Metrics) ObserveClassification(kind string) {
	if m == nil {
		return
	}
	m.SequenceClassifications.WithLabelValues(kind).Inc()
}
