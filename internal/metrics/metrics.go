// Package metrics exposes Prometheus counters for parsing and validation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultMatch = "match"
	ResultMiss  = "mismatch"
)

var (
	// FormulasParsed counts parse attempts by source and outcome.
	FormulasParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formula_parsed_total",
		Help: "Total formula parse attempts by source and result",
	}, []string{"source", "result"})

	// FormulasValidated counts terminal validation states.
	FormulasValidated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formula_validation_total",
		Help: "Total formulas by source and terminal validation state",
	}, []string{"source", "state"})

	Comparisons = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formula_comparisons_total",
		Help: "Total evaluated terms compared against expected values",
	}, []string{"result"})

	EvalDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "formula_eval_duration_seconds",
		Help:    "Time to evaluate one formula over all checked indices",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})
)

func ObserveParse(source string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	FormulasParsed.WithLabelValues(source, result).Inc()
}

func ObserveValidation(source, state string, matches, mismatches int, elapsed time.Duration) {
	FormulasValidated.WithLabelValues(source, state).Inc()
	if matches > 0 {
		Comparisons.WithLabelValues(ResultMatch).Add(float64(matches))
	}
	if mismatches > 0 {
		Comparisons.WithLabelValues(ResultMiss).Add(float64(mismatches))
	}
	if elapsed > 0 {
		EvalDuration.Observe(elapsed.Seconds())
	}
}
