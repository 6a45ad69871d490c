package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chart_mole_analyses_total",
			Help: "Total number of analysis requests by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chart_mole_generation_duration_seconds",
			Help:    "Duration of text-generation calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		// model is the configured model, never a per-request override.
		[]string{"provider", "model"},
	)

	InterpretationSource = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chart_mole_interpretation_source_total",
			Help: "Number of results by interpretation strategy",
		},
		[]string{"source"},
	)

	TokensUsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chart_mole_tokens_used_total",
			Help: "Total tokens reported by the generation service",
		},
	)
)

const (
	OutcomeSuccess       = "success"
	OutcomeSkipped       = "skipped"
	OutcomeRejected      = "rejected"
	OutcomeEmptyResponse = "empty_response"
	OutcomeServiceError  = "service_error"
)
