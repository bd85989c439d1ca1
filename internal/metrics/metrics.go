// Package metrics defines Prometheus metrics for the comparison service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics
var (
	// DatasetsIngestedTotal tracks datasets ingested into session slots.
	DatasetsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasets_ingested_total",
			Help: "Total number of datasets ingested by slot",
		},
		[]string{"slot"},
	)

	// ParseFailuresTotal tracks rejected upload documents.
	ParseFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sarif_parse_failures_total",
			Help: "Total number of SARIF documents rejected at ingestion",
		},
		[]string{"reason"},
	)
)

// Comparison metrics
var (
	// ComparisonsComputedTotal tracks snapshot computations.
	ComparisonsComputedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comparisons_computed_total",
			Help: "Total number of comparison snapshots computed",
		},
	)

	// ComparisonDuration tracks snapshot computation duration.
	ComparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "comparison_duration_seconds",
			Help:    "Comparison snapshot computation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)

// Export metrics
var (
	// ExportsTotal tracks CSV exports by sheet.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Total number of CSV exports by sheet",
		},
		[]string{"sheet"},
	)
)

// HTTP metrics
var (
	// HTTPRequestsTotal tracks HTTP requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request duration.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)
)
