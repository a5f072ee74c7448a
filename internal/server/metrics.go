package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the synthesis server.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SynthesisRunsTotal  *prometheus.CounterVec
	SynthesisDuration   prometheus.Histogram
	SynthesisSegments   prometheus.Histogram
	SynthesisTerminals  prometheus.Histogram
	PruneIterations     prometheus.Histogram
	PruneNonConvergence prometheus.Counter

	CacheOperationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics registry with all collectors initialized.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatnet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "heatnet_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	m.SynthesisRunsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatnet_synthesis_runs_total",
			Help: "Total number of synthesis runs",
		},
		[]string{"status"},
	)
	m.SynthesisDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatnet_synthesis_duration_seconds",
			Help:    "Synthesis pipeline wall-clock duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	m.SynthesisSegments = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatnet_synthesis_segments",
			Help:    "Segment count per synthesized network",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)
	m.SynthesisTerminals = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatnet_synthesis_terminals",
			Help:    "Terminal count per synthesis request",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
		},
	)
	m.PruneIterations = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heatnet_prune_iterations",
			Help:    "Dead-end pruning passes per run",
			Buckets: []float64{1, 2, 3, 5, 8, 10, 20},
		},
	)
	m.PruneNonConvergence = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "heatnet_prune_nonconvergence_total",
			Help: "Runs whose pruning hit the iteration cap",
		},
	)

	m.CacheOperationsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatnet_cache_operations_total",
			Help: "Result cache operations by type and outcome",
		},
		[]string{"key_type", "outcome"},
	)

	return m
}

// Registry returns the underlying prometheus registry for the /metrics
// handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
