package server

import (
	"context"
	"time"

	"github.com/hausweber/heatnet/pkg/observability"
)

// promSynthesisHooks feeds synthesis events into the prometheus registry.
type promSynthesisHooks struct {
	metrics *Metrics
}

func (h promSynthesisHooks) OnRunStart(_ context.Context, _, terminals int) {
	h.metrics.SynthesisTerminals.Observe(float64(terminals))
}

func (h promSynthesisHooks) OnRunComplete(_ context.Context, segments int, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.metrics.SynthesisRunsTotal.WithLabelValues(status).Inc()
	h.metrics.SynthesisDuration.Observe(duration.Seconds())
	if err == nil {
		h.metrics.SynthesisSegments.Observe(float64(segments))
	}
}

func (h promSynthesisHooks) OnPrune(_ context.Context, iterations, _ int, converged bool) {
	h.metrics.PruneIterations.Observe(float64(iterations))
	if !converged {
		h.metrics.PruneNonConvergence.Inc()
	}
}

// promCacheHooks feeds cache events into the prometheus registry.
type promCacheHooks struct {
	metrics *Metrics
}

func (h promCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.metrics.CacheOperationsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h promCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.metrics.CacheOperationsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h promCacheHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.metrics.CacheOperationsTotal.WithLabelValues(keyType, "set").Inc()
}

// registerHooks installs the prometheus-backed observability hooks.
func registerHooks(m *Metrics) {
	observability.SetSynthesisHooks(promSynthesisHooks{metrics: m})
	observability.SetCacheHooks(promCacheHooks{metrics: m})
}
