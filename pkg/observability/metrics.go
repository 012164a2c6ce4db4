// Package observability exposes the application's Prometheus metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics handles application metrics and monitoring
type Metrics struct {
	GraphMutations *prometheus.CounterVec
	FlushTotal     prometheus.Counter
	AIRequests     *prometheus.CounterVec
	AILatency      *prometheus.HistogramVec
}

// NewMetrics creates and registers the metric set on the given registry
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GraphMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripboard",
			Name:      "graph_mutations_total",
			Help:      "Graph store mutations by operation.",
		}, []string{"operation"}),
		FlushTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripboard",
			Name:      "persistence_flushes_total",
			Help:      "Debounced persistence flushes performed.",
		}),
		AIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripboard",
			Name:      "ai_requests_total",
			Help:      "AI orchestrator requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		AILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tripboard",
			Name:      "ai_request_duration_seconds",
			Help:      "AI request round-trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
	}

	reg.MustRegister(m.GraphMutations, m.FlushTotal, m.AIRequests, m.AILatency)
	return m
}

// NewNopMetrics returns an unregistered metric set for tests
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// RecordMutation counts a graph store mutation
func (m *Metrics) RecordMutation(operation string) {
	if m == nil {
		return
	}
	m.GraphMutations.WithLabelValues(operation).Inc()
}

// RecordFlush counts a persistence flush
func (m *Metrics) RecordFlush() {
	if m == nil {
		return
	}
	m.FlushTotal.Inc()
}

// RecordAIRequest counts an AI request and observes its latency
func (m *Metrics) RecordAIRequest(mode, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.AIRequests.WithLabelValues(mode, outcome).Inc()
	m.AILatency.WithLabelValues(mode).Observe(duration.Seconds())
}
