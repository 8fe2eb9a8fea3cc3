package database

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess  = "success"
	outcomeConflict = "conflict"
	outcomeTimeout  = "timeout"
	outcomeError    = "error"
)

// Metrics tracks statement latency and outcomes per operation and pool.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
}

// NewMetrics creates the storage collectors and registers them on reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "listkeeper",
			Subsystem: "storage",
			Name:      "statement_duration_seconds",
			Help:      "Duration of storage statements by operation and pool.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"operation", "pool"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "listkeeper",
			Subsystem: "storage",
			Name:      "statements_total",
			Help:      "Storage statements by operation, pool and outcome.",
		}, []string{"operation", "pool", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.duration, m.results)
	}
	return m
}

// Observe records a finished statement.
func (m *Metrics) Observe(operation, pool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation, pool).Observe(elapsed.Seconds())
	m.results.WithLabelValues(operation, pool, outcome).Inc()
}
