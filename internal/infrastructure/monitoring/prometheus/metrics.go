// Package prometheus exposes pipeline and HTTP metrics.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "molsift"

// Metrics holds every collector the evaluation pipeline reports to.  All
// methods are nil-safe so callers that run without monitoring can pass a nil
// *Metrics instead of threading a no-op implementation around.
type Metrics struct {
	registry *prometheus.Registry

	compoundsProcessed prometheus.Counter
	compoundsSkipped   prometheus.Counter
	ruleViolations     *prometheus.CounterVec
	evaluateDuration   prometheus.Histogram
}

// NewMetrics builds a Metrics set on its own registry, so tests and repeated
// pipeline invocations never collide on duplicate registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		compoundsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compounds_processed_total",
			Help:      "Number of compounds successfully evaluated.",
		}),
		compoundsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compounds_skipped_total",
			Help:      "Number of input records skipped due to invalid structures.",
		}),
		ruleViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_violations_total",
			Help:      "Number of rule criteria violations, by rule set.",
		}, []string{"rule"}),
		evaluateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluate_duration_seconds",
			Help:      "Wall time spent computing descriptors and verdicts per compound.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	reg.MustRegister(
		m.compoundsProcessed,
		m.compoundsSkipped,
		m.ruleViolations,
		m.evaluateDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for test gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CompoundProcessed records one successfully evaluated compound.
func (m *Metrics) CompoundProcessed() {
	if m == nil {
		return
	}
	m.compoundsProcessed.Inc()
}

// CompoundSkipped records one skipped input record.
func (m *Metrics) CompoundSkipped() {
	if m == nil {
		return
	}
	m.compoundsSkipped.Inc()
}

// RuleViolations records n breached criteria for the named rule set.
func (m *Metrics) RuleViolations(rule string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ruleViolations.WithLabelValues(rule).Add(float64(n))
}

// ObserveEvaluateDuration records the per-compound evaluation latency.
func (m *Metrics) ObserveEvaluateDuration(seconds float64) {
	if m == nil {
		return
	}
	m.evaluateDuration.Observe(seconds)
}
