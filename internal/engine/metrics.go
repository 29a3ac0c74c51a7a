package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup kinds, used as the "kind" label.
const (
	lookupDocument   = "document"
	lookupContent    = "content"
	lookupExtensions = "extensions"
)

// Metrics holds the Prometheus collectors for an Evaluator.
type Metrics struct {
	cacheLookups *prometheus.CounterVec
	evaluations  *prometheus.CounterVec
	duration     prometheus.Histogram
}

// MetricsConfig configures evaluator metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "synth").
	Namespace string

	// Subsystem is the metrics subsystem (default: "engine").
	Subsystem string

	// Buckets are the histogram buckets for evaluation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the collectors. Nil leaves them unregistered,
	// which keeps tests and embedded use free of global state.
	Registry prometheus.Registerer
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "synth",
		Subsystem: "engine",
		Buckets:   prometheus.DefBuckets,
	}
}

// NewMetrics creates the evaluator collectors and registers them with
// cfg.Registry when set.
func NewMetrics(cfg MetricsConfig) *Metrics {
	m := &Metrics{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_lookups_total",
			Help:      "Evaluation cache lookups by kind and result (hit|miss).",
		}, []string{"kind", "result"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "evaluations_total",
			Help:      "Module evaluations by outcome (ok|error).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of uncached module evaluations.",
			Buckets:   cfg.Buckets,
		}),
	}

	if cfg.Registry != nil {
		cfg.Registry.MustRegister(m.cacheLookups, m.evaluations, m.duration)
	}
	return m
}

func (m *Metrics) observeLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) observeEvaluation(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.evaluations.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(start).Seconds())
}

// CacheLookups returns the lookup counter for kind and result, for
// inspection in tests and diagnostics.
func (m *Metrics) CacheLookups(kind, result string) prometheus.Counter {
	return m.cacheLookups.WithLabelValues(kind, result)
}

// Evaluations returns the evaluation counter for outcome.
func (m *Metrics) Evaluations(outcome string) prometheus.Counter {
	return m.evaluations.WithLabelValues(outcome)
}
