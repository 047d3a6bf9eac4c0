// Package metrics exposes Prometheus instruments for the analysis service
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for analyses_total
const (
	OutcomeOK         = "ok"
	OutcomeCached     = "cached"
	OutcomeInvalid    = "invalid"
	OutcomeParseError = "parse_error"
	OutcomeError      = "error"
)

// Metrics groups the service instruments on a private registry
type Metrics struct {
	registry *prometheus.Registry

	analyses     *prometheus.CounterVec
	duration     prometheus.Histogram
	overall      prometheus.Histogram
	rateLimited  prometheus.Counter
	parseSeconds *prometheus.HistogramVec
}

// New registers every instrument, plus Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aiprobe",
			Name:      "analyses_total",
			Help:      "Analyses by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aiprobe",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		overall: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aiprobe",
			Name:      "overall_score",
			Help:      "Distribution of overall AI probability scores.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aiprobe",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		parseSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aiprobe",
			Name:      "parse_duration_seconds",
			Help:      "Parse provider latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"provider"}),
	}

	reg.MustRegister(m.analyses, m.duration, m.overall, m.rateLimited, m.parseSeconds)
	return m
}

// ObserveAnalysis records one finished analysis. overall is only recorded
// for successful outcomes.
func (m *Metrics) ObserveAnalysis(outcome string, elapsed time.Duration, overall float64) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if outcome == OutcomeOK || outcome == OutcomeCached {
		m.overall.Observe(overall)
	}
}

// ObserveParse records parse provider latency
func (m *Metrics) ObserveParse(provider string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.parseSeconds.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RateLimited counts a rejected request
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
