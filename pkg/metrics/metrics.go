// Package metrics exposes contact service counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for Submissions.
const (
	OutcomeAccepted    = "accepted"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeFailed      = "failed"
)

// Metrics bundles the collectors of one server instance on its own registry.
type Metrics struct {
	registry         *prometheus.Registry
	Submissions      *prometheus.CounterVec
	EmailErrors      *prometheus.CounterVec
	LimiterFallbacks prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		EmailErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "contact",
			Name:      "email_errors_total",
			Help:      "Mails that could not be sent, by kind.",
		}, []string{"kind"}),
		LimiterFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portfolio",
			Subsystem: "contact",
			Name:      "rate_limiter_fallbacks_total",
			Help:      "Requests rate limited in memory because Redis failed.",
		}),
	}
	reg.MustRegister(
		m.Submissions,
		m.EmailErrors,
		m.LimiterFallbacks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Submission counts one contact attempt. Safe on a nil *Metrics.
func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// EmailError counts one failed mail. Safe on a nil *Metrics.
func (m *Metrics) EmailError(kind string) {
	if m == nil {
		return
	}
	m.EmailErrors.WithLabelValues(kind).Inc()
}

// LimiterFallback counts one switch to the in-memory limiter. Safe on a nil *Metrics.
func (m *Metrics) LimiterFallback() {
	if m == nil {
		return
	}
	m.LimiterFallbacks.Inc()
}
