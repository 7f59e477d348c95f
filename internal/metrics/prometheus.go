// Package metrics provides Prometheus metrics for the league rankings fetch pipeline.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request sources.
const (
	SourceStandings = "standings"
	SourceRound     = "round"
)

// Outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

// Manager owns the Prometheus collectors of the service. A nil *Manager is
// valid and records nothing, so callers never need to guard metric calls.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Upstream requests
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Fetch cycles
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	cycleProgress prometheus.Gauge
	roundsLoaded  prometheus.Gauge
	roundFailures prometheus.Counter
	teams         prometheus.Gauge
}

// NewManager creates a metrics manager on its own registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "liga",
		subsystem:        "rankings",
		histogramBuckets: prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates and registers all collectors.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.requests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Requests sent to the league site, by source and outcome",
	}, []string{"source", "outcome"})

	m.requestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests sent to the league site",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.cycles = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_cycles_total",
		Help:      "Completed fetch cycles by final status",
	}, []string{"status"})

	m.cycleDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_cycle_duration_seconds",
		Help:      "Wall time of a full fetch cycle",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	m.cycleProgress = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_cycle_progress_percent",
		Help:      "Progress of the running fetch cycle",
	})

	m.roundsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_loaded",
		Help:      "Rounds present in the latest rankings, season totals included",
	})

	m.roundFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "round_failures_total",
		Help:      "Rounds dropped from a cycle because every team request failed",
	})

	m.teams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams",
		Help:      "Teams in the season standings",
	})
}

// Registry returns the registry holding the collectors.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one upstream request.
func (m *Manager) ObserveRequest(source string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	switch {
	case errors.Is(err, context.Canceled):
		outcome = OutcomeCancelled
	case err != nil:
		outcome = OutcomeError
	}
	m.requests.WithLabelValues(source, outcome).Inc()
	m.requestDuration.WithLabelValues(source).Observe(d.Seconds())
}

// SetProgress records the running cycle's progress.
func (m *Manager) SetProgress(percent int) {
	if m == nil {
		return
	}
	m.cycleProgress.Set(float64(percent))
}

// CycleFinished records a finished cycle and its duration.
func (m *Manager) CycleFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(status).Inc()
	m.cycleDuration.Observe(d.Seconds())
}

// RoundFailed counts a round dropped from a cycle.
func (m *Manager) RoundFailed() {
	if m == nil {
		return
	}
	m.roundFailures.Inc()
}

// SetRankingsSize records how many rounds and teams the latest rankings hold.
func (m *Manager) SetRankingsSize(rounds, teams int) {
	if m == nil {
		return
	}
	m.roundsLoaded.Set(float64(rounds))
	m.teams.Set(float64(teams))
}
