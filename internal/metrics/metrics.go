// Package metrics holds the Prometheus collectors for the matchmaker.
// Each Metrics owns its own registry so several instances can coexist in tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rps"

// Outcome label values for GamesResolved
const (
	OutcomeWin  = "win"
	OutcomeDraw = "draw"
)

// Metrics is the set of collectors exported on /metrics
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	PlayersJoined  prometheus.Counter
	GamesStarted   prometheus.Counter
	GamesResolved  *prometheus.CounterVec
	PlayersEvicted prometheus.Counter
	GamesPruned    prometheus.Counter
	PlayersOnline  prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served, by route and status code",
			},
			[]string{"method", "route", "status"},
		),
		PlayersJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_joined_total",
			Help:      "Players that have joined",
		}),
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games created",
		}),
		GamesResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "games_resolved_total",
				Help:      "Games resolved, by outcome",
			},
			[]string{"outcome"},
		),
		PlayersEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_evicted_total",
			Help:      "Players removed for inactivity",
		}),
		GamesPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_pruned_total",
			Help:      "Game records dropped after the retention window",
		}),
		PlayersOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_online",
			Help:      "Players currently registered",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.PlayersJoined,
		m.GamesStarted,
		m.GamesResolved,
		m.PlayersEvicted,
		m.GamesPruned,
		m.PlayersOnline,
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveResolution counts a resolved game
func (m *Metrics) ObserveResolution(draw bool) {
	if draw {
		m.GamesResolved.WithLabelValues(OutcomeDraw).Inc()
		return
	}
	m.GamesResolved.WithLabelValues(OutcomeWin).Inc()
}
