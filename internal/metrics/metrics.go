// Package metrics exposes Prometheus counters for gameplay.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Guess outcome labels.
const (
	OutcomeAccepted  = "accepted"
	OutcomeNotFound  = "not_found"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
)

// Metrics owns a private registry so several servers (e.g. in tests) can coexist.
type Metrics struct {
	reg *prometheus.Registry

	GamesStarted *prometheus.CounterVec
	Guesses      *prometheus.CounterVec
	Wins         *prometheus.CounterVec
	GuessesToWin prometheus.Histogram
	SuggestCalls prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		GamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huadle_games_started_total",
			Help: "Games started, by mode (classic or daily).",
		}, []string{"mode"}),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huadle_guesses_total",
			Help: "Guess submissions, by outcome.",
		}, []string{"outcome"}),
		Wins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huadle_wins_total",
			Help: "Games won, by mode.",
		}, []string{"mode"}),
		GuessesToWin: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "huadle_guesses_to_win",
			Help:    "Accepted guesses needed to win.",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20},
		}),
		SuggestCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "huadle_suggest_requests_total",
			Help: "Autocomplete requests served.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.GamesStarted, m.Guesses, m.Wins, m.GuessesToWin, m.SuggestCalls,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveWin records a finished game.
func (m *Metrics) ObserveWin(mode string, guesses int) {
	m.Wins.WithLabelValues(mode).Inc()
	m.GuessesToWin.Observe(float64(guesses))
}
