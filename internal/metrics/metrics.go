package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the quiz collectors.
type Metrics struct {
	GamesStarted   *prometheus.CounterVec
	GamesFinished  *prometheus.CounterVec
	GamesAbandoned *prometheus.CounterVec
	Answers        *prometheus.CounterVec
	ScorePercent   *prometheus.HistogramVec
	ActivePlayers  prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trivia",
				Name:      "games_started_total",
				Help:      "Games started, by category",
			},
			[]string{"category"},
		),
		GamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trivia",
				Name:      "games_finished_total",
				Help:      "Games played to the last question, by category",
			},
			[]string{"category"},
		),
		GamesAbandoned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trivia",
				Name:      "games_abandoned_total",
				Help:      "Games left before the last question, by category",
			},
			[]string{"category"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trivia",
				Name:      "answers_total",
				Help:      "Revealed answers, by outcome",
			},
			[]string{"outcome"},
		),
		ScorePercent: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trivia",
				Name:      "final_score_percent",
				Help:      "Final score percentage of finished games",
				Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
			[]string{"category"},
		),
		ActivePlayers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "trivia",
				Name:      "active_players",
				Help:      "Players with an open connection",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.GamesStarted,
			m.GamesFinished,
			m.GamesAbandoned,
			m.Answers,
			m.ScorePercent,
			m.ActivePlayers,
		)
	}
	return m
}
