package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	gamesCreatedCounter    prometheus.Counter
	rollsCounter           prometheus.Counter
	skippedTurnsCounter    prometheus.Counter
	tripleWildsCounter     prometheus.Counter
	rejectedCounter        *prometheus.CounterVec
	eliminationsCounter    prometheus.Counter
	gamesEndedCounter      prometheus.Counter
	potPayoutHistogram     prometheus.Histogram
	activeGamesCountGauge  prometheus.Gauge
	scanDiagnosticsCounter prometheus.Counter
}

func (m *metrics) GameCreated() {
	m.gamesCreatedCounter.Inc()
}

func (m *metrics) DiceRolled() {
	m.rollsCounter.Inc()
}

func (m *metrics) TurnSkipped() {
	m.skippedTurnsCounter.Inc()
}

func (m *metrics) TripleWild() {
	m.tripleWildsCounter.Inc()
}

func (m *metrics) Rejected(kind string) {
	m.rejectedCounter.WithLabelValues(kind).Inc()
}

func (m *metrics) SeatEliminated() {
	m.eliminationsCounter.Inc()
}

func (m *metrics) GameEnded(pot int) {
	m.gamesEndedCounter.Inc()
	m.potPayoutHistogram.Observe(float64(pot))
}

func (m *metrics) SetActiveGamesCount(count int) {
	m.activeGamesCountGauge.Set(float64(count))
}

func (m *metrics) ScanDiagnostic() {
	m.scanDiagnosticsCounter.Inc()
}

var Metrics = &metrics{
	gamesCreatedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hubdice_games_created_total",
		Help: "Total number of games created",
	}),
	rollsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hubdice_rolls_total",
		Help: "Total number of accepted dice rolls",
	}),
	skippedTurnsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hubdice_skipped_turns_total",
		Help: "Total number of turns skipped because the seat had no chips",
	}),
	tripleWildsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hubdice_triple_wilds_total",
		Help: "Total number of rolls with three wild faces",
	}),
	rejectedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hubdice_rejected_operations_total",
		Help: "Rejected operations by error kind",
	}, []string{"kind"}),
	eliminationsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hubdice_eliminations_total",
		Help: "Total number of eliminated seats",
	}),
	gamesEndedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hubdice_games_ended_total",
		Help: "Total number of games that reached game over",
	}),
	potPayoutHistogram: promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hubdice_pot_payout_chips",
		Help:    "Pot size awarded to the winner",
		Buckets: prometheus.LinearBuckets(0, 2, 7),
	}),
	activeGamesCountGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hubdice_active_games",
		Help: "Count of the entries in the game manager activeGames map",
	}),
	scanDiagnosticsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hubdice_turn_scan_diagnostics_total",
		Help: "Turn advancement scans that found no eligible seat",
	}),
}
