// Package metrics exposes Prometheus counters and gauges updated by the
// game core's actors. The core only owns these registrations; serving
// them over /metrics is the transport layer's concern (out of scope,
// spec.md §1).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// OrdersRegistered counts orders accepted into an order book, by
	// direction (buy|sell).
	OrdersRegistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parcelec_orders_registered_total",
			Help: "Orders registered into a game's order book",
		},
		[]string{"direction"},
	)

	// TradesExecuted counts trades produced by the matching algorithm.
	TradesExecuted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parcelec_trades_executed_total",
			Help: "Trades executed across all games",
		},
	)

	// PeriodsCompleted counts delivery periods that reached PostDelivery.
	PeriodsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parcelec_periods_completed_total",
			Help: "Delivery periods settled across all games",
		},
	)

	// OpenGames is the number of games currently in a non-terminal state.
	OpenGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parcelec_open_games",
			Help: "Games currently not in the Ended state",
		},
	)

	// PlayersInGame tracks the registered player count for each active
	// game, labeled by game id.
	PlayersInGame = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parcelec_players_in_game",
			Help: "Registered players per game",
		},
		[]string{"game_id"},
	)
)

func init() {
	prometheus.MustRegister(
		OrdersRegistered,
		TradesExecuted,
		PeriodsCompleted,
		OpenGames,
		PlayersInGame,
	)
}
