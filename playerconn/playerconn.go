// Package playerconn declares the boundary between the game core and
// whatever transport layer actually talks to players (spec.md §6). The
// core only ever calls PlayerConnections; how messages reach a browser
// or a bot is out of scope here.
package playerconn

import (
	"parcelec-core/domain"
	"parcelec-core/ids"
	"parcelec-core/orderbook"
	"parcelec-core/plant"
	"parcelec-core/scoring"
)

// PlayerConnections is the fan-out surface the core pushes state and
// events through. Implementations are best-effort: a player with no
// live connection silently drops the message.
type PlayerConnections interface {
	SendToPlayer(game ids.GameId, player ids.PlayerId, message PlayerMessage)
	SendToAllPlayers(game ids.GameId, message PlayerMessage)
}

// GameState mirrors GameActor's top-level state machine for snapshot
// broadcasts to newly-joined or reconnecting clients.
type GameState struct {
	Phase  string
	Period ids.DeliveryPeriodId
}

// MarketState mirrors MarketActor's Open/Closed state.
type MarketState struct {
	Open   bool
	Period ids.DeliveryPeriodId
}

// StackState mirrors StackActor's Open/Closed state.
type StackState struct {
	Open   bool
	Period ids.DeliveryPeriodId
}

// OrderBookSnapshot is a player-personalised view of the market.
type OrderBookSnapshot struct {
	Period ids.DeliveryPeriodId
	Bids   []orderbook.OwnedOrder
	Offers []orderbook.OwnedOrder
}

// TradeList carries every trade a player has been party to so far.
type TradeList struct {
	Period ids.DeliveryPeriodId
	Trades []domain.Trade
}

// NewTrade is pushed to each counterparty of a freshly executed trade,
// carrying that counterparty's own view of it.
type NewTrade struct {
	Period ids.DeliveryPeriodId
	Leg    domain.TradeLeg
}

// StackSnapshot carries the public state of every plant in a player's
// stack.
type StackSnapshot struct {
	Period ids.DeliveryPeriodId
	Plants map[ids.PlantId]any
}

// StackForecasts carries the forecasts exposed by a player's
// forecast-bearing plants.
type StackForecasts struct {
	Period   ids.DeliveryPeriodId
	Forecast map[ids.PlantId][]plant.Forecast
}

// DeliveryPeriodResults is pushed to a player once their period score
// is available.
type DeliveryPeriodResults struct {
	Period ids.DeliveryPeriodId
	Score  scoring.PlayerScore
}

// GameResults is broadcast once the game ends.
type GameResults struct {
	Rankings []scoring.Ranking
}

// ReadinessStatus carries the current name -> ready map.
type ReadinessStatus struct {
	Readiness map[string]bool
}

// PlayerMessage is the closed set of messages the core can push to a
// player, per spec.md §6. It carries no serialisation concerns —
// turning a PlayerMessage into wire bytes is the transport's job.
type PlayerMessage struct {
	GameState             *GameState
	MarketState           *MarketState
	StackState            *StackState
	OrderBookSnapshot     *OrderBookSnapshot
	TradeList             *TradeList
	NewTrade              *NewTrade
	StackSnapshot         *StackSnapshot
	StackForecasts        *StackForecasts
	DeliveryPeriodResults *DeliveryPeriodResults
	GameResults           *GameResults
	ReadinessStatus       *ReadinessStatus
}
