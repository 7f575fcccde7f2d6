// Package ids defines the opaque, globally unique identifier types used
// across the game core: GameId, PlayerId, PlantId, OrderId, and the
// signed, totally ordered DeliveryPeriodId.
package ids

import "github.com/google/uuid"

// GameId identifies one running game.
type GameId string

// NewGameId mints a fresh, globally unique game id.
func NewGameId() GameId { return GameId(uuid.NewString()) }

func (id GameId) String() string { return string(id) }

// IsZero reports whether id is the unset value.
func (id GameId) IsZero() bool { return id == "" }

// PlayerId identifies one player within a game.
type PlayerId string

// NewPlayerId mints a fresh, globally unique player id.
func NewPlayerId() PlayerId { return PlayerId(uuid.NewString()) }

func (id PlayerId) String() string { return string(id) }

func (id PlayerId) IsZero() bool { return id == "" }

// PlantId identifies one power plant within a player's stack.
type PlantId string

// NewPlantId mints a fresh, globally unique plant id.
func NewPlantId() PlantId { return PlantId(uuid.NewString()) }

func (id PlantId) String() string { return string(id) }

func (id PlantId) IsZero() bool { return id == "" }

// OrderId identifies one order submitted to the market.
type OrderId string

// NewOrderId mints a fresh, globally unique order id.
func NewOrderId() OrderId { return OrderId(uuid.NewString()) }

func (id OrderId) String() string { return string(id) }

func (id OrderId) IsZero() bool { return id == "" }

// DeliveryPeriodId is a signed, totally ordered period counter.
// Period 0 is the pre-game sentinel; periods 1..=N are played.
type DeliveryPeriodId int

// PreGame is the sentinel period before the first delivery period starts.
const PreGame DeliveryPeriodId = 0

// Next returns the successor period.
func (p DeliveryPeriodId) Next() DeliveryPeriodId { return p + 1 }

// IsPreGame reports whether p is the pre-game sentinel.
func (p DeliveryPeriodId) IsPreGame() bool { return p == PreGame }

// Before reports whether p occurs strictly before other.
func (p DeliveryPeriodId) Before(other DeliveryPeriodId) bool { return p < other }
