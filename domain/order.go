// Package domain holds the order book's core value types: orders, trades,
// and trade legs. These are pure data — matching logic lives in the
// orderbook package.
package domain

import (
	"container/list"
	"time"

	"parcelec-core/ids"
	"parcelec-core/units"
)

// Direction is the side of an order or trade leg.
type Direction int

const (
	Buy Direction = iota
	Sell
)

func (d Direction) String() string {
	if d == Buy {
		return "buy"
	}
	return "sell"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}

// Order is a resting or incoming order in a game's market.
//
// Volume must stay strictly positive for the lifetime of the order in
// the book; once filled to zero it is removed rather than retained.
type Order struct {
	ID        ids.OrderId
	Owner     ids.PlayerId
	Direction Direction
	Price     units.EnergyCost
	Volume    units.Energy
	CreatedAt time.Time

	// seq is the order's insertion number within its book, assigned by
	// the owning OrderBook when the order comes to rest. The book does
	// not read it: equal-price orders keep time priority through their
	// price level's FIFO queue, which holds them in this same order.
	seq uint64

	// element caches this order's position in its price level's FIFO
	// queue for O(1) removal, mirroring how the original matching
	// engine's Order.ListElement avoids a linear scan on cancel.
	element *list.Element
}

// NewOrder constructs an incoming order request. seq and element are
// assigned once the order is registered with an OrderBook.
func NewOrder(owner ids.PlayerId, direction Direction, price units.EnergyCost, volume units.Energy) *Order {
	return &Order{
		ID:        ids.NewOrderId(),
		Owner:     owner,
		Direction: direction,
		Price:     price,
		Volume:    volume,
		CreatedAt: time.Now(),
	}
}

// Fill reduces the order's resting volume by qty. qty must not exceed
// Volume.
func (o *Order) Fill(qty units.Energy) {
	o.Volume -= qty
}

// IsFilled reports whether the order has no remaining volume.
func (o *Order) IsFilled() bool {
	return o.Volume <= 0
}

// Seq returns the book-assigned insertion sequence number.
func (o *Order) Seq() uint64 { return o.seq }

// SetSeq is called once by OrderBook.RegisterOrder to stamp the order
// with its insertion sequence number.
func (o *Order) SetSeq(seq uint64) { o.seq = seq }

// Element returns this order's cached position within its price
// level's FIFO queue, or nil if it isn't currently resting in a book.
func (o *Order) Element() *list.Element { return o.element }

// SetElement is called by the owning PriceLevels when the order is
// inserted into or removed from a price level's FIFO queue.
func (o *Order) SetElement(e *list.Element) { o.element = e }
