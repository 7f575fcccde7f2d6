package orderbook

import (
	"parcelec-core/domain"
	"parcelec-core/ids"
	"parcelec-core/units"
)

// OwnedOrder is a resting order annotated with whether it belongs to
// the player requesting a Snapshot, per spec.md §4.2's per-player OBS
// personalisation.
type OwnedOrder struct {
	domain.Order
	Owned bool
}

// Snapshot is a read-only view of both sides of the book: bids sorted
// descending by price, offers ascending, equal-price orders ordered by
// arrival.
type Snapshot struct {
	Bids   []OwnedOrder
	Offers []OwnedOrder
}

// OrderBook is a single game's continuous double-auction order book.
// It is not safe for concurrent use — per spec.md §4.1 it is owned and
// mutated exclusively by the MarketActor that wraps it.
type OrderBook struct {
	bids   *priceLevels
	offers *priceLevels
	trades []domain.Trade
	seq    uint64
}

// New creates an empty order book.
func New() *OrderBook {
	return &OrderBook{
		bids:   newPriceLevels(true),
		offers: newPriceLevels(false),
	}
}

func (ob *OrderBook) sideFor(d domain.Direction) *priceLevels {
	if d == domain.Buy {
		return ob.bids
	}
	return ob.offers
}

func (ob *OrderBook) oppositeSideFor(d domain.Direction) *priceLevels {
	return ob.sideFor(d.Opposite())
}

// crosses reports whether an incoming order at price p, direction d,
// can trade against the opposite side's best resting price.
func crosses(d domain.Direction, p units.EnergyCost, bestOpposite units.EnergyCost) bool {
	if d == domain.Buy {
		return p >= bestOpposite
	}
	return p <= bestOpposite
}

// RegisterOrder runs the matching algorithm from spec.md §4.1 against
// order, registering any residual volume in the book. It returns every
// trade produced, in execution order.
func (ob *OrderBook) RegisterOrder(order *domain.Order) []domain.Trade {
	var trades []domain.Trade
	opposite := ob.oppositeSideFor(order.Direction)

	for !order.IsFilled() {
		restingOrder := opposite.best()
		if restingOrder == nil {
			break
		}
		bestOpposite, _ := opposite.bestPrice()
		if !crosses(order.Direction, order.Price, bestOpposite) {
			break
		}

		fillQty := order.Volume
		if restingOrder.Volume < fillQty {
			fillQty = restingOrder.Volume
		}

		trade := ob.executeTrade(order, restingOrder, fillQty, restingOrder.Price)
		trades = append(trades, trade)

		order.Fill(fillQty)
		restingOrder.Fill(fillQty)

		if restingOrder.IsFilled() {
			opposite.remove(restingOrder)
		}
	}

	if !order.IsFilled() {
		ob.insert(order)
	}

	return trades
}

func (ob *OrderBook) insert(order *domain.Order) {
	ob.seq++
	order.SetSeq(ob.seq)
	side := ob.sideFor(order.Direction)
	order.SetElement(side.insert(order))
}

func (ob *OrderBook) executeTrade(incoming, resting *domain.Order, volume units.Energy, price units.EnergyCost) domain.Trade {
	var buyer, seller ids.PlayerId
	if incoming.Direction == domain.Buy {
		buyer, seller = incoming.Owner, resting.Owner
	} else {
		buyer, seller = resting.Owner, incoming.Owner
	}
	trade := domain.NewTrade(buyer, seller, volume, price)
	ob.trades = append(ob.trades, trade)
	return trade
}

// RemoveOrder silently removes order from whichever side holds it. It
// produces no trades.
func (ob *OrderBook) RemoveOrder(order *domain.Order) {
	ob.sideFor(order.Direction).remove(order)
}

// Snapshot returns a read-only, player-personalised view of the book.
func (ob *OrderBook) Snapshot(requester ids.PlayerId) Snapshot {
	return Snapshot{
		Bids:   ownedOrders(ob.bids.snapshot(), requester),
		Offers: ownedOrders(ob.offers.snapshot(), requester),
	}
}

func ownedOrders(orders []*domain.Order, requester ids.PlayerId) []OwnedOrder {
	out := make([]OwnedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, OwnedOrder{Order: *o, Owned: o.Owner == requester})
	}
	return out
}

// Drain returns the trade list accumulated since the last Drain and
// clears both order queues and the trade list, per spec.md §4.1 (used
// on market close).
func (ob *OrderBook) Drain() []domain.Trade {
	trades := ob.trades
	ob.trades = nil
	ob.bids.clear()
	ob.offers.clear()
	return trades
}

// IsEmpty reports whether both sides of the book are empty.
func (ob *OrderBook) IsEmpty() bool {
	return ob.bids.isEmpty() && ob.offers.isEmpty()
}

// IsCrossed reports whether the book violates the uncrossed-book
// invariant (spec.md §8 invariant 1): some bid priced at or above some
// offer.
func (ob *OrderBook) IsCrossed() bool {
	bestBid, hasBid := ob.bids.bestPrice()
	bestOffer, hasOffer := ob.offers.bestPrice()
	if !hasBid || !hasOffer {
		return false
	}
	return bestBid >= bestOffer
}
