// Package orderbook implements the continuous double-auction order book
// described in spec.md §4.1: price/time priority matching with partial
// fills, a per-period trade list, and order-book invariants enforced on
// every mutation.
package orderbook

import (
	"container/list"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"parcelec-core/domain"
	"parcelec-core/units"
)

// priceLevel holds every resting order at one price, in arrival order.
type priceLevel struct {
	price  units.EnergyCost
	orders *list.List // FIFO of *domain.Order — time priority within a price
}

// priceLevels is one side of an order book (bids or offers): an ordered
// map from price to the FIFO queue resting at that price, kept in
// "best first" order by a direction-aware comparator.
//
// Adapted from the teacher's HashMapListPriceTree / ShardedPriceTree:
// the same ordered-price-to-FIFO-queue shape, collapsed into a single
// non-sharded red-black tree since a game's order book holds at most a
// handful of simultaneous price levels — nowhere near the thousands
// the teacher's bucket sharding is built to amortise.
type priceLevels struct {
	tree       *rbt.Tree[units.EnergyCost, *priceLevel]
	descending bool
}

func newPriceLevels(descending bool) *priceLevels {
	cmp := func(a, b units.EnergyCost) int {
		switch {
		case a == b:
			return 0
		case descending:
			if a > b {
				return -1
			}
			return 1
		default:
			if a < b {
				return -1
			}
			return 1
		}
	}
	return &priceLevels{
		tree:       rbt.NewWith[units.EnergyCost, *priceLevel](cmp),
		descending: descending,
	}
}

// insert adds order to its price level, creating the level if needed,
// and returns the list element so the caller can cache it on the order
// for O(1) removal.
func (pl *priceLevels) insert(order *domain.Order) *list.Element {
	level, ok := pl.tree.Get(order.Price)
	if !ok {
		level = &priceLevel{price: order.Price, orders: list.New()}
		pl.tree.Put(order.Price, level)
	}
	return level.orders.PushBack(order)
}

// remove removes order from its price level using its cached list
// element, dropping the level entirely once it's empty.
func (pl *priceLevels) remove(order *domain.Order) {
	level, ok := pl.tree.Get(order.Price)
	if !ok || order.Element() == nil {
		return
	}
	level.orders.Remove(order.Element())
	order.SetElement(nil)
	if level.orders.Len() == 0 {
		pl.tree.Remove(order.Price)
	}
}

// best returns the best resting order (price priority then insertion
// order within that price) or nil if the side is empty.
func (pl *priceLevels) best() *domain.Order {
	node := pl.tree.Left()
	if node == nil {
		return nil
	}
	front := node.Value.orders.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*domain.Order)
}

// bestPrice returns the best resting price and whether one exists.
func (pl *priceLevels) bestPrice() (units.EnergyCost, bool) {
	node := pl.tree.Left()
	if node == nil {
		return 0, false
	}
	return node.Value.price, true
}

// snapshot returns every resting order across all price levels, in
// best-first order — bids descending by price, offers ascending — with
// time priority preserved within each price level.
func (pl *priceLevels) snapshot() []*domain.Order {
	var out []*domain.Order
	it := pl.tree.Iterator()
	for it.Next() {
		level := it.Value()
		for e := level.orders.Front(); e != nil; e = e.Next() {
			out = append(out, e.Value.(*domain.Order))
		}
	}
	return out
}

// clear drops every price level and returns nothing; used by drain().
func (pl *priceLevels) clear() {
	pl.tree.Clear()
}

func (pl *priceLevels) isEmpty() bool {
	return pl.tree.Empty()
}
