package domain

import (
	"time"

	"parcelec-core/ids"
	"parcelec-core/units"
)

// Trade is a matched execution between a buyer and a seller.
type Trade struct {
	Buyer      ids.PlayerId
	Seller     ids.PlayerId
	Volume     units.Energy
	Price      units.EnergyCost
	ExecutedAt time.Time
}

// NewTrade records a trade executed at the resting order's price, per
// spec.md §4.1 step 3 (price improvement for the incoming side).
func NewTrade(buyer, seller ids.PlayerId, volume units.Energy, price units.EnergyCost) Trade {
	return Trade{
		Buyer:      buyer,
		Seller:     seller,
		Volume:     volume,
		Price:      price,
		ExecutedAt: time.Now(),
	}
}

// TradeLeg is one counterparty's player-centric view of a Trade: it
// carries that party's own direction instead of a fixed buyer/seller
// pair, so it can be delivered to "the player" without them having to
// know which side they were on.
type TradeLeg struct {
	CounterpartyID ids.PlayerId
	Direction      Direction
	Volume         units.Energy
	Price          units.EnergyCost
	ExecutedAt     time.Time
}

// Legs splits a trade into the buyer's and the seller's TradeLeg views.
func (t Trade) Legs() (buyerLeg, sellerLeg TradeLeg) {
	buyerLeg = TradeLeg{
		CounterpartyID: t.Seller,
		Direction:      Buy,
		Volume:         t.Volume,
		Price:          t.Price,
		ExecutedAt:     t.ExecutedAt,
	}
	sellerLeg = TradeLeg{
		CounterpartyID: t.Buyer,
		Direction:      Sell,
		Volume:         t.Volume,
		Price:          t.Price,
		ExecutedAt:     t.ExecutedAt,
	}
	return buyerLeg, sellerLeg
}
