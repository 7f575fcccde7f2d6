package domain

import (
	"testing"

	"parcelec-core/ids"
	"parcelec-core/units"
)

func TestOrderFillReducesVolume(t *testing.T) {
	o := NewOrder(ids.NewPlayerId(), Buy, units.EnergyCost(50), units.Energy(10))
	o.Fill(units.Energy(4))
	if o.Volume != 6 {
		t.Errorf("expected remaining volume 6, got %d", o.Volume)
	}
	if o.IsFilled() {
		t.Errorf("expected order not fully filled")
	}

	o.Fill(units.Energy(6))
	if !o.IsFilled() {
		t.Errorf("expected order to be fully filled after consuming all volume")
	}
}

func TestDirectionOpposite(t *testing.T) {
	if Buy.Opposite() != Sell {
		t.Errorf("expected Buy's opposite to be Sell")
	}
	if Sell.Opposite() != Buy {
		t.Errorf("expected Sell's opposite to be Buy")
	}
}

func TestTradeLegsCarryPlayerCentricDirection(t *testing.T) {
	buyer := ids.NewPlayerId()
	seller := ids.NewPlayerId()
	trade := NewTrade(buyer, seller, units.Energy(10), units.EnergyCost(50))

	buyerLeg, sellerLeg := trade.Legs()
	if buyerLeg.Direction != Buy || buyerLeg.CounterpartyID != seller {
		t.Errorf("expected buyer leg to be Buy vs seller, got %+v", buyerLeg)
	}
	if sellerLeg.Direction != Sell || sellerLeg.CounterpartyID != buyer {
		t.Errorf("expected seller leg to be Sell vs buyer, got %+v", sellerLeg)
	}
	if buyerLeg.Volume != trade.Volume || sellerLeg.Volume != trade.Volume {
		t.Errorf("expected both legs to carry the full trade volume")
	}
}
