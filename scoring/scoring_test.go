package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelec-core/domain"
	"parcelec-core/ids"
	"parcelec-core/plant"
	"parcelec-core/units"
)

func TestScoreImbalancePenaltyPositiveBalance(t *testing.T) {
	p1 := ids.NewPlayerId()
	cfg := Config{PositiveImbalanceCost: 50, NegativeImbalanceCost: 100}

	outputs := map[ids.PlayerId][]plant.PlantOutput{
		p1: {{Setpoint: 300, Cost: 0}},
	}

	scores := Score(cfg, nil, outputs)
	s := scores[p1]
	assert.Equal(t, units.Energy(300), s.Balance)
	assert.Equal(t, units.Money(15000), s.ImbalanceCost)
}

func TestScoreSingleTradeMatch(t *testing.T) {
	buyer, seller := ids.NewPlayerId(), ids.NewPlayerId()
	cfg := Config{PositiveImbalanceCost: 10, NegativeImbalanceCost: 25}
	trade := domain.NewTrade(buyer, seller, units.Energy(10), units.EnergyCost(8000))

	scores := Score(cfg, []domain.Trade{trade}, nil)

	buyerScore := scores[buyer]
	assert.Equal(t, units.Energy(10), buyerScore.Balance)
	assert.Equal(t, units.Money(-800), buyerScore.PnL)

	sellerScore := scores[seller]
	assert.Equal(t, units.Energy(-10), sellerScore.Balance)
	assert.Equal(t, units.Money(800), sellerScore.PnL)
}

func TestScoreIsAdditiveAcrossDisjointTrades(t *testing.T) {
	buyer, seller1, seller2 := ids.NewPlayerId(), ids.NewPlayerId(), ids.NewPlayerId()
	cfg := Config{PositiveImbalanceCost: 10, NegativeImbalanceCost: 25}

	combined := []domain.Trade{
		domain.NewTrade(buyer, seller1, units.Energy(5), units.EnergyCost(4000)),
		domain.NewTrade(buyer, seller2, units.Energy(7), units.EnergyCost(6000)),
	}

	combinedScore := Score(cfg, combined, nil)[buyer]

	split1 := Score(cfg, combined[:1], nil)[buyer]
	split2 := Score(cfg, combined[1:], nil)[buyer]

	require.Equal(t, combinedScore.Balance, split1.Balance+split2.Balance)
	require.Equal(t, combinedScore.PnL, split1.PnL+split2.PnL)
}

func TestRankOrdersDescendingByTotal(t *testing.T) {
	p1, p2, p3 := ids.NewPlayerId(), ids.NewPlayerId(), ids.NewPlayerId()
	totals := map[ids.PlayerId]units.Money{
		p1: 100,
		p2: 300,
		p3: 200,
	}

	rankings := Rank(totals, TierLimits{Gold: 1, Silver: 2, Bronze: 3})

	require.Len(t, rankings, 3)
	assert.Equal(t, p2, rankings[0].Player)
	assert.Equal(t, 1, rankings[0].Rank)
	assert.Equal(t, "gold", rankings[0].Tier)

	assert.Equal(t, p3, rankings[1].Player)
	assert.Equal(t, "silver", rankings[1].Tier)

	assert.Equal(t, p1, rankings[2].Player)
	assert.Equal(t, "bronze", rankings[2].Tier)
}
