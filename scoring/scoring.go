// Package scoring implements the pure per-period scoring function
// described in spec.md §4.5: no actors, no I/O, just arithmetic over
// trades and plant outputs.
package scoring

import (
	"sort"

	"parcelec-core/domain"
	"parcelec-core/ids"
	"parcelec-core/plant"
	"parcelec-core/units"
)

// Config carries the tunable constants the scoring function needs.
type Config struct {
	PositiveImbalanceCost float64
	NegativeImbalanceCost float64
}

// PlayerScore is one player's result for one delivery period.
type PlayerScore struct {
	Balance       units.Energy
	PnL           units.Money
	ImbalanceCost units.Money
}

// Total is the quantity cumulative rankings sort on.
func (s PlayerScore) Total() units.Money {
	return s.PnL.Add(s.ImbalanceCost)
}

// Ranking is one player's place in the final standings.
type Ranking struct {
	Player ids.PlayerId
	Total  units.Money
	Rank   int
	Tier   string
}

// TierLimits assigns a named tier to the top ranks; players below
// Bronze carry no tier.
type TierLimits struct {
	Gold, Silver, Bronze int
}

// Score computes every player's PlayerScore for one delivery period,
// per spec.md §4.5:
//
//	physical balance = Σ plant setpoints
//	market balance   = Σ buy volume − Σ sell volume across that
//	                   player's trade legs
//	balance          = physical + market
//	pnl              = −Σ plant costs + Σ (sell price × sell vol) / 100 −
//	                   Σ (buy price × buy vol) / 100
//	                   (price is in cents, volume in watt-periods)
//	imbalance cost   = balance × POSITIVE_IMBALANCE_COST if balance > 0,
//	                   balance × NEGATIVE_IMBALANCE_COST if balance < 0,
//	                   else 0
func Score(cfg Config, trades []domain.Trade, plantOutputsByPlayer map[ids.PlayerId][]plant.PlantOutput) map[ids.PlayerId]PlayerScore {
	balances := make(map[ids.PlayerId]units.Energy)
	pnls := make(map[ids.PlayerId]units.Money)

	for player, outputs := range plantOutputsByPlayer {
		var physical units.Energy
		var cost units.Money
		for _, out := range outputs {
			physical = physical.Add(units.Energy(out.Setpoint))
			cost = cost.Add(out.Cost)
		}
		balances[player] = balances[player].Add(physical)
		pnls[player] = pnls[player].Sub(cost)
	}

	for _, trade := range trades {
		revenue := trade.Volume.Mul(trade.Price) / 100
		balances[trade.Seller] = balances[trade.Seller].Add(trade.Volume.Neg())
		pnls[trade.Seller] = pnls[trade.Seller].Add(revenue)

		balances[trade.Buyer] = balances[trade.Buyer].Add(trade.Volume)
		pnls[trade.Buyer] = pnls[trade.Buyer].Sub(revenue)
	}

	scores := make(map[ids.PlayerId]PlayerScore, len(balances))
	for player, balance := range balances {
		scores[player] = PlayerScore{
			Balance:       balance,
			PnL:           pnls[player],
			ImbalanceCost: imbalanceCost(cfg, balance),
		}
	}
	// Players with trades but no plant outputs (or vice versa) are
	// already covered by the two loops above sharing the same maps;
	// make sure a player with only trades still gets an entry.
	for player, pnl := range pnls {
		if _, ok := scores[player]; !ok {
			balance := balances[player]
			scores[player] = PlayerScore{
				Balance:       balance,
				PnL:           pnl,
				ImbalanceCost: imbalanceCost(cfg, balance),
			}
		}
	}

	return scores
}

func imbalanceCost(cfg Config, balance units.Energy) units.Money {
	switch {
	case balance > 0:
		return units.Money(float64(balance) * cfg.PositiveImbalanceCost)
	case balance < 0:
		return units.Money(float64(balance) * cfg.NegativeImbalanceCost)
	default:
		return 0
	}
}

// Rank produces cumulative final rankings from each player's summed
// per-period scores, descending by pnl + imbalance_cost. tiers is
// optional; pass a zero TierLimits to skip tier assignment.
func Rank(totals map[ids.PlayerId]units.Money, tiers TierLimits) []Ranking {
	rankings := make([]Ranking, 0, len(totals))
	for player, total := range totals {
		rankings = append(rankings, Ranking{Player: player, Total: total})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Total != rankings[j].Total {
			return rankings[i].Total > rankings[j].Total
		}
		return rankings[i].Player < rankings[j].Player
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
		rankings[i].Tier = tierFor(rankings[i].Rank, tiers)
	}
	return rankings
}

func tierFor(rank int, tiers TierLimits) string {
	switch {
	case tiers.Gold > 0 && rank <= tiers.Gold:
		return "gold"
	case tiers.Silver > 0 && rank <= tiers.Silver:
		return "silver"
	case tiers.Bronze > 0 && rank <= tiers.Bronze:
		return "bronze"
	default:
		return ""
	}
}
