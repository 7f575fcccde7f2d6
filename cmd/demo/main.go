// Command demo wires up one in-process game end to end: it registers
// two players, drives a single delivery period to completion, and
// prints the resulting scores and final rankings. It exists to show
// the game package's actors working together the way the teacher's
// own main.go drove its matching engine with a couple of test orders.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"parcelec-core/config"
	"parcelec-core/domain"
	"parcelec-core/game"
	"parcelec-core/ids"
	"parcelec-core/plant"
	"parcelec-core/playerconn/inmemory"
	"parcelec-core/scheduler"
	"parcelec-core/scoring"
	"parcelec-core/units"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conns := inmemory.New()
	gameCfg := game.Config{
		LastPeriod: ids.DeliveryPeriodId(1),
		Timers: scheduler.Timers{
			MarketDuration: 200 * time.Millisecond,
			StackDuration:  300 * time.Millisecond,
		},
		Scoring: scoring.Config{
			PositiveImbalanceCost: cfg.Scoring.PositiveImbalanceCost,
			NegativeImbalanceCost: cfg.Scoring.NegativeImbalanceCost,
		},
		Tiers: scoring.TierLimits{
			Gold:   cfg.Scoring.TierGold,
			Silver: cfg.Scoring.TierSilver,
			Bronze: cfg.Scoring.TierBronze,
		},
		Plants:        demoPlants,
		InboxCapacity: cfg.Actors.InboxCapacity,
	}

	g := game.New(ctx, conns, gameCfg, log)
	go g.Run(ctx)

	alice, err := g.RegisterPlayer(ctx, "alice")
	if err != nil {
		log.Error("failed to register alice", "error", err)
		os.Exit(1)
	}
	bob, err := g.RegisterPlayer(ctx, "bob")
	if err != nil {
		log.Error("failed to register bob", "error", err)
		os.Exit(1)
	}

	fmt.Printf("registered players: alice=%s bob=%s\n", alice, bob)

	g.PlayerIsReady(alice)
	g.PlayerIsReady(bob)

	time.Sleep(30 * time.Millisecond)

	mkt := g.Market()
	mkt.SubmitOrder(alice, domain.Buy, units.EnergyCost(45), units.Energy(50))
	mkt.SubmitOrder(bob, domain.Sell, units.EnergyCost(40), units.Energy(50))
	fmt.Println("submitted a matching buy/sell pair")

	if aliceStack := g.StackFor(ctx, alice); aliceStack != nil {
		plants := aliceStack.GetSnapshot(ctx).Plants
		for plantID := range plants {
			aliceStack.ProgramSetpoint(plantID, units.Power(200))
		}
	}

	for {
		scores := g.GetScores(ctx, alice)
		if scores.Ended {
			fmt.Println("game ended, final rankings:")
			for _, r := range scores.Rankings {
				fmt.Printf("  rank=%d player=%s total=%d tier=%s\n", r.Rank, r.Player, r.Total, r.Tier)
			}
			break
		}
		time.Sleep(50 * time.Millisecond)

		// Readiness ends the running period early and, once it is
		// settled, moves the game on to Ended.
		g.PlayerIsReady(alice)
		g.PlayerIsReady(bob)
	}

	fmt.Printf("broadcast messages sent: %d\n", len(conns.Broadcasts()))
}

func demoPlants(ids.PlayerId) []plant.PowerPlant {
	return []plant.PowerPlant{
		plant.NewGasPlant(units.EnergyCost(30), units.Power(500)),
		plant.NewBattery(units.Energy(200), units.Energy(100)),
	}
}
