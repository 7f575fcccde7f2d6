// Package scheduler implements PeriodScheduler, the transient per-period
// task described in spec.md §4.4: open the market and every stack
// concurrently, hold the market open for up to market_duration, hold
// the stacks open for up to stack_duration, then score the period and
// report back to the owning GameActor. Fan-out/fan-in is built on
// errgroup, the concurrency library the rest of the retrieved pack
// already depends on for exactly this shape of "wait for N concurrent
// tasks, propagate the first error."
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"parcelec-core/domain"
	"parcelec-core/ids"
	"parcelec-core/market"
	"parcelec-core/plant"
	"parcelec-core/scoring"
	"parcelec-core/stack"
)

// Timers bounds how long a period's market and stack phases stay open.
// Both fields are optional; a zero duration means "no timer" for that
// phase, leaving early cancellation as the only way to end it.
type Timers struct {
	MarketDuration time.Duration
	StackDuration  time.Duration
}

// Result is reported back to the owning GameActor once a period
// finishes, per spec.md §4.4 step 5.
type Result struct {
	Period  ids.DeliveryPeriodId
	Scores  map[ids.PlayerId]scoring.PlayerScore
	Outputs map[ids.PlayerId][]plant.PlantOutput
	Trades  []domain.Trade
}

// Run drives one delivery period end to end. earlyFinish fires when
// every player has signalled readiness ahead of a timer; closing it
// (or cancelling ctx) is the only way to end a period that was
// started without timers.
func Run(ctx context.Context, log *slog.Logger, cfg scoring.Config, period ids.DeliveryPeriodId, mkt *market.MarketActor, stacks map[ids.PlayerId]*stack.StackActor, timers Timers, earlyFinish <-chan struct{}) Result {
	// Market and stack actors open the period that follows the one they
	// last closed, so they are sent the previous period's id.
	previous := period - 1
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mkt.Open(previous)
		return nil
	})
	for _, s := range stacks {
		s := s
		g.Go(func() error {
			s.Open(previous)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("period open phase failed", "period", period, "error", err)
	}

	waitPhase(gctx, timers.MarketDuration, earlyFinish)
	trades := mkt.Close(ctx, period)

	remaining := timers.StackDuration - timers.MarketDuration
	if remaining < 0 {
		remaining = 0
	}
	waitPhase(gctx, remaining, earlyFinish)

	outputs := make(map[ids.PlayerId][]plant.PlantOutput, len(stacks))
	var mu sync.Mutex
	closeGroup, closeCtx := errgroup.WithContext(ctx)
	for player, s := range stacks {
		player, s := player, s
		closeGroup.Go(func() error {
			plantOutputs := s.Close(closeCtx, period)
			values := make([]plant.PlantOutput, 0, len(plantOutputs))
			for _, out := range plantOutputs {
				values = append(values, out)
			}
			mu.Lock()
			outputs[player] = values
			mu.Unlock()
			return nil
		})
	}
	if err := closeGroup.Wait(); err != nil {
		log.Error("period close phase failed", "period", period, "error", err)
	}

	scores := scoring.Score(cfg, trades, outputs)

	return Result{
		Period:  period,
		Scores:  scores,
		Outputs: outputs,
		Trades:  trades,
	}
}

// waitPhase blocks until duration elapses, earlyFinish fires, or ctx is
// cancelled. A zero duration with no earlyFinish signal blocks only on
// ctx, per spec.md §4.4's "if timers are absent, only early cancellation
// can end a period."
func waitPhase(ctx context.Context, duration time.Duration, earlyFinish <-chan struct{}) {
	var timer <-chan time.Time
	if duration > 0 {
		t := time.NewTimer(duration)
		defer t.Stop()
		timer = t.C
	}
	select {
	case <-ctx.Done():
	case <-earlyFinish:
	case <-timer:
	}
}
