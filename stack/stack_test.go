package stack

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"parcelec-core/ids"
	"parcelec-core/plant"
	"parcelec-core/playerconn"
	"parcelec-core/units"
)

type recorder struct {
	mu       sync.Mutex
	messages []playerconn.PlayerMessage
}

func (r *recorder) SendToPlayer(_ ids.GameId, _ ids.PlayerId, message playerconn.PlayerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recorder) SendToAllPlayers(_ ids.GameId, _ playerconn.PlayerMessage) {}

func newTestStack(t *testing.T) (*StackActor, context.CancelFunc, ids.PlantId) {
	t.Helper()
	gasPlant := plant.NewGasPlant(units.EnergyCost(10), units.Power(500))
	actor := New(ids.NewGameId(), ids.NewPlayerId(), []plant.PowerPlant{gasPlant}, &recorder{}, 16, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	go actor.Run(ctx)
	return actor, cancel, gasPlant.ID()
}

func TestStackOpenCloseAdvancesPeriod(t *testing.T) {
	actor, cancel, _ := newTestStack(t)
	defer cancel()
	ctx := context.Background()

	actor.Open(ids.PreGame)
	time.Sleep(10 * time.Millisecond)

	outputs := actor.Close(ctx, ids.DeliveryPeriodId(1))
	if len(outputs) != 1 {
		t.Fatalf("expected 1 plant output, got %d", len(outputs))
	}

	actor.Open(ids.DeliveryPeriodId(1))
	time.Sleep(10 * time.Millisecond)
	outputs2 := actor.Close(ctx, ids.DeliveryPeriodId(2))
	if len(outputs2) != 1 {
		t.Fatalf("expected period 2 close to also produce 1 output, got %d", len(outputs2))
	}
}

func TestStackCloseIsIdempotentForPastPeriods(t *testing.T) {
	actor, cancel, _ := newTestStack(t)
	defer cancel()
	ctx := context.Background()

	actor.Open(ids.PreGame)
	time.Sleep(10 * time.Millisecond)
	first := actor.Close(ctx, ids.DeliveryPeriodId(1))
	second := actor.Close(ctx, ids.DeliveryPeriodId(1))

	for id, out := range first {
		if second[id] != out {
			t.Fatalf("expected idempotent close to replay the same output, got %+v vs %+v", out, second[id])
		}
	}
}

func TestStackProgramSetpointOnlyWhileOpen(t *testing.T) {
	actor, cancel, plantID := newTestStack(t)
	defer cancel()
	ctx := context.Background()

	actor.ProgramSetpoint(plantID, units.Power(300))
	time.Sleep(10 * time.Millisecond)
	snap := actor.GetSnapshot(ctx)
	state := snap.Plants[plantID].(plant.GasPlantState)
	if state.Output.Setpoint != 0 {
		t.Fatalf("expected programming while closed to be ignored, got setpoint %d", state.Output.Setpoint)
	}

	actor.Open(ids.PreGame)
	time.Sleep(10 * time.Millisecond)
	actor.ProgramSetpoint(plantID, units.Power(300))
	time.Sleep(10 * time.Millisecond)

	snap2 := actor.GetSnapshot(ctx)
	state2 := snap2.Plants[plantID].(plant.GasPlantState)
	if state2.Output.Setpoint != 300 {
		t.Fatalf("expected setpoint 300 while open, got %d", state2.Output.Setpoint)
	}
}

func TestStackCloseWithWrongPeriodReturnsEmpty(t *testing.T) {
	actor, cancel, _ := newTestStack(t)
	defer cancel()
	ctx := context.Background()

	outputs := actor.Close(ctx, ids.DeliveryPeriodId(5))
	if len(outputs) != 0 {
		t.Fatalf("expected closing an unopened future period to return no outputs, got %d", len(outputs))
	}
}
