package plant

import (
	"testing"

	"parcelec-core/units"
)

func TestConsumersHaveNegativeSetpointAndCost(t *testing.T) {
	c := NewConsumers(1000, 65, NewLoopingTimeseries([]units.Power{-100, -500}), 20)

	if c.currentSetpoint >= 0 {
		t.Fatalf("expected consumers to have negative setpoint, got %d", c.currentSetpoint)
	}
	state := c.CurrentState().(ConsumersState)
	if state.Output.Cost >= 0 {
		t.Fatalf("expected consumers to have negative cost (they pay you), got %d", state.Output.Cost)
	}
}

func TestConsumersCannotBeProgrammed(t *testing.T) {
	c := NewConsumers(1000, 65, NewLoopingTimeseries([]units.Power{-100, -500}), 20)
	initial := c.currentSetpoint
	c.ProgramSetpoint(initial + 500)
	if c.currentSetpoint != initial {
		t.Fatalf("expected programming to be a no-op, setpoint changed to %d", c.currentSetpoint)
	}
}

func TestConsumersDispatchReturnsPreviousSetpoint(t *testing.T) {
	c := NewConsumers(1000, 65, NewLoopingTimeseries([]units.Power{-100, -500}), 20)

	previous := c.currentSetpoint
	out := c.Dispatch()
	if out.Setpoint != previous {
		t.Fatalf("expected dispatch to return the previous setpoint %d, got %d", previous, out.Setpoint)
	}
	if c.currentSetpoint == previous {
		t.Fatalf("expected consumption to change after dispatch")
	}
}
