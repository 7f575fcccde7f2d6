package plant

import "testing"

func TestVariablePlantCannotBeProgrammed(t *testing.T) {
	p := NewVariablePlant(1000, 500, 300, 20, 0, 3)
	before := p.currentSetpoint
	p.ProgramSetpoint(before + 999)
	if p.currentSetpoint != before {
		t.Fatalf("expected programming to be a no-op, setpoint changed to %d", p.currentSetpoint)
	}
}

func TestVariablePlantDispatchRealisesCommittedSetpoint(t *testing.T) {
	p := NewVariablePlant(1000, 500, 300, 20, 0, 3)

	chainForPeriod2 := p.chains[2]
	if chainForPeriod2 == nil {
		t.Fatalf("expected a forecast chain already built for period 2")
	}
	wantSetpoint := chainForPeriod2.setpoint

	out := p.Dispatch()
	if out.Setpoint != p.GetHistory()[0].Setpoint {
		t.Fatalf("dispatch output not recorded consistently in history")
	}
	if p.currentSetpoint != wantSetpoint {
		t.Fatalf("expected period 2's setpoint to be realised as %d, got %d", wantSetpoint, p.currentSetpoint)
	}
}

func TestVariablePlantForecastShrinksAcrossDispatches(t *testing.T) {
	p := NewVariablePlant(1000, 500, 300, 20, 0, 5)

	forecastsBefore := p.GetForecast()
	var target5Before ForecastValue
	for _, f := range forecastsBefore {
		if f.Period == 6 {
			target5Before = f.Value
		}
	}

	p.Dispatch()

	forecastsAfter := p.GetForecast()
	var target5After ForecastValue
	found := false
	for _, f := range forecastsAfter {
		if f.Period == 6 {
			target5After = f.Value
			found = true
		}
	}
	if !found {
		t.Fatalf("expected period 6 still inside the rolling horizon after one dispatch")
	}
	if !target5After.IncludedIn(target5Before) {
		t.Fatalf("expected forecast for period 6 to shrink after a dispatch: before=%+v after=%+v", target5Before, target5After)
	}
}

func TestVariablePlantHorizonIsMaintained(t *testing.T) {
	p := NewVariablePlant(1000, 500, 300, 20, 0, 3)

	for i := 0; i < 5; i++ {
		p.Dispatch()
		forecast := p.GetForecast()
		if len(forecast) != 3 {
			t.Fatalf("expected horizon of 3 forecasts to be maintained, got %d after dispatch %d", len(forecast), i)
		}
	}
}
