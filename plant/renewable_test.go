package plant

import (
	"testing"

	"parcelec-core/units"
)

func TestRenewablePlantSetpointFollowsTimeseries(t *testing.T) {
	p := NewRenewablePlant(1000, NewLoopingTimeseries([]units.Power{100, 500, 900}), 50)

	out := p.ProgramSetpoint(9999)
	if out.Setpoint != 100 || out.Cost != 0 {
		t.Fatalf("expected programming to be a no-op returning the timeseries value, got %+v", out)
	}

	out = p.Dispatch()
	if out.Setpoint != 100 {
		t.Fatalf("expected dispatch to return the previous setpoint 100, got %+v", out)
	}
	if hist := p.GetHistory(); len(hist) != 1 || hist[0] != out {
		t.Fatalf("expected dispatch output recorded in history")
	}

	out = p.Dispatch()
	if out.Setpoint != 500 {
		t.Fatalf("expected second dispatch to return 500, got %+v", out)
	}
}

func TestRenewablePlantForecastsOnePeriodAhead(t *testing.T) {
	p := NewRenewablePlant(1000, NewLoopingTimeseries([]units.Power{100, 500, 900}), 50)

	forecast := p.GetForecast()
	if len(forecast) != 1 || forecast[0].Value.Value != 500 || forecast[0].Value.Deviation != 50 {
		t.Fatalf("expected forecast of 500±50 for the next period, got %+v", forecast)
	}

	p.Dispatch()
	forecast = p.GetForecast()
	if len(forecast) != 1 || forecast[0].Value.Value != 900 {
		t.Fatalf("expected forecast to advance to 900, got %+v", forecast)
	}
}
