package plant

import (
	"math/rand"
	"testing"

	"parcelec-core/ids"
	"parcelec-core/units"
)

func TestForecastChainShrinksTowardsTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	target := ids.DeliveryPeriodId(6)
	fc := newForecastChain(rng, target, 500, 400, 20, 0)

	var prev ForecastValue
	for c := ids.DeliveryPeriodId(1); c < target; c++ {
		f, ok := fc.forecastAt(c)
		if !ok {
			t.Fatalf("expected a forecast at period %d", c)
		}
		if c > 1 && !f.IncludedIn(prev) {
			t.Fatalf("forecast at period %d (%+v) is not included in forecast at period %d (%+v)", c, f, c-1, prev)
		}
		prev = f
	}
}

func TestForecastChainSetpointWithinLastForecast(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	target := ids.DeliveryPeriodId(4)
	fc := newForecastChain(rng, target, 1000, 300, 50, 0)

	last, ok := fc.forecastAt(target - 1)
	if !ok {
		t.Fatalf("expected a forecast at target-1")
	}
	if fc.setpoint < last.LowerRange() || fc.setpoint > last.UpperRange() {
		t.Fatalf("setpoint %d outside last forecast range [%d,%d]", fc.setpoint, last.LowerRange(), last.UpperRange())
	}
}

func TestForecastChainNoForecastPastTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	target := ids.DeliveryPeriodId(3)
	fc := newForecastChain(rng, target, 100, 50, 10, 0)

	if _, ok := fc.forecastAt(target); ok {
		t.Fatalf("expected no forecast visible at the target period itself")
	}
	if _, ok := fc.forecastAt(target + 1); ok {
		t.Fatalf("expected no forecast visible past the target period")
	}
}

func TestForecastChainFirstPeriodTargetHasNoForecasts(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	fc := newForecastChain(rng, ids.DeliveryPeriodId(1), 300, 100, 10, 0)

	if _, ok := fc.forecastAt(ids.DeliveryPeriodId(0)); ok {
		t.Fatalf("expected no forecasts when target is the first playable period")
	}
	if fc.setpoint != 300 {
		t.Fatalf("expected setpoint to fall back to center when there's no forecast chain, got %d", fc.setpoint)
	}
}

func TestRoundToNearest(t *testing.T) {
	cases := []struct{ value, base, want int64 }{
		{103, 10, 100},
		{105, 10, 110},
		{-103, 10, -100},
		{-105, 10, -110},
		{7, 0, 7},
	}
	for _, c := range cases {
		got := roundToNearest(units.Power(c.value), units.Power(c.base))
		if int64(got) != c.want {
			t.Errorf("roundToNearest(%d,%d) = %d, want %d", c.value, c.base, got, c.want)
		}
	}
}
