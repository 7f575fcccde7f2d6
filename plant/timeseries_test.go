package plant

import (
	"testing"

	"parcelec-core/ids"
	"parcelec-core/units"
)

func TestLoopingTimeseriesWrapsAround(t *testing.T) {
	ts := NewLoopingTimeseries([]units.Power{1, 2, 3})

	want := []units.Power{1, 2, 3, 1, 2, 3, 1}
	for i, w := range want {
		period := ids.DeliveryPeriodId(i + 1)
		if got := ts.ValueAt(period); got != w {
			t.Fatalf("period %d: expected %d, got %d", period, w, got)
		}
	}
}

func TestRngTimeseriesStaysInBounds(t *testing.T) {
	ts := NewRngTimeseries(0, 10)
	for i := 1; i <= 1000; i++ {
		v := ts.ValueAt(ids.DeliveryPeriodId(i))
		if v < 0 || v > 10 {
			t.Fatalf("value %d out of bounds [0,10]", v)
		}
	}
}

func TestRngTimeseriesIsIdempotentPerPeriod(t *testing.T) {
	ts := NewRngTimeseries(0, 1000)
	period := ids.DeliveryPeriodId(7)
	first := ts.ValueAt(period)
	for i := 0; i < 10; i++ {
		if got := ts.ValueAt(period); got != first {
			t.Fatalf("expected stable value %d for period %d, got %d", first, period, got)
		}
	}
}

func TestRngTimeseriesSwapsInvertedBounds(t *testing.T) {
	ts := NewRngTimeseries(10, 5)
	for i := 1; i <= 100; i++ {
		v := ts.ValueAt(ids.DeliveryPeriodId(i))
		if v < 5 || v > 10 {
			t.Fatalf("value %d out of normalised bounds [5,10]", v)
		}
	}
}
