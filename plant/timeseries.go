package plant

import (
	"math/rand"
	"time"

	"parcelec-core/ids"
	"parcelec-core/units"
)

// Timeseries maps a delivery period to a Power value. It must be
// idempotent: calling ValueAt twice for the same period returns the
// same value, since RenewablePlant and Consumers peek at period.Next()
// for their forecast without consuming it. Grounded on original_source's
// technologies/timeseries.rs, generalised from sequential draws to a
// period-indexed lookup to support that peek.
type Timeseries interface {
	ValueAt(period ids.DeliveryPeriodId) units.Power
}

// LoopingTimeseries replays a fixed sequence of values, wrapping back
// to the start once exhausted.
type LoopingTimeseries struct {
	values []units.Power
}

// NewLoopingTimeseries creates a timeseries that cycles through values
// forever, indexed from delivery period 1. Panics if values is empty.
func NewLoopingTimeseries(values []units.Power) *LoopingTimeseries {
	if len(values) == 0 {
		panic("plant: LoopingTimeseries requires at least one value")
	}
	cp := make([]units.Power, len(values))
	copy(cp, values)
	return &LoopingTimeseries{values: cp}
}

func (ts *LoopingTimeseries) ValueAt(period ids.DeliveryPeriodId) units.Power {
	n := len(ts.values)
	idx := ((int(period) - 1) % n + n) % n
	return ts.values[idx]
}

// RngTimeseries draws a uniformly random value in [min, max] the first
// time each period is queried, then remembers it. min and max are
// swapped automatically if given in the wrong order.
type RngTimeseries struct {
	min, max units.Power
	rng      *rand.Rand
	drawn    map[ids.DeliveryPeriodId]units.Power
}

// NewRngTimeseries creates a timeseries bounded by [min, max].
func NewRngTimeseries(min, max units.Power) *RngTimeseries {
	if min > max {
		min, max = max, min
	}
	return &RngTimeseries{
		min:   min,
		max:   max,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		drawn: make(map[ids.DeliveryPeriodId]units.Power),
	}
}

func (ts *RngTimeseries) ValueAt(period ids.DeliveryPeriodId) units.Power {
	if v, ok := ts.drawn[period]; ok {
		return v
	}
	span := int64(ts.max-ts.min) + 1
	v := ts.min
	if span > 0 {
		v = ts.min + units.Power(ts.rng.Int63n(span))
	}
	ts.drawn[period] = v
	return v
}
