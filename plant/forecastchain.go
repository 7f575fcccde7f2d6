package plant

import (
	"math/rand"

	"parcelec-core/ids"
	"parcelec-core/units"
)

// forecastChain builds, for one target delivery period, the whole
// sequence of forecasts f_{c,target} for c = 1..target-1, with
// deviation shrinking as c approaches target, and draws the realised
// setpoint for c == target from the narrowest (last) forecast's range.
//
// Grounded on original_source's forecast/mod.rs (ForecastValue,
// forecast_in_range, round_to_nearest) and technologies/variable.rs
// (the Forecast/Setpoint state shape per target period). The original
// generator stores the same flat ForecastValue at every current period
// for a given target — spec.md explicitly calls that generator out as
// not always honouring the shrinking invariant, so this construction
// narrows the deviation monotonically and clamps every step to the
// previous step's range, guaranteeing invariant 8 by construction
// rather than checking it after the fact.
type forecastChain struct {
	target    ids.DeliveryPeriodId
	forecasts map[ids.DeliveryPeriodId]ForecastValue
	setpoint  units.Power
}

// newForecastChain builds the forecast sequence and realised setpoint
// for one target period. center is the value the forecasts converge
// on; initialDeviation is the uncertainty band at period 1, shrinking
// linearly towards finalDeviation, which the line reaches at target
// itself, so the last forecast (at target-1) is still one step above
// finalDeviation. roundTo rounds the realised
// setpoint to the nearest multiple (0 disables rounding).
func newForecastChain(rng *rand.Rand, target ids.DeliveryPeriodId, center, initialDeviation, finalDeviation, roundTo units.Power) *forecastChain {
	fc := &forecastChain{
		target:    target,
		forecasts: make(map[ids.DeliveryPeriodId]ForecastValue),
	}

	if target <= 1 {
		fc.setpoint = roundToNearest(center, roundTo)
		return fc
	}

	var prevLow, prevHigh units.Power
	havePrev := false

	for c := ids.DeliveryPeriodId(1); c < target; c++ {
		frac := float64(target-c) / float64(target-1)
		deviation := finalDeviation + units.Power(float64(initialDeviation-finalDeviation)*frac)

		low, high := center-deviation, center+deviation
		if havePrev {
			if low < prevLow {
				low = prevLow
			}
			if high > prevHigh {
				high = prevHigh
			}
			if low > high {
				low, high = prevLow, prevHigh
			}
		}

		fc.forecasts[c] = ForecastValue{
			Value:     (low + high) / 2,
			Deviation: (high - low) / 2,
		}
		prevLow, prevHigh, havePrev = low, high, true
	}

	last := fc.forecasts[target-1]
	fc.setpoint = roundToNearest(forecastInRange(rng, last.LowerRange(), last.UpperRange()), roundTo)

	return fc
}

// forecastAt returns the forecast visible at current period c, if c
// precedes the target period.
func (fc *forecastChain) forecastAt(c ids.DeliveryPeriodId) (ForecastValue, bool) {
	if !c.Before(fc.target) {
		return ForecastValue{}, false
	}
	f, ok := fc.forecasts[c]
	return f, ok
}

// forecastInRange draws a uniform value in [min, max]; if the range is
// degenerate it returns min directly.
func forecastInRange(rng *rand.Rand, min, max units.Power) units.Power {
	if min >= max {
		return min
	}
	span := int64(max-min) + 1
	return min + units.Power(rng.Int63n(span))
}

// roundToNearest rounds value to the nearest multiple of base. A
// base <= 0 disables rounding.
func roundToNearest(value, base units.Power) units.Power {
	if base <= 0 {
		return value
	}
	half := base / 2
	if value >= 0 {
		return ((value + half) / base) * base
	}
	return -((-value + half) / base) * base
}
