package plant

import (
	"math/rand"
	"time"

	"parcelec-core/ids"
	"parcelec-core/units"
)

// VariablePlantState is the public representation of a VariablePlant.
type VariablePlantState struct {
	MaxPower units.Power
	Output   PlantOutput
}

// VariablePlant is a non-programmable plant whose setpoint for each
// period is realised from a forecastChain built ahead of time, per
// spec.md §4.3. Unlike RenewablePlant's single declared-deviation
// forecast, it exposes a genuinely shrinking chain of forecasts for
// every period inside its rolling horizon, satisfying the forecast
// shrinking invariant (spec.md §8 invariant 8) across dispatches.
type VariablePlant struct {
	id               ids.PlantId
	maxPower         units.Power
	center           units.Power
	initialDeviation units.Power
	finalDeviation   units.Power
	roundTo          units.Power
	horizon          int
	rng              *rand.Rand

	period          ids.DeliveryPeriodId
	currentSetpoint units.Power
	chains          map[ids.DeliveryPeriodId]*forecastChain
	history         []PlantOutput
}

// NewVariablePlant creates a variable plant with a rolling forecast
// horizon of `horizon` periods, each forecast chain converging on
// center with uncertainty shrinking from initialDeviation down to
// finalDeviation. roundTo rounds every realised setpoint to the
// nearest multiple (0 disables rounding).
func NewVariablePlant(maxPower, center, initialDeviation, finalDeviation, roundTo units.Power, horizon int) *VariablePlant {
	if horizon < 1 {
		horizon = 1
	}
	vp := &VariablePlant{
		id:               ids.NewPlantId(),
		maxPower:         maxPower,
		center:           center,
		initialDeviation: initialDeviation,
		finalDeviation:   finalDeviation,
		roundTo:          roundTo,
		horizon:          horizon,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
		period:           ids.DeliveryPeriodId(1),
		chains:           make(map[ids.DeliveryPeriodId]*forecastChain),
	}

	vp.chains[vp.period] = newForecastChain(vp.rng, vp.period, center, initialDeviation, finalDeviation, roundTo)
	vp.currentSetpoint = vp.chains[vp.period].setpoint
	for t := vp.period.Next(); t <= vp.period+ids.DeliveryPeriodId(horizon); t = t.Next() {
		vp.chains[t] = newForecastChain(vp.rng, t, center, initialDeviation, finalDeviation, roundTo)
	}

	return vp
}

func (vp *VariablePlant) ID() ids.PlantId { return vp.id }

// ProgramSetpoint is a no-op: the setpoint is entirely determined by
// the forecast chain already realised for the current period.
func (vp *VariablePlant) ProgramSetpoint(_ units.Power) PlantOutput {
	return PlantOutput{Setpoint: vp.currentSetpoint, Cost: 0}
}

// Dispatch advances the period pointer, realises the setpoint already
// committed for the new period, and extends the rolling horizon with
// a fresh chain.
func (vp *VariablePlant) Dispatch() PlantOutput {
	previous := vp.currentSetpoint
	vp.period = vp.period.Next()

	chain, ok := vp.chains[vp.period]
	if !ok {
		chain = newForecastChain(vp.rng, vp.period, vp.center, vp.initialDeviation, vp.finalDeviation, vp.roundTo)
		vp.chains[vp.period] = chain
	}
	vp.currentSetpoint = chain.setpoint
	delete(vp.chains, vp.period-1)

	newHorizonTarget := vp.period + ids.DeliveryPeriodId(vp.horizon)
	if _, exists := vp.chains[newHorizonTarget]; !exists {
		vp.chains[newHorizonTarget] = newForecastChain(vp.rng, newHorizonTarget, vp.center, vp.initialDeviation, vp.finalDeviation, vp.roundTo)
	}

	output := PlantOutput{Setpoint: previous, Cost: 0}
	vp.history = append(vp.history, output)
	return output
}

func (vp *VariablePlant) CurrentState() any {
	return VariablePlantState{
		MaxPower: vp.maxPower,
		Output:   PlantOutput{Setpoint: vp.currentSetpoint, Cost: 0},
	}
}

// GetForecast returns the forecast visible for every period inside
// the rolling horizon, sorted by period.
func (vp *VariablePlant) GetForecast() []Forecast {
	var out []Forecast
	for t := vp.period.Next(); t <= vp.period+ids.DeliveryPeriodId(vp.horizon); t = t.Next() {
		chain, ok := vp.chains[t]
		if !ok {
			continue
		}
		f, ok := chain.forecastAt(vp.period)
		if !ok {
			continue
		}
		out = append(out, Forecast{Period: t, Value: f})
	}
	return out
}

func (vp *VariablePlant) GetHistory() []PlantOutput {
	out := make([]PlantOutput, len(vp.history))
	copy(out, vp.history)
	return out
}
