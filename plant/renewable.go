package plant

import (
	"parcelec-core/ids"
	"parcelec-core/units"
)

// RenewablePlantState is the public representation of a RenewablePlant.
type RenewablePlantState struct {
	MaxPower units.Power
	Output   PlantOutput
}

// RenewablePlant is driven by a deterministic timeseries of (period ->
// value) pairs: its setpoint for the current period is whatever the
// timeseries says, programming is a no-op, and it forecasts exactly
// one period ahead with a fixed declared deviation. Grounded on
// original_source's technologies/renewable.rs.
type RenewablePlant struct {
	id                ids.PlantId
	maxPower          units.Power
	setpoints         Timeseries
	forecastDeviation units.Power
	period            ids.DeliveryPeriodId
	currentSetpoint   units.Power
	history           []PlantOutput
}

// NewRenewablePlant creates a renewable plant starting at delivery
// period 1, with its setpoint and one-period-ahead forecast already
// primed from setpoints.
func NewRenewablePlant(maxPower units.Power, setpoints Timeseries, forecastDeviation units.Power) *RenewablePlant {
	period := ids.DeliveryPeriodId(1)
	return &RenewablePlant{
		id:                ids.NewPlantId(),
		maxPower:          maxPower,
		setpoints:         setpoints,
		forecastDeviation: forecastDeviation,
		period:            period,
		currentSetpoint:   setpoints.ValueAt(period),
	}
}

func (p *RenewablePlant) ID() ids.PlantId { return p.id }

// ProgramSetpoint is a no-op: renewable output cannot be controlled by
// the player, only observed.
func (p *RenewablePlant) ProgramSetpoint(_ units.Power) PlantOutput {
	return PlantOutput{Setpoint: p.currentSetpoint, Cost: 0}
}

// Dispatch advances the period pointer and pulls the next setpoint
// from the timeseries, returning the setpoint that was just realised.
func (p *RenewablePlant) Dispatch() PlantOutput {
	previous := p.currentSetpoint
	p.period = p.period.Next()
	p.currentSetpoint = p.setpoints.ValueAt(p.period)

	output := PlantOutput{Setpoint: previous, Cost: 0}
	p.history = append(p.history, output)
	return output
}

func (p *RenewablePlant) CurrentState() any {
	return RenewablePlantState{
		MaxPower: p.maxPower,
		Output:   PlantOutput{Setpoint: p.currentSetpoint, Cost: 0},
	}
}

// GetForecast exposes the timeseries value for the next period with
// the plant's declared deviation band.
func (p *RenewablePlant) GetForecast() []Forecast {
	next := p.period.Next()
	return []Forecast{{
		Period: next,
		Value: ForecastValue{
			Value:     p.setpoints.ValueAt(next),
			Deviation: p.forecastDeviation,
		},
	}}
}

func (p *RenewablePlant) GetHistory() []PlantOutput {
	out := make([]PlantOutput, len(p.history))
	copy(out, p.history)
	return out
}
