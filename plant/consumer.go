package plant

import (
	"parcelec-core/ids"
	"parcelec-core/units"
)

// ConsumersState is the public representation of a Consumers plant.
type ConsumersState struct {
	MaxPower units.Power
	Output   PlantOutput
}

// Consumers is symmetric to RenewablePlant: its setpoints are negative
// (load), and its cost is the negative setpoint times pricePerUnit. That
// cost is negative, so the consumers pay the player for the energy they
// consume. Forecasts behave
// identically to RenewablePlant. Grounded on original_source's
// technologies/consumers.rs.
type Consumers struct {
	id                ids.PlantId
	maxPower          units.Power
	pricePerUnit      units.EnergyCost
	setpoints         Timeseries
	forecastDeviation units.Power
	period            ids.DeliveryPeriodId
	currentSetpoint   units.Power
	history           []PlantOutput
}

// NewConsumers creates a consumer plant starting at delivery period 1.
// setpoints is expected to carry negative values.
func NewConsumers(maxPower units.Power, pricePerUnit units.EnergyCost, setpoints Timeseries, forecastDeviation units.Power) *Consumers {
	period := ids.DeliveryPeriodId(1)
	return &Consumers{
		id:                ids.NewPlantId(),
		maxPower:          maxPower,
		pricePerUnit:      pricePerUnit,
		setpoints:         setpoints,
		forecastDeviation: forecastDeviation,
		period:            period,
		currentSetpoint:   setpoints.ValueAt(period),
	}
}

func (c *Consumers) ID() ids.PlantId { return c.id }

func (c *Consumers) cost() units.Money {
	return units.Energy(c.currentSetpoint).Mul(c.pricePerUnit)
}

// ProgramSetpoint is a no-op: consumption cannot be controlled by the
// player, only observed.
func (c *Consumers) ProgramSetpoint(_ units.Power) PlantOutput {
	return PlantOutput{Setpoint: c.currentSetpoint, Cost: c.cost()}
}

// Dispatch advances the period pointer and pulls the next consumption
// value from the timeseries.
func (c *Consumers) Dispatch() PlantOutput {
	previousSetpoint := c.currentSetpoint
	previousCost := c.cost()
	c.period = c.period.Next()
	c.currentSetpoint = c.setpoints.ValueAt(c.period)

	output := PlantOutput{Setpoint: previousSetpoint, Cost: previousCost}
	c.history = append(c.history, output)
	return output
}

func (c *Consumers) CurrentState() any {
	return ConsumersState{
		MaxPower: c.maxPower,
		Output:   PlantOutput{Setpoint: c.currentSetpoint, Cost: c.cost()},
	}
}

// GetForecast exposes the timeseries value for the next period with
// the plant's declared deviation band.
func (c *Consumers) GetForecast() []Forecast {
	next := c.period.Next()
	return []Forecast{{
		Period: next,
		Value: ForecastValue{
			Value:     c.setpoints.ValueAt(next),
			Deviation: c.forecastDeviation,
		},
	}}
}

func (c *Consumers) GetHistory() []PlantOutput {
	out := make([]PlantOutput, len(c.history))
	copy(out, c.history)
	return out
}
