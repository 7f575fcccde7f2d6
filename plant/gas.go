package plant

import (
	"parcelec-core/ids"
	"parcelec-core/units"
)

// GasPlantState is the public representation of a GasPlant.
type GasPlantState struct {
	MaxSetpoint units.Power
	EnergyCost  units.EnergyCost
	Output      PlantOutput
}

// GasPlant has no dynamic constraints beyond a fixed maximum setpoint:
// any value can be programmed freely every period. Grounded on
// original_source's technologies/gas_plant.rs.
type GasPlant struct {
	id          ids.PlantId
	energyCost  units.EnergyCost
	maxSetpoint units.Power
	setpoint    units.Power
	history     []PlantOutput
}

// NewGasPlant creates a gas plant starting at a zero setpoint.
func NewGasPlant(energyCost units.EnergyCost, maxSetpoint units.Power) *GasPlant {
	return &GasPlant{
		id:          ids.NewPlantId(),
		energyCost:  energyCost,
		maxSetpoint: maxSetpoint,
	}
}

func (p *GasPlant) ID() ids.PlantId { return p.id }

func (p *GasPlant) cost() units.Money {
	return units.Energy(p.setpoint).Mul(p.energyCost)
}

// ProgramSetpoint clips the candidate setpoint to [0, max_setpoint].
func (p *GasPlant) ProgramSetpoint(setpoint units.Power) PlantOutput {
	p.setpoint = clipPower(setpoint, 0, p.maxSetpoint)
	return PlantOutput{Setpoint: p.setpoint, Cost: p.cost()}
}

// Dispatch commits the current setpoint and records it in history. The
// setpoint is kept after dispatching — unlike Battery, a gas plant has
// no internal store for it to reset.
func (p *GasPlant) Dispatch() PlantOutput {
	output := PlantOutput{Setpoint: p.setpoint, Cost: p.cost()}
	p.history = append(p.history, output)
	return output
}

func (p *GasPlant) CurrentState() any {
	return GasPlantState{
		MaxSetpoint: p.maxSetpoint,
		EnergyCost:  p.energyCost,
		Output:      PlantOutput{Setpoint: p.setpoint, Cost: p.cost()},
	}
}

// GetForecast always returns nil: a gas plant has no uncertainty to
// forecast, its setpoint is whatever is programmed.
func (p *GasPlant) GetForecast() []Forecast { return nil }

func (p *GasPlant) GetHistory() []PlantOutput {
	out := make([]PlantOutput, len(p.history))
	copy(out, p.history)
	return out
}
