package plant

import (
	"parcelec-core/ids"
	"parcelec-core/units"
)

// NuclearState is the public representation of a NuclearPlant.
type NuclearState struct {
	Output           PlantOutput
	MaxSetpoint      units.Power
	PreviousSetpoint units.Power
	EnergyCost       units.EnergyCost
	Locked           bool
	Touched          bool
}

// NuclearPlant can be reprogrammed freely as long as its setpoint has
// not changed since the last dispatch; changing it locks the plant for
// the following period, modelling the slow ramp of a real reactor.
// Grounded on original_source's technologies/nuclear.rs.
type NuclearPlant struct {
	id               ids.PlantId
	maxSetpoint      units.Power
	energyCost       units.EnergyCost
	setpoint         units.Power
	previousSetpoint units.Power
	touched          bool
	locked           bool
	history          []PlantOutput
}

// NewNuclearPlant creates a nuclear plant starting at a zero setpoint,
// unlocked.
func NewNuclearPlant(maxSetpoint units.Power, energyCost units.EnergyCost) *NuclearPlant {
	return &NuclearPlant{
		id:          ids.NewPlantId(),
		maxSetpoint: maxSetpoint,
		energyCost:  energyCost,
	}
}

func (p *NuclearPlant) ID() ids.PlantId { return p.id }

func (p *NuclearPlant) cost() units.Money {
	return units.Energy(p.setpoint).Mul(p.energyCost)
}

// ProgramSetpoint is a no-op while the plant is locked. Otherwise it
// clips to [0, max_setpoint] and marks the plant touched whenever the
// candidate setpoint differs from the last dispatched one.
func (p *NuclearPlant) ProgramSetpoint(setpoint units.Power) PlantOutput {
	if !p.locked {
		p.setpoint = clipPower(setpoint, 0, p.maxSetpoint)
		p.touched = p.setpoint != p.previousSetpoint
	}
	return PlantOutput{Setpoint: p.setpoint, Cost: p.cost()}
}

// Dispatch locks the plant for next period iff it was touched this
// period, then commits the setpoint.
func (p *NuclearPlant) Dispatch() PlantOutput {
	p.locked = p.touched
	p.touched = false
	p.previousSetpoint = p.setpoint

	output := PlantOutput{Setpoint: p.setpoint, Cost: p.cost()}
	p.history = append(p.history, output)
	return output
}

func (p *NuclearPlant) CurrentState() any {
	return NuclearState{
		Output:           PlantOutput{Setpoint: p.setpoint, Cost: p.cost()},
		MaxSetpoint:      p.maxSetpoint,
		PreviousSetpoint: p.previousSetpoint,
		EnergyCost:       p.energyCost,
		Locked:           p.locked,
		Touched:          p.touched,
	}
}

// GetForecast always returns nil: nuclear output is fully determined
// by player programming, not external uncertainty.
func (p *NuclearPlant) GetForecast() []Forecast { return nil }

func (p *NuclearPlant) GetHistory() []PlantOutput {
	out := make([]PlantOutput, len(p.history))
	copy(out, p.history)
	return out
}
