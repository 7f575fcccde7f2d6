package plant

import (
	"parcelec-core/ids"
	"parcelec-core/units"
)

// BatteryState is the public representation of a Battery.
type BatteryState struct {
	MaxCharge units.Energy
	Charge    units.Energy
	Output    PlantOutput
}

// Battery stores energy across delivery periods at no operating cost.
// In generator convention a positive setpoint discharges the battery
// (energy flows to the grid) and a negative setpoint charges it.
// Grounded on original_source's technologies/battery.rs.
type Battery struct {
	id        ids.PlantId
	maxCharge units.Energy
	charge    units.Energy
	setpoint  units.Power
	history   []PlantOutput
}

// NewBattery creates a battery with the given capacity and initial charge.
func NewBattery(maxCharge, startCharge units.Energy) *Battery {
	return &Battery{
		id:        ids.NewPlantId(),
		maxCharge: maxCharge,
		charge:    startCharge,
	}
}

func (b *Battery) ID() ids.PlantId { return b.id }

// maxPositivePower is the most the battery can discharge this period
// without running its charge below zero.
func (b *Battery) maxPositivePower() units.Power {
	return units.Power(b.charge)
}

// minNegativePower is the most the battery can charge this period
// without exceeding its capacity.
func (b *Battery) minNegativePower() units.Power {
	return -units.Power(b.maxCharge - b.charge)
}

// ProgramSetpoint clips the candidate setpoint to what the current
// charge level allows for a one-period dispatch.
func (b *Battery) ProgramSetpoint(setpoint units.Power) PlantOutput {
	b.setpoint = clipPower(setpoint, b.minNegativePower(), b.maxPositivePower())
	return PlantOutput{Setpoint: b.setpoint, Cost: 0}
}

// Dispatch commits the setpoint, updates the stored charge, records
// history, and resets the candidate setpoint back to neutral.
func (b *Battery) Dispatch() PlantOutput {
	setpoint := b.setpoint
	nextCharge := b.charge - units.Energy(b.setpoint)
	output := PlantOutput{Setpoint: setpoint, Cost: 0}

	b.charge = nextCharge
	b.setpoint = 0
	b.history = append(b.history, output)

	return output
}

func (b *Battery) CurrentState() any {
	return BatteryState{
		MaxCharge: b.maxCharge,
		Charge:    b.charge,
		Output:    PlantOutput{Setpoint: b.setpoint, Cost: 0},
	}
}

// GetForecast always returns nil: a battery's future output depends
// entirely on how the player programs it, not on external uncertainty.
func (b *Battery) GetForecast() []Forecast { return nil }

func (b *Battery) GetHistory() []PlantOutput {
	out := make([]PlantOutput, len(b.history))
	copy(out, b.history)
	return out
}
