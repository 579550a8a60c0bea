package metrics

import (
	"math"

	"github.com/san-kum/pvsim/internal/sim"
)

// Energy is the mean internal energy over the run.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *sim.Frame) {
	e.totalEnergy += f.State.InternalEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyError is the largest relative gap between the particles' kinetic
// energy and the internal energy they are meant to carry. Ticks whose
// rescale was skipped are not counted.
type EnergyError struct {
	name     string
	maxError float64
	samples  int
}

func NewEnergyError() *EnergyError {
	return &EnergyError{name: "energy_error"}
}

func (e *EnergyError) Name() string { return e.name }

func (e *EnergyError) Observe(f *sim.Frame) {
	if f.RescaleSkipped || f.State.InternalEnergy == 0 {
		return
	}
	gap := math.Abs(f.KineticEnergy-f.State.InternalEnergy) / math.Abs(f.State.InternalEnergy)
	e.maxError = math.Max(e.maxError, gap)
	e.samples++
}

func (e *EnergyError) Value() float64 {
	return e.maxError
}

func (e *EnergyError) Reset() {
	e.maxError = 0
	e.samples = 0
}
