package metrics

import "github.com/san-kum/pvsim/internal/sim"

// PressureRatio compares the pressure the particles exert on the piston,
// impulse per unit length per unit time, with the commanded pressure,
// both averaged over the run. It is 0 when the engine reports no impulse.
type PressureRatio struct {
	name      string
	impulse   float64
	exposure  float64
	commanded float64
	samples   int
}

func NewPressureRatio() *PressureRatio {
	return &PressureRatio{name: "pressure_ratio"}
}

func (p *PressureRatio) Name() string { return p.name }

func (p *PressureRatio) Observe(f *sim.Frame) {
	p.impulse += f.PistonImpulse
	p.exposure += f.Dt * f.Boundary.PistonLength()
	p.commanded += f.State.Pressure
	p.samples++
}

// Kinetic is the measured mean pressure on the piston.
func (p *PressureRatio) Kinetic() float64 {
	if p.exposure == 0 {
		return 0
	}
	return p.impulse / p.exposure
}

func (p *PressureRatio) Value() float64 {
	if p.samples == 0 || p.commanded == 0 {
		return 0
	}
	return p.Kinetic() / (p.commanded / float64(p.samples))
}

func (p *PressureRatio) Reset() {
	p.impulse = 0
	p.exposure = 0
	p.commanded = 0
	p.samples = 0
}

// Default returns a fresh instance of every metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyError(),
		NewContainment(),
		NewRelocations(),
		NewRescaleSkips(),
		NewWorkEffort(),
		NewPressureRatio(),
	}
}
