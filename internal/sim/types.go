package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/curves"
	"github.com/san-kum/pvsim/internal/gas"
	"github.com/san-kum/pvsim/internal/geom"
	"github.com/san-kum/pvsim/internal/thermo"
)

// Input is the pointer state for one tick, in world coordinates.
type Input struct {
	Cursor  mgl64.Vec2
	Pressed bool
}

// InputSource supplies the input for each tick of a headless run. tick
// counts from 1 and t is the simulated time at the end of that tick.
type InputSource interface {
	Input(tick int, t float64) Input
}

type InputFunc func(tick int, t float64) Input

func (f InputFunc) Input(tick int, t float64) Input { return f(tick, t) }

// Idle never presses.
var Idle = InputFunc(func(int, float64) Input { return Input{} })

// Engine integrates particle motion and resolves collisions against the
// walls it was last given.
type Engine interface {
	SetWalls(walls []gas.Wall)
	Step(dt float64, ens *gas.Ensemble)
}

// ImpulseReporter is implemented by engines that measure the momentum
// delivered to the piston.
type ImpulseReporter interface {
	PistonImpulse() float64
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f *Frame)
}

// Frame is everything a renderer or recorder needs from one tick. It owns
// its slices.
type Frame struct {
	Tick   int
	Time   float64
	Dt     float64
	Handle mgl64.Vec2

	State   thermo.GasState
	Work    float64
	Readout thermo.Readout

	Boundary  gas.Boundary
	Interior  geom.Rect
	Walls     []gas.Wall
	Particles []gas.Particle
	Curves    []curves.Curve

	KineticEnergy  float64
	Relocated      int
	RescaleSkipped bool
	PistonImpulse  float64
}

type Result struct {
	Ticks   int
	Final   *Frame
	Metrics map[string]float64
}
