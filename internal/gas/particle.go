// Package gas holds the particle ensemble and the rules that keep it
// consistent with the thermodynamic state: the box boundary that follows
// the piston, the energy rescaler and the particle relocator.
package gas

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/geom"
)

type Particle struct {
	Pos mgl64.Vec2 `json:"pos"`
	Vel mgl64.Vec2 `json:"vel"`
}

// Ensemble is the fixed particle population. Mass and radius are shared.
type Ensemble struct {
	Particles []Particle
	Mass      float64
	Radius    float64
}

// NewEnsemble lays the configured grid evenly over interior and draws each
// velocity component uniformly from [-speed, speed).
func NewEnsemble(cfg *config.Config, interior geom.Rect, rng *rand.Rand) *Ensemble {
	gx, gy := cfg.Particles.GridX, cfg.Particles.GridY
	center := interior.Center()

	step := mgl64.Vec2{}
	if gx > 0 {
		step[0] = interior.Width() / float64(2*gx)
	}
	if gy > 0 {
		step[1] = interior.Height() / float64(2*gy)
	}

	speed := cfg.Particles.Speed
	particles := make([]Particle, 0, cfg.NumParticles())
	for ix := -gx; ix <= gx; ix++ {
		for iy := -gy; iy <= gy; iy++ {
			pos := interior.Clamp(mgl64.Vec2{
				center[0] + float64(ix)*step[0],
				center[1] + float64(iy)*step[1],
			})
			vel := mgl64.Vec2{
				(rng.Float64()*2 - 1) * speed,
				(rng.Float64()*2 - 1) * speed,
			}
			particles = append(particles, Particle{Pos: pos, Vel: vel})
		}
	}

	return &Ensemble{
		Particles: particles,
		Mass:      cfg.Particles.Mass,
		Radius:    cfg.Particles.Radius,
	}
}

func (e *Ensemble) Len() int { return len(e.Particles) }

// KineticEnergy is the sum of (m/2)|v|^2 over all particles.
func (e *Ensemble) KineticEnergy() float64 {
	var sum float64
	for _, p := range e.Particles {
		sum += p.Vel.Dot(p.Vel)
	}
	return e.Mass / 2 * sum
}

// MeanSpeed is used for colouring and diagnostics.
func (e *Ensemble) MeanSpeed() float64 {
	if len(e.Particles) == 0 {
		return 0
	}
	var sum float64
	for _, p := range e.Particles {
		sum += p.Vel.Len()
	}
	return sum / float64(len(e.Particles))
}

// Finite reports whether every position and velocity is a finite number.
func (e *Ensemble) Finite() bool {
	for _, p := range e.Particles {
		for _, v := range [4]float64{p.Pos[0], p.Pos[1], p.Vel[0], p.Vel[1]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Snapshot copies the particles so callers can keep them past the next tick.
func (e *Ensemble) Snapshot() []Particle {
	out := make([]Particle, len(e.Particles))
	copy(out, e.Particles)
	return out
}
