package gas

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/geom"
)

// Relocator puts escaped particles back into the box.
type Relocator struct {
	rng *rand.Rand
}

func NewRelocator(rng *rand.Rand) *Relocator {
	return &Relocator{rng: rng}
}

// Relocate moves every particle whose centre lies outside interior to a
// uniformly drawn point inside it and returns how many were moved.
// Velocities are kept.
func (r *Relocator) Relocate(e *Ensemble, interior geom.Rect) int {
	moved := 0
	for i := range e.Particles {
		if interior.Contains(e.Particles[i].Pos) {
			continue
		}
		e.Particles[i].Pos = r.draw(interior)
		moved++
	}
	return moved
}

// draw picks a uniform point strictly inside interior. Float64 can return 0
// and the sum can round onto Max, so edge draws are retried.
func (r *Relocator) draw(interior geom.Rect) mgl64.Vec2 {
	for try := 0; try < 16; try++ {
		p := mgl64.Vec2{
			interior.Min[0] + r.rng.Float64()*interior.Width(),
			interior.Min[1] + r.rng.Float64()*interior.Height(),
		}
		if interior.ContainsStrict(p) {
			return p
		}
	}
	return interior.Center()
}
