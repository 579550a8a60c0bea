// Package collide is a small 2D rigid-body stepper for equal-mass discs
// inside static axis-aligned walls. Collisions are perfectly elastic and
// frictionless.
package collide

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/gas"
)

type World struct {
	walls    []gas.Wall
	substeps int

	cell  float64
	grid  map[[2]int][]int
	cells [][2]int

	pistonImpulse float64
	contacts      int
}

// NewWorld returns a world that splits each Step into substeps and uses
// a broadphase cell of one particle diameter.
func NewWorld(substeps int, radius float64) *World {
	if substeps < 1 {
		substeps = 1
	}
	return &World{
		substeps: substeps,
		cell:     2 * radius,
		grid:     make(map[[2]int][]int),
	}
}

func (w *World) SetWalls(walls []gas.Wall) {
	w.walls = append(w.walls[:0], walls...)
}

// PistonImpulse is the momentum delivered to the piston during the last Step.
func (w *World) PistonImpulse() float64 { return w.pistonImpulse }

// Contacts counts particle-particle collisions resolved during the last Step.
func (w *World) Contacts() int { return w.contacts }

// Step advances the ensemble by dt.
func (w *World) Step(dt float64, ens *gas.Ensemble) {
	w.pistonImpulse = 0
	w.contacts = 0
	if dt <= 0 || ens.Len() == 0 {
		return
	}

	h := dt / float64(w.substeps)
	for s := 0; s < w.substeps; s++ {
		for i := range ens.Particles {
			p := &ens.Particles[i]
			p.Pos = p.Pos.Add(p.Vel.Mul(h))
		}
		w.collideParticles(ens)
		w.collideWalls(ens)
	}
}

func (w *World) cellOf(p mgl64.Vec2) (int, int) {
	return int(math.Floor(p[0] / w.cell)), int(math.Floor(p[1] / w.cell))
}

func (w *World) collideParticles(ens *gas.Ensemble) {
	for _, k := range w.cells {
		w.grid[k] = w.grid[k][:0]
	}
	w.cells = w.cells[:0]

	for i, p := range ens.Particles {
		ix, iy := w.cellOf(p.Pos)
		k := [2]int{ix, iy}
		if len(w.grid[k]) == 0 {
			w.cells = append(w.cells, k)
		}
		w.grid[k] = append(w.grid[k], i)
	}

	minDist := 2 * ens.Radius
	for i := range ens.Particles {
		ix, iy := w.cellOf(ens.Particles[i].Pos)
		for xx := ix - 1; xx <= ix+1; xx++ {
			for yy := iy - 1; yy <= iy+1; yy++ {
				for _, j := range w.grid[[2]int{xx, yy}] {
					if j <= i {
						continue
					}
					if w.resolvePair(&ens.Particles[i], &ens.Particles[j], minDist) {
						w.contacts++
					}
				}
			}
		}
	}
}

// resolvePair separates two overlapping discs and, if they approach,
// swaps their normal velocity components.
func (w *World) resolvePair(a, b *gas.Particle, minDist float64) bool {
	d := b.Pos.Sub(a.Pos)
	dist2 := d.Dot(d)
	if dist2 >= minDist*minDist {
		return false
	}

	dist := math.Sqrt(dist2)
	var n mgl64.Vec2
	if dist > 0 {
		n = d.Mul(1 / dist)
	} else {
		n = mgl64.Vec2{1, 0}
	}

	push := n.Mul((minDist - dist) / 2)
	a.Pos = a.Pos.Sub(push)
	b.Pos = b.Pos.Add(push)

	approach := b.Vel.Sub(a.Vel).Dot(n)
	if approach >= 0 {
		return false
	}
	j := n.Mul(approach)
	a.Vel = a.Vel.Add(j)
	b.Vel = b.Vel.Sub(j)
	return true
}

func (w *World) collideWalls(ens *gas.Ensemble) {
	r := ens.Radius
	for i := range ens.Particles {
		p := &ens.Particles[i]
		for _, wall := range w.walls {
			n, depth, hit := discBox(p.Pos, r, wall)
			if !hit {
				continue
			}
			p.Pos = p.Pos.Add(n.Mul(depth))

			vn := p.Vel.Dot(n)
			if vn >= 0 {
				continue
			}
			p.Vel = p.Vel.Sub(n.Mul(2 * vn))
			if wall.Kind == gas.PistonWall {
				w.pistonImpulse += -2 * vn * ens.Mass
			}
		}
	}
}

// discBox returns the contact normal pointing out of the wall and the
// distance the disc has to move along it.
func discBox(c mgl64.Vec2, r float64, wall gas.Wall) (mgl64.Vec2, float64, bool) {
	box := wall.Rect()
	closest := box.Clamp(c)
	d := c.Sub(closest)
	dist2 := d.Dot(d)

	if dist2 > 0 {
		if dist2 >= r*r {
			return mgl64.Vec2{}, 0, false
		}
		dist := math.Sqrt(dist2)
		return d.Mul(1 / dist), r - dist, true
	}

	// Centre inside the box: leave through the nearest face.
	faces := [4]struct {
		n     mgl64.Vec2
		depth float64
	}{
		{mgl64.Vec2{-1, 0}, c[0] - box.Min[0]},
		{mgl64.Vec2{1, 0}, box.Max[0] - c[0]},
		{mgl64.Vec2{0, -1}, c[1] - box.Min[1]},
		{mgl64.Vec2{0, 1}, box.Max[1] - c[1]},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.depth < best.depth {
			best = f
		}
	}
	return best.n, best.depth + r, true
}
