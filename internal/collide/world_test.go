package collide

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/gas"
)

func TestWorld_HeadOnCollision(t *testing.T) {
	ens := &gas.Ensemble{
		Mass:   1,
		Radius: 4,
		Particles: []gas.Particle{
			{Pos: mgl64.Vec2{0, 0}, Vel: mgl64.Vec2{1, 0}},
			{Pos: mgl64.Vec2{7, 0}, Vel: mgl64.Vec2{-1, 0}},
		},
	}
	w := NewWorld(1, ens.Radius)
	w.Step(1, ens)

	if w.Contacts() != 1 {
		t.Fatalf("expected 1 contact, got %d", w.Contacts())
	}
	if !ens.Particles[0].Vel.ApproxEqual(mgl64.Vec2{-1, 0}) {
		t.Errorf("expected first particle to bounce back, got %v", ens.Particles[0].Vel)
	}
	if !ens.Particles[1].Vel.ApproxEqual(mgl64.Vec2{1, 0}) {
		t.Errorf("expected second particle to bounce back, got %v", ens.Particles[1].Vel)
	}
	gap := ens.Particles[1].Pos.Sub(ens.Particles[0].Pos).Len()
	if math.Abs(gap-8) > 1e-9 {
		t.Errorf("expected discs separated to 8, got %v", gap)
	}
}

func TestWorld_GlancingKeepsTangent(t *testing.T) {
	ens := &gas.Ensemble{
		Mass:   1,
		Radius: 1,
		Particles: []gas.Particle{
			{Pos: mgl64.Vec2{0, 0}, Vel: mgl64.Vec2{1, 3}},
			{Pos: mgl64.Vec2{1.5, 0}, Vel: mgl64.Vec2{0, 0}},
		},
	}
	w := NewWorld(1, ens.Radius)
	w.Step(1e-6, ens)

	if math.Abs(ens.Particles[0].Vel[1]-3) > 1e-4 {
		t.Errorf("tangential velocity changed: %v", ens.Particles[0].Vel)
	}
	if math.Abs(ens.Particles[1].Vel[0]-1) > 1e-4 {
		t.Errorf("normal velocity not transferred: %v", ens.Particles[1].Vel)
	}
}

func TestWorld_DistantCellsStaySeparate(t *testing.T) {
	// Cell (19349663, 73856093) must not share a bucket with cell (0, 0).
	fx, fy := 19349663*2+0.5, 73856093*2+0.5
	ens := &gas.Ensemble{
		Mass:   1,
		Radius: 1,
		Particles: []gas.Particle{
			{Pos: mgl64.Vec2{0.5, 0.5}, Vel: mgl64.Vec2{1, 0}},
			{Pos: mgl64.Vec2{2, 0.5}, Vel: mgl64.Vec2{-1, 0}},
			{Pos: mgl64.Vec2{fx, fy}, Vel: mgl64.Vec2{1, 0}},
			{Pos: mgl64.Vec2{fx + 1.5, fy}, Vel: mgl64.Vec2{-1, 0}},
		},
	}
	w := NewWorld(1, ens.Radius)
	w.Step(1e-6, ens)

	if w.Contacts() != 2 {
		t.Fatalf("expected one contact per pair, got %d", w.Contacts())
	}
	for i, want := range []float64{-1, 1, -1, 1} {
		if math.Abs(ens.Particles[i].Vel[0]-want) > 1e-9 {
			t.Errorf("particle %d velocity = %v, want x %v", i, ens.Particles[i].Vel, want)
		}
	}
}

func TestWorld_PistonReflection(t *testing.T) {
	cfg := config.DefaultConfig()
	bd := gas.NewBoxGeometry(cfg).Update(0)

	ens := &gas.Ensemble{
		Mass:      1e-3,
		Radius:    4,
		Particles: []gas.Particle{{Pos: mgl64.Vec2{-22, 110}, Vel: mgl64.Vec2{100, 0}}},
	}
	w := NewWorld(1, ens.Radius)
	w.SetWalls(bd.Walls())
	w.Step(0.05, ens)

	p := ens.Particles[0]
	if !p.Pos.ApproxEqual(mgl64.Vec2{-20, 110}) {
		t.Errorf("expected particle resting against piston at -20, got %v", p.Pos)
	}
	if !p.Vel.ApproxEqual(mgl64.Vec2{-100, 0}) {
		t.Errorf("expected reflected velocity, got %v", p.Vel)
	}
	if math.Abs(w.PistonImpulse()-0.2) > 1e-12 {
		t.Errorf("expected piston impulse 0.2, got %v", w.PistonImpulse())
	}

	w.Step(0.05, ens)
	if w.PistonImpulse() != 0 {
		t.Errorf("impulse must reset every step, got %v", w.PistonImpulse())
	}
}

func TestWorld_ConservesEnergyAndContainment(t *testing.T) {
	cfg := config.DefaultConfig()
	bd := gas.NewBoxGeometry(cfg).Update(0)
	interior := bd.Interior(cfg.Particles.Radius)

	ens := gas.NewEnsemble(cfg, interior, rand.New(rand.NewSource(3)))
	w := NewWorld(cfg.Substeps, ens.Radius)
	w.SetWalls(bd.Walls())

	ke0 := ens.KineticEnergy()
	contacts := 0
	for i := 0; i < 240; i++ {
		w.Step(cfg.Dt, ens)
		contacts += w.Contacts()
	}

	if ke := ens.KineticEnergy(); math.Abs(ke-ke0) > 1e-9*ke0 {
		t.Errorf("kinetic energy drifted from %v to %v", ke0, ke)
	}
	if contacts == 0 {
		t.Error("expected some particle collisions in four seconds")
	}

	loose := interior.Inset(-1e-6)
	for i, p := range ens.Particles {
		if !loose.Contains(p.Pos) {
			t.Errorf("particle %d escaped to %v", i, p.Pos)
		}
	}
}

func TestWorld_ZeroDt(t *testing.T) {
	ens := &gas.Ensemble{
		Mass:      1,
		Radius:    1,
		Particles: []gas.Particle{{Pos: mgl64.Vec2{1, 2}, Vel: mgl64.Vec2{3, 4}}},
	}
	w := NewWorld(0, ens.Radius)
	w.Step(0, ens)
	if ens.Particles[0].Pos != (mgl64.Vec2{1, 2}) {
		t.Errorf("particle moved on zero dt: %v", ens.Particles[0].Pos)
	}
}
