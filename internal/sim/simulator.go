package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/curves"
	"github.com/san-kum/pvsim/internal/gas"
	"github.com/san-kum/pvsim/internal/geom"
	"github.com/san-kum/pvsim/internal/thermo"
)

// Simulation is the single state record of one running demonstration: the
// control point, the work total and the particle ensemble, plus the
// collaborators that keep them consistent. It is not safe for concurrent use.
type Simulation struct {
	cfg       *config.Config
	model     *thermo.Model
	box       gas.BoxGeometry
	ens       *gas.Ensemble
	engine    Engine
	relocator *gas.Relocator

	handle   mgl64.Vec2
	work     thermo.Work
	boundary gas.Boundary

	tick int
	time float64

	metrics   []Metric
	observers []Observer
}

// New validates cfg, places the handle at the plot centre and fills the box
// with the particle grid. The engine receives the initial walls.
func New(cfg *config.Config, engine Engine) (*Simulation, error) {
	model, err := thermo.NewModel(cfg)
	if err != nil {
		return nil, err
	}
	if engine == nil {
		return nil, fmt.Errorf("sim: engine is required")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	box := gas.NewBoxGeometry(cfg)
	handle := model.Center()
	boundary := box.Update(handle[0])

	s := &Simulation{
		cfg:       cfg,
		model:     model,
		box:       box,
		ens:       gas.NewEnsemble(cfg, boundary.Interior(cfg.Particles.Radius), rng),
		engine:    engine,
		relocator: gas.NewRelocator(rng),
		handle:    handle,
		boundary:  boundary,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	engine.SetWalls(boundary.Walls())
	return s, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Config() *config.Config  { return s.cfg }
func (s *Simulation) Model() *thermo.Model    { return s.model }
func (s *Simulation) Handle() mgl64.Vec2      { return s.handle }
func (s *Simulation) Work() float64           { return s.work.Total() }
func (s *Simulation) Boundary() gas.Boundary  { return s.boundary }
func (s *Simulation) Ensemble() *gas.Ensemble { return s.ens }
func (s *Simulation) Tick() int               { return s.tick }

// Bounds is the world rectangle a renderer has to show: the box and the
// plot.
func (s *Simulation) Bounds() geom.Rect { return geom.Union(s.box.Outer, s.model.Plot()) }

// State is the gas state at the current control point.
func (s *Simulation) State() thermo.GasState { return s.model.State(s.handle) }

// Step runs one tick: physics, input, work, boundary, relocation, energy
// rescale, curves and readout, in that order.
func (s *Simulation) Step(in Input) (*Frame, error) {
	dt := s.cfg.Dt
	s.engine.Step(dt, s.ens)
	s.tick++
	s.time += dt

	s.applyInput(in)

	s.boundary = s.box.Update(s.handle[0])
	walls := s.boundary.Walls()
	s.engine.SetWalls(walls)

	interior := s.boundary.Interior(s.ens.Radius)
	relocated := s.relocator.Relocate(s.ens, interior)

	state := s.model.State(s.handle)
	_, applied := gas.Rescale(s.ens, state.InternalEnergy)

	fields := log.Fields{"tick": s.tick, "handle": s.handle}
	if relocated > 0 {
		log.WithFields(fields).WithField("count", relocated).Debug("relocated particles")
	}
	if !applied {
		log.WithFields(fields).Debug("rescale skipped, no kinetic energy")
	}

	ke := s.ens.KineticEnergy()
	if math.IsNaN(ke) || math.IsInf(ke, 0) || !s.ens.Finite() {
		return nil, &TickError{Tick: s.tick, Time: s.time, Wrapped: ErrNonFinite}
	}

	f := &Frame{
		Tick:           s.tick,
		Time:           s.time,
		Dt:             dt,
		Handle:         s.handle,
		State:          state,
		Work:           s.work.Total(),
		Readout:        thermo.NewReadout(state, s.work.Total()),
		Boundary:       s.boundary,
		Interior:       interior,
		Walls:          walls,
		Particles:      s.ens.Snapshot(),
		Curves:         curves.All(s.model, s.handle),
		KineticEnergy:  ke,
		Relocated:      relocated,
		RescaleSkipped: !applied,
	}
	if r, ok := s.engine.(ImpulseReporter); ok {
		f.PistonImpulse = r.PistonImpulse()
	}

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnFrame(f)
	}
	return f, nil
}

// applyInput moves the handle when the button is held inside the plot and
// accounts for the work done by the move.
func (s *Simulation) applyInput(in Input) {
	if !in.Pressed || !s.model.InPlot(in.Cursor) {
		return
	}
	next := s.model.Clamp(in.Cursor)
	if next == s.handle {
		return
	}
	prev := s.handle
	s.work.Update(
		s.model.Pressure(prev[1]), s.model.Pressure(next[1]),
		s.model.Volume(prev[0]), s.model.Volume(next[0]),
	)
	s.handle = next
}

// Run steps the simulation for the given number of ticks, checking ctx
// between ticks.
func (s *Simulation) Run(ctx context.Context, src InputSource, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("sim: ticks must be positive, got %d", ticks)
	}
	if src == nil {
		src = Idle
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{Metrics: make(map[string]float64)}
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}

		f, err := s.Step(src.Input(s.tick+1, s.time+s.cfg.Dt))
		if err != nil {
			return result, err
		}
		result.Final = f
		result.Ticks++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	log.WithFields(log.Fields{
		"ticks": result.Ticks,
		"work":  s.work.Total(),
	}).Debug("run finished")
	return result, nil
}
