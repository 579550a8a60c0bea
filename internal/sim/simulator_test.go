package sim_test

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pvsim/internal/collide"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/gas"
	"github.com/san-kum/pvsim/internal/sim"
)

// recordingEngine wraps a real world and remembers the piston position it
// saw at each Step.
type recordingEngine struct {
	*collide.World
	walls   []gas.Wall
	pistons []float64
	mutate  func(ens *gas.Ensemble)
}

func (r *recordingEngine) SetWalls(walls []gas.Wall) {
	r.walls = walls
	r.World.SetWalls(walls)
}

func (r *recordingEngine) Step(dt float64, ens *gas.Ensemble) {
	r.pistons = append(r.pistons, r.walls[gas.PistonWall].Center[0])
	r.World.Step(dt, ens)
	if r.mutate != nil {
		r.mutate(ens)
	}
}

type countingObserver struct{ frames []*sim.Frame }

func (c *countingObserver) OnFrame(f *sim.Frame) { c.frames = append(c.frames, f) }

type tickMetric struct{ n int }

func (m *tickMetric) Name() string         { return "ticks" }
func (m *tickMetric) Observe(f *sim.Frame) { m.n++ }
func (m *tickMetric) Value() float64       { return float64(m.n) }
func (m *tickMetric) Reset()               { m.n = 0 }

func press(p mgl64.Vec2) sim.Input { return sim.Input{Cursor: p, Pressed: true} }

var _ = Describe("Simulation", func() {
	var (
		cfg    *config.Config
		engine *recordingEngine
		s      *sim.Simulation
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.Seed = 11
		engine = &recordingEngine{World: collide.NewWorld(cfg.Substeps, cfg.Particles.Radius)}
		var err error
		s, err = sim.New(cfg, engine)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("New", func() {
		It("rejects an invalid configuration", func() {
			bad := config.DefaultConfig()
			bad.Scales.Pressure = 0
			_, err := sim.New(bad, engine)
			Expect(err).To(MatchError(config.ErrInvalidConfig))
		})

		It("rejects non-finite geometry and speed before the first tick", func() {
			nanBox := config.DefaultConfig()
			nanBox.Box.Y = math.NaN()
			_, err := sim.New(nanBox, engine)
			Expect(err).To(MatchError(config.ErrInvalidConfig))

			fast := config.DefaultConfig()
			fast.Particles.Speed = math.Inf(1)
			_, err = sim.New(fast, engine)
			Expect(err).To(MatchError(config.ErrInvalidConfig))
		})

		It("requires an engine", func() {
			_, err := sim.New(config.DefaultConfig(), nil)
			Expect(err).To(HaveOccurred())
		})

		It("starts at the plot centre with no work and publishes walls", func() {
			Expect(s.Handle()).To(Equal(s.Model().Center()))
			Expect(s.Work()).To(BeZero())
			Expect(engine.walls).To(HaveLen(4))
			Expect(s.Ensemble().Len()).To(Equal(cfg.NumParticles()))
		})
	})

	Describe("Step", func() {
		It("ignores input when the button is up", func() {
			f, err := s.Step(sim.Input{Cursor: mgl64.Vec2{100, -100}})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Handle).To(Equal(s.Model().Center()))
			Expect(f.Work).To(BeZero())
		})

		It("ignores presses outside the plot", func() {
			for _, p := range []mgl64.Vec2{{500, -190}, {0, 0}, {-404, -190}} {
				f, err := s.Step(press(p))
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Handle).To(Equal(s.Model().Center()))
			}
		})

		It("clamps presses near the edge", func() {
			f, err := s.Step(press(mgl64.Vec2{400, -70}))
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Handle).To(Equal(mgl64.Vec2{388, -81}))
		})

		It("adds P*dV when compressing at constant pressure", func() {
			m := s.Model()
			_, err := s.Step(press(m.PointFor(50, 10)))
			Expect(err).NotTo(HaveOccurred())
			before := s.Work()

			f, err := s.Step(press(m.PointFor(40, 10)))
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Work - before).To(BeNumerically("~", 100, 1e-9))
		})

		It("leaves the work unchanged when the cursor holds still", func() {
			p := s.Model().PointFor(30, 20)
			_, err := s.Step(press(p))
			Expect(err).NotTo(HaveOccurred())
			w := s.Work()
			for i := 0; i < 5; i++ {
				_, err = s.Step(press(p))
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.Work()).To(Equal(w))
		})

		It("keeps kinetic energy equal to the internal energy", func() {
			m := s.Model()
			path := []mgl64.Vec2{m.PointFor(20, 5), m.PointFor(70, 20), m.PointFor(10, 22), m.Center()}
			for _, p := range path {
				for i := 0; i < 10; i++ {
					f, err := s.Step(press(p))
					Expect(err).NotTo(HaveOccurred())
					Expect(f.RescaleSkipped).To(BeFalse())
					Expect(f.KineticEnergy).To(BeNumerically("~", f.State.InternalEnergy, 1e-9*f.State.InternalEnergy))
				}
			}
		})

		It("keeps every particle inside the box interior", func() {
			m := s.Model()
			for _, p := range []mgl64.Vec2{m.PointFor(70, 12), m.PointFor(5, 12), m.PointFor(40, 3)} {
				f, err := s.Step(press(p))
				Expect(err).NotTo(HaveOccurred())
				for _, q := range f.Particles {
					Expect(f.Interior.Contains(q.Pos)).To(BeTrue(), "particle at %v", q.Pos)
				}
			}
		})

		It("relocates particles trapped behind a piston moved left", func() {
			f, err := s.Step(press(s.Model().PointFor(3, 12)))
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Relocated).To(BeNumerically(">", 0))
		})

		It("hands the engine the walls of the previous tick", func() {
			target := s.Model().PointFor(60, 12)
			_, err := s.Step(press(target))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.Step(press(target))
			Expect(err).NotTo(HaveOccurred())

			Expect(engine.pistons).To(HaveLen(2))
			Expect(engine.pistons[0]).To(Equal(s.Model().Center()[0]))
			Expect(engine.pistons[1]).To(Equal(target[0]))
		})

		It("moves the piston with the handle", func() {
			target := s.Model().PointFor(25, 12)
			f, err := s.Step(press(target))
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Boundary.PistonX).To(Equal(f.Handle[0]))
			Expect(f.Walls[gas.PistonWall].Center[0]).To(Equal(f.Handle[0]))
		})

		It("formats the readout from the frame state", func() {
			f, err := s.Step(press(s.Model().PointFor(30, 8)))
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Readout.Temperature).To(Equal(int64(math.Round(f.State.Temperature))))
			Expect(f.Readout.Heat).To(Equal(int64(math.Round(f.State.InternalEnergy - f.Work))))
			Expect(f.Curves).To(HaveLen(4))
		})

		It("skips the rescale when the gas has no kinetic energy", func() {
			engine.mutate = func(ens *gas.Ensemble) {
				for i := range ens.Particles {
					ens.Particles[i].Vel = mgl64.Vec2{}
				}
			}
			f, err := s.Step(sim.Input{})
			Expect(err).NotTo(HaveOccurred())
			Expect(f.RescaleSkipped).To(BeTrue())
			Expect(f.KineticEnergy).To(BeZero())
		})

		It("fails on non-finite velocities", func() {
			engine.mutate = func(ens *gas.Ensemble) {
				ens.Particles[0].Vel = mgl64.Vec2{math.NaN(), 0}
			}
			_, err := s.Step(sim.Input{})
			Expect(err).To(MatchError(sim.ErrNonFinite))
			var te *sim.TickError
			Expect(err).To(BeAssignableToTypeOf(te))
		})

		It("notifies metrics and observers once per tick", func() {
			obs := &countingObserver{}
			m := &tickMetric{}
			s.AddObserver(obs)
			s.AddMetric(m)
			for i := 0; i < 3; i++ {
				_, err := s.Step(sim.Input{})
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(obs.frames).To(HaveLen(3))
			Expect(obs.frames[2].Tick).To(Equal(3))
			Expect(m.Value()).To(Equal(3.0))
		})
	})

	Describe("Run", func() {
		It("runs the requested ticks and reports metrics", func() {
			s.AddMetric(&tickMetric{})
			res, err := s.Run(context.Background(), nil, 30)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(30))
			Expect(res.Final.Tick).To(Equal(30))
			Expect(res.Metrics).To(HaveKeyWithValue("ticks", 30.0))
		})

		It("stops on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, nil, 10)
			Expect(err).To(MatchError(sim.ErrCanceled))
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Ticks).To(BeZero())
		})

		It("rejects a non-positive tick count", func() {
			_, err := s.Run(context.Background(), nil, 0)
			Expect(err).To(HaveOccurred())
		})

		It("follows an input source", func() {
			target := s.Model().PointFor(15, 18)
			src := sim.InputFunc(func(int, float64) sim.Input { return press(target) })
			res, err := s.Run(context.Background(), src, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Final.Handle).To(Equal(target))
		})

		It("is reproducible for a fixed seed", func() {
			other, err := sim.New(cfg, collide.NewWorld(cfg.Substeps, cfg.Particles.Radius))
			Expect(err).NotTo(HaveOccurred())
			a, err := s.Run(context.Background(), nil, 20)
			Expect(err).NotTo(HaveOccurred())
			b, err := other.Run(context.Background(), nil, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Final.Particles).To(Equal(b.Final.Particles))
		})
	})
})

var _ = Describe("Batch", func() {
	It("runs one simulation per seed", func() {
		cfg := config.DefaultConfig()
		newEngine := func(c *config.Config) sim.Engine {
			return collide.NewWorld(c.Substeps, c.Particles.Radius)
		}
		results, err := sim.NewBatch(cfg, newEngine, 3, 100).
			WithMetrics(func() []sim.Metric { return []sim.Metric{&tickMetric{}} }).
			Run(context.Background(), sim.Idle, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Ticks).To(Equal(5))
			Expect(r.Metrics["ticks"]).To(Equal(5.0))
		}
		Expect(results[0].Final.Particles).NotTo(Equal(results[1].Final.Particles))
	})
})
