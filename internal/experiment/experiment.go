package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/pvsim/internal/automation"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/sim"
)

type Config struct {
	Preset   string
	Path     string
	Engine   string
	Scenario string
	// Ticks overrides the scenario length; required without a scenario.
	Ticks int
}

type Experiment struct {
	cfg       Config
	simCfg    *config.Config
	scenario  *automation.Scenario
	simulator *sim.Simulation
	source    sim.InputSource
	ticks     int
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the simulation from simCfg, which must already carry any
// overrides. observers are attached in order.
func (e *Experiment) Setup(r *Registry, simCfg *config.Config, observers ...sim.Observer) error {
	engine, err := r.GetEngine(e.cfg.Engine, simCfg)
	if err != nil {
		return err
	}

	s, err := sim.New(simCfg, engine)
	if err != nil {
		return err
	}
	for _, m := range r.DefaultMetrics() {
		s.AddMetric(m)
	}
	for _, o := range observers {
		s.AddObserver(o)
	}

	e.simCfg = simCfg
	e.simulator = s
	e.source = sim.Idle
	e.ticks = e.cfg.Ticks

	if e.cfg.Scenario != "" {
		sc, err := r.GetScenario(e.cfg.Scenario)
		if err != nil {
			return err
		}
		src, err := sc.Source(s.Model())
		if err != nil {
			return err
		}
		e.scenario = sc
		e.source = src
		if e.ticks == 0 {
			e.ticks = sc.Ticks(simCfg.Dt)
		}
	}
	if e.ticks <= 0 {
		return fmt.Errorf("experiment: tick count required without a scenario")
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.source, e.ticks)
}

// GetSimulator returns the underlying simulation for adding observers
func (e *Experiment) GetSimulator() *sim.Simulation {
	return e.simulator
}

// ScenarioName is empty for idle runs.
func (e *Experiment) ScenarioName() string {
	if e.scenario == nil {
		return ""
	}
	return e.scenario.Name
}

func (e *Experiment) Ticks() int { return e.ticks }
