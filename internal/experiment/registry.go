package experiment

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/pvsim/internal/automation"
	"github.com/san-kum/pvsim/internal/collide"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/metrics"
	"github.com/san-kum/pvsim/internal/sim"
)

type Registry struct {
	engines map[string]func(cfg *config.Config) sim.Engine
}

func NewRegistry() *Registry {
	r := &Registry{
		engines: make(map[string]func(cfg *config.Config) sim.Engine),
	}

	r.engines["collide"] = func(cfg *config.Config) sim.Engine {
		return collide.NewWorld(cfg.Substeps, cfg.Particles.Radius)
	}

	return r
}

func (r *Registry) GetEngine(name string, cfg *config.Config) (sim.Engine, error) {
	if name == "" {
		name = "collide"
	}
	fn, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s", name)
	}
	return fn(cfg), nil
}

// EngineFactory returns the constructor for name, for batch runs.
func (r *Registry) EngineFactory(name string) (func(*config.Config) sim.Engine, error) {
	if name == "" {
		name = "collide"
	}
	fn, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s", name)
	}
	return fn, nil
}

// GetScenario resolves a builtin scenario name or a path to a YAML file.
func (r *Registry) GetScenario(name string) (*automation.Scenario, error) {
	if sc := automation.GetBuiltin(name); sc != nil {
		return sc, nil
	}
	if _, err := os.Stat(name); err == nil {
		return automation.LoadScenario(name)
	}
	return nil, fmt.Errorf("unknown scenario: %s (builtin: %v)", name, automation.ListBuiltin())
}

// GetConfig loads path when given, otherwise the named preset.
func (r *Registry) GetConfig(preset, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if preset == "" {
		preset = "classic"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return cfg, nil
}

func (r *Registry) ListEngines() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Default()
}
