package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	LawMolar   = "molar"
	LawKinetic = "kinetic"
)

const (
	DefaultBoxWidth     = 1000.0
	DefaultBoxHeight    = 250.0
	DefaultBoxY         = 110.0
	DefaultThickness    = 32.0
	DefaultPlotY        = -190.0
	DefaultHandleRadius = 16.0
	DefaultScale        = 10.0
	DefaultGridX        = 8
	DefaultGridY        = 4
	DefaultRadius       = 4.0
	DefaultMass         = 1e-3
	DefaultSpeed        = 200.0
	DefaultR            = 8.314
	DefaultMoles        = 1.0
	DefaultBoltzmann    = 0.1
	DefaultDoF          = 3
	DefaultDt           = 1.0 / 60.0
	DefaultSubsteps     = 4
)

type Config struct {
	Law          string         `yaml:"law"`
	Plot         RectConfig     `yaml:"plot"`
	Box          BoxConfig      `yaml:"box"`
	HandleRadius float64        `yaml:"handle_radius"`
	Scales       ScaleConfig    `yaml:"scales"`
	Particles    ParticleConfig `yaml:"particles"`
	Gas          GasConfig      `yaml:"gas"`
	Dt           float64        `yaml:"dt"`
	Substeps     int            `yaml:"substeps"`
	Seed         int64          `yaml:"seed"`
}

// RectConfig is a rectangle given by its centre and size.
type RectConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type BoxConfig struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Thickness float64 `yaml:"thickness"`
}

type ScaleConfig struct {
	Volume   float64 `yaml:"volume"`
	Pressure float64 `yaml:"pressure"`
}

// ParticleConfig describes the initial (2*GridX+1) x (2*GridY+1) particle grid.
type ParticleConfig struct {
	GridX  int     `yaml:"grid_x"`
	GridY  int     `yaml:"grid_y"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
	Speed  float64 `yaml:"speed"`
}

type GasConfig struct {
	Moles            float64 `yaml:"moles"`
	R                float64 `yaml:"r"`
	Boltzmann        float64 `yaml:"boltzmann"`
	DegreesOfFreedom int     `yaml:"degrees_of_freedom"`
}

func DefaultConfig() *Config {
	return &Config{
		Law: LawMolar,
		Plot: RectConfig{
			X:      0,
			Y:      DefaultPlotY,
			Width:  DefaultBoxWidth - DefaultThickness*6,
			Height: DefaultBoxHeight,
		},
		Box: BoxConfig{
			X:         0,
			Y:         DefaultBoxY,
			Width:     DefaultBoxWidth,
			Height:    DefaultBoxHeight,
			Thickness: DefaultThickness,
		},
		HandleRadius: DefaultHandleRadius,
		Scales:       ScaleConfig{Volume: DefaultScale, Pressure: DefaultScale},
		Particles: ParticleConfig{
			GridX:  DefaultGridX,
			GridY:  DefaultGridY,
			Radius: DefaultRadius,
			Mass:   DefaultMass,
			Speed:  DefaultSpeed,
		},
		Gas: GasConfig{
			Moles:            DefaultMoles,
			R:                DefaultR,
			Boltzmann:        DefaultBoltzmann,
			DegreesOfFreedom: DefaultDoF,
		},
		Dt:       DefaultDt,
		Substeps: DefaultSubsteps,
	}
}

// Load reads a YAML file, or an INI file when the extension is .ini.
// Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		file, err := ini.Load(path)
		if err != nil {
			return nil, err
		}
		return fromINI(file), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func fromINI(file *ini.File) *Config {
	cfg := DefaultConfig()

	gas := file.Section("gas")
	cfg.Law = gas.Key("law").MustString(cfg.Law)
	cfg.Gas.Moles = gas.Key("moles").MustFloat64(cfg.Gas.Moles)
	cfg.Gas.R = gas.Key("r").MustFloat64(cfg.Gas.R)
	cfg.Gas.Boltzmann = gas.Key("boltzmann").MustFloat64(cfg.Gas.Boltzmann)
	cfg.Gas.DegreesOfFreedom = gas.Key("degrees_of_freedom").MustInt(cfg.Gas.DegreesOfFreedom)

	plot := file.Section("plot")
	cfg.Plot.X = plot.Key("x").MustFloat64(cfg.Plot.X)
	cfg.Plot.Y = plot.Key("y").MustFloat64(cfg.Plot.Y)
	cfg.Plot.Width = plot.Key("width").MustFloat64(cfg.Plot.Width)
	cfg.Plot.Height = plot.Key("height").MustFloat64(cfg.Plot.Height)
	cfg.HandleRadius = plot.Key("handle_radius").MustFloat64(cfg.HandleRadius)
	cfg.Scales.Volume = plot.Key("volume_scale").MustFloat64(cfg.Scales.Volume)
	cfg.Scales.Pressure = plot.Key("pressure_scale").MustFloat64(cfg.Scales.Pressure)

	box := file.Section("box")
	cfg.Box.X = box.Key("x").MustFloat64(cfg.Box.X)
	cfg.Box.Y = box.Key("y").MustFloat64(cfg.Box.Y)
	cfg.Box.Width = box.Key("width").MustFloat64(cfg.Box.Width)
	cfg.Box.Height = box.Key("height").MustFloat64(cfg.Box.Height)
	cfg.Box.Thickness = box.Key("thickness").MustFloat64(cfg.Box.Thickness)

	particles := file.Section("particles")
	cfg.Particles.GridX = particles.Key("grid_x").MustInt(cfg.Particles.GridX)
	cfg.Particles.GridY = particles.Key("grid_y").MustInt(cfg.Particles.GridY)
	cfg.Particles.Radius = particles.Key("radius").MustFloat64(cfg.Particles.Radius)
	cfg.Particles.Mass = particles.Key("mass").MustFloat64(cfg.Particles.Mass)
	cfg.Particles.Speed = particles.Key("speed").MustFloat64(cfg.Particles.Speed)

	run := file.Section("run")
	cfg.Dt = run.Key("dt").MustFloat64(cfg.Dt)
	cfg.Substeps = run.Key("substeps").MustInt(cfg.Substeps)
	cfg.Seed = run.Key("seed").MustInt64(cfg.Seed)

	return cfg
}

// NumParticles is the size of the initial particle grid.
func (c *Config) NumParticles() int {
	return (2*c.Particles.GridX + 1) * (2*c.Particles.GridY + 1)
}

// Gamma is the heat capacity ratio Cp/Cv for the configured degrees of freedom.
func (c *Config) Gamma() float64 {
	f := float64(c.Gas.DegreesOfFreedom)
	return (f + 2) / f
}

// Validate rejects configurations that would produce non-finite or
// degenerate state anywhere in the reachable handle range.
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"plot.width", c.Plot.Width},
		{"plot.height", c.Plot.Height},
		{"box.width", c.Box.Width},
		{"box.height", c.Box.Height},
		{"box.thickness", c.Box.Thickness},
		{"handle_radius", c.HandleRadius},
		{"scales.volume", c.Scales.Volume},
		{"scales.pressure", c.Scales.Pressure},
		{"particles.radius", c.Particles.Radius},
		{"particles.mass", c.Particles.Mass},
		{"dt", c.Dt},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidConfig, f.name, f.v)
		}
	}
	finite := []struct {
		name string
		v    float64
	}{
		{"plot.x", c.Plot.X},
		{"plot.y", c.Plot.Y},
		{"box.x", c.Box.X},
		{"box.y", c.Box.Y},
		{"gas.moles", c.Gas.Moles},
		{"gas.r", c.Gas.R},
		{"gas.boltzmann", c.Gas.Boltzmann},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfig, f.name, f.v)
		}
	}
	if !(c.Particles.Speed >= 0) || math.IsInf(c.Particles.Speed, 0) {
		return fmt.Errorf("%w: particles.speed must be non-negative and finite, got %v", ErrInvalidConfig, c.Particles.Speed)
	}
	if c.Particles.GridX < 0 || c.Particles.GridY < 0 {
		return fmt.Errorf("%w: particle grid must not be negative", ErrInvalidConfig)
	}
	if c.Substeps < 1 {
		return fmt.Errorf("%w: substeps must be at least 1, got %d", ErrInvalidConfig, c.Substeps)
	}
	if c.Gas.DegreesOfFreedom < 1 {
		return fmt.Errorf("%w: degrees_of_freedom must be at least 1, got %d", ErrInvalidConfig, c.Gas.DegreesOfFreedom)
	}

	var nk float64
	switch c.Law {
	case LawMolar:
		nk = c.Gas.Moles * c.Gas.R
	case LawKinetic:
		nk = float64(c.NumParticles()) * c.Gas.Boltzmann
	default:
		return fmt.Errorf("%w: unknown law %q", ErrInvalidConfig, c.Law)
	}
	if !(nk > 0) || math.IsInf(nk, 0) {
		return fmt.Errorf("%w: %s law needs a positive gas constant product, got %v", ErrInvalidConfig, c.Law, nk)
	}

	if 2*c.HandleRadius >= c.Plot.Width || 2*c.HandleRadius >= c.Plot.Height {
		return fmt.Errorf("%w: handle radius %v does not fit the plot", ErrInvalidConfig, c.HandleRadius)
	}

	plotLeft := c.Plot.X - c.Plot.Width/2
	plotRight := c.Plot.X + c.Plot.Width/2
	boxLeft := c.Box.X - c.Box.Width/2
	boxRight := c.Box.X + c.Box.Width/2
	minHandle := plotLeft + c.HandleRadius
	maxHandle := plotRight - c.HandleRadius

	inner := (minHandle - c.Box.Thickness/2 - c.Particles.Radius) - (boxLeft + c.Box.Thickness + c.Particles.Radius)
	if !(inner > 0) {
		return fmt.Errorf("%w: box interior collapses at the smallest volume (width %v)", ErrInvalidConfig, inner)
	}
	if maxHandle+c.Box.Thickness/2 > boxRight {
		return fmt.Errorf("%w: piston leaves the box at the largest volume", ErrInvalidConfig)
	}
	if c.Box.Height-2*c.Box.Thickness-2*c.Particles.Radius <= 0 {
		return fmt.Errorf("%w: box interior has no height", ErrInvalidConfig)
	}

	// Probe the corners of the clamp rectangle.
	for _, dx := range []float64{c.HandleRadius, c.Plot.Width - c.HandleRadius} {
		for _, dy := range []float64{c.HandleRadius, c.Plot.Height - c.HandleRadius} {
			t := (dx / c.Scales.Volume) * (dy / c.Scales.Pressure) / nk
			if !(t > 0) || math.IsInf(t, 0) {
				return fmt.Errorf("%w: temperature %v at plot corner", ErrInvalidConfig, t)
			}
		}
	}

	return nil
}
