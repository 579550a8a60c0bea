package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Law != LawMolar {
		t.Errorf("expected law molar, got %s", cfg.Law)
	}
	if cfg.Plot.Width != 808 {
		t.Errorf("expected plot width 808, got %f", cfg.Plot.Width)
	}
	if cfg.NumParticles() != 17*9 {
		t.Errorf("expected 153 particles, got %d", cfg.NumParticles())
	}
	if math.Abs(cfg.Gamma()-5.0/3.0) > 1e-12 {
		t.Errorf("expected gamma 5/3, got %f", cfg.Gamma())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero volume scale", func(c *Config) { c.Scales.Volume = 0 }},
		{"negative pressure scale", func(c *Config) { c.Scales.Pressure = -1 }},
		{"nan dt", func(c *Config) { c.Dt = math.NaN() }},
		{"unknown law", func(c *Config) { c.Law = "vdw" }},
		{"zero moles", func(c *Config) { c.Gas.Moles = 0 }},
		{"kinetic without boltzmann", func(c *Config) { c.Law = LawKinetic; c.Gas.Boltzmann = 0 }},
		{"box too narrow", func(c *Config) { c.Box.Width = 820 }},
		{"handle too big", func(c *Config) { c.HandleRadius = 200 }},
		{"no substeps", func(c *Config) { c.Substeps = 0 }},
		{"no degrees of freedom", func(c *Config) { c.Gas.DegreesOfFreedom = 0 }},
		{"box without height", func(c *Config) { c.Box.Height = 60 }},
		{"infinite speed", func(c *Config) { c.Particles.Speed = math.Inf(1) }},
		{"negative speed", func(c *Config) { c.Particles.Speed = -1 }},
		{"nan box y", func(c *Config) { c.Box.Y = math.NaN() }},
		{"infinite box x", func(c *Config) { c.Box.X = math.Inf(-1) }},
		{"nan plot y", func(c *Config) { c.Plot.Y = math.NaN() }},
		{"nan boltzmann", func(c *Config) { c.Gas.Boltzmann = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidate_FirstInvalidField(t *testing.T) {
	for i := 0; i < 20; i++ {
		cfg := DefaultConfig()
		cfg.Plot.Width = 0
		cfg.Scales.Volume = 0
		cfg.Dt = 0
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "plot.width") {
			t.Fatalf("expected plot.width to be reported first, got %v", err)
		}
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s is nil", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPreset_Independent(t *testing.T) {
	a := GetPreset("classic")
	a.Seed = 99
	b := GetPreset("classic")
	if b.Seed == 99 {
		t.Error("presets should be independent copies")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gas.yaml")
	cfg := GetPreset("kinetic")
	cfg.Seed = 7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Law != LawKinetic || loaded.Seed != 7 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoadINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gas.ini")
	data := "[gas]\nlaw = kinetic\nboltzmann = 0.2\n\n[particles]\ngrid_x = 3\n\n[run]\nseed = 11\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Law != LawKinetic {
		t.Errorf("expected kinetic law, got %s", cfg.Law)
	}
	if cfg.Gas.Boltzmann != 0.2 {
		t.Errorf("expected boltzmann 0.2, got %f", cfg.Gas.Boltzmann)
	}
	if cfg.Particles.GridX != 3 {
		t.Errorf("expected grid_x 3, got %d", cfg.Particles.GridX)
	}
	if cfg.Seed != 11 {
		t.Errorf("expected seed 11, got %d", cfg.Seed)
	}
	if cfg.Box.Width != DefaultBoxWidth {
		t.Errorf("missing keys should keep defaults, got box width %f", cfg.Box.Width)
	}
}
