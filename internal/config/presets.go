package config

import "sort"

var Presets = map[string]func() *Config{
	"classic": DefaultConfig,
	"kinetic": func() *Config {
		cfg := DefaultConfig()
		cfg.Law = LawKinetic
		return cfg
	},
	"diatomic": func() *Config {
		cfg := DefaultConfig()
		cfg.Gas.DegreesOfFreedom = 5
		return cfg
	},
	"dense": func() *Config {
		cfg := DefaultConfig()
		cfg.Particles.GridX = 12
		cfg.Particles.GridY = 5
		cfg.Particles.Radius = 3
		cfg.Substeps = 6
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
