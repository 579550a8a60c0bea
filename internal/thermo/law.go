package thermo

import (
	"fmt"

	"github.com/san-kum/pvsim/internal/config"
)

// Law closes the ideal gas equation of state. Implementations hold only
// their own constants.
type Law interface {
	Name() string
	// Temperature from P*V.
	Temperature(v, p float64) float64
	// InternalEnergy of the gas at temperature t.
	InternalEnergy(t float64) float64
	// Gamma is Cp/Cv.
	Gamma() float64
}

// Molar is P*V = n*R*T with U = (f/2)*n*R*T.
type Molar struct {
	Moles            float64
	R                float64
	DegreesOfFreedom int
}

func (m Molar) Name() string { return config.LawMolar }

func (m Molar) Temperature(v, p float64) float64 {
	return v * p / (m.Moles * m.R)
}

func (m Molar) InternalEnergy(t float64) float64 {
	return float64(m.DegreesOfFreedom) / 2 * m.Moles * m.R * t
}

func (m Molar) Gamma() float64 { return gamma(m.DegreesOfFreedom) }

// Kinetic is P*V = N*k*T with U = (f/2)*N*k*T, N counting particles.
type Kinetic struct {
	Particles        int
	Boltzmann        float64
	DegreesOfFreedom int
}

func (k Kinetic) Name() string { return config.LawKinetic }

func (k Kinetic) Temperature(v, p float64) float64 {
	return v * p / (float64(k.Particles) * k.Boltzmann)
}

func (k Kinetic) InternalEnergy(t float64) float64 {
	return float64(k.DegreesOfFreedom) / 2 * float64(k.Particles) * k.Boltzmann * t
}

func (k Kinetic) Gamma() float64 { return gamma(k.DegreesOfFreedom) }

func gamma(dof int) float64 {
	f := float64(dof)
	return (f + 2) / f
}

// LawFromConfig picks the law named by cfg.Law.
func LawFromConfig(cfg *config.Config) (Law, error) {
	switch cfg.Law {
	case config.LawMolar:
		return Molar{Moles: cfg.Gas.Moles, R: cfg.Gas.R, DegreesOfFreedom: cfg.Gas.DegreesOfFreedom}, nil
	case config.LawKinetic:
		return Kinetic{Particles: cfg.NumParticles(), Boltzmann: cfg.Gas.Boltzmann, DegreesOfFreedom: cfg.Gas.DegreesOfFreedom}, nil
	default:
		return nil, fmt.Errorf("%w: unknown law %q", config.ErrInvalidConfig, cfg.Law)
	}
}
