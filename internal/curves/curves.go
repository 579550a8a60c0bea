// Package curves samples the four classical process curves through the
// current state point of a thermo.Model.
package curves

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/thermo"
)

type Kind int

const (
	Isobaric Kind = iota
	Isochoric
	Isothermal
	Adiabatic
)

func (k Kind) String() string {
	switch k {
	case Isobaric:
		return "isobaric"
	case Isochoric:
		return "isochoric"
	case Isothermal:
		return "isothermal"
	case Adiabatic:
		return "adiabatic"
	default:
		return "unknown"
	}
}

// Curve is one process curve. Every branch starts at the state point.
type Curve struct {
	Kind     Kind
	Branches [][]mgl64.Vec2
}

// Points returns the number of sampled points over all branches.
func (c Curve) Points() int {
	n := 0
	for _, b := range c.Branches {
		n += len(b)
	}
	return n
}

// All returns the curves in Kind order.
func All(m *thermo.Model, at mgl64.Vec2) []Curve {
	return []Curve{
		IsobaricCurve(m, at),
		IsochoricCurve(m, at),
		IsothermalCurve(m, at),
		AdiabaticCurve(m, at),
	}
}

// IsobaricCurve runs horizontally from the state point to both plot edges.
func IsobaricCurve(m *thermo.Model, at mgl64.Vec2) Curve {
	plot := m.Plot()
	return Curve{
		Kind: Isobaric,
		Branches: [][]mgl64.Vec2{
			{at, {plot.Min[0], at[1]}},
			{at, {plot.Max[0], at[1]}},
		},
	}
}

// IsochoricCurve runs vertically from the state point to the plot bottom and top.
func IsochoricCurve(m *thermo.Model, at mgl64.Vec2) Curve {
	plot := m.Plot()
	return Curve{
		Kind: Isochoric,
		Branches: [][]mgl64.Vec2{
			{at, {at[0], plot.Min[1]}},
			{at, {at[0], plot.Max[1]}},
		},
	}
}

// IsothermalCurve holds P*V constant.
func IsothermalCurve(m *thermo.Model, at mgl64.Vec2) Curve {
	pv := m.Volume(at[0]) * m.Pressure(at[1])
	return Curve{
		Kind: Isothermal,
		Branches: [][]mgl64.Vec2{
			sampleUp(m, at, func(p float64) float64 { return pv / p }),
			sampleRight(m, at, func(v float64) float64 { return pv / v }),
		},
	}
}

// AdiabaticCurve holds P*V^gamma constant.
func AdiabaticCurve(m *thermo.Model, at mgl64.Vec2) Curve {
	g := m.Gamma()
	k := m.Pressure(at[1]) * math.Pow(m.Volume(at[0]), g)
	return Curve{
		Kind: Adiabatic,
		Branches: [][]mgl64.Vec2{
			sampleUp(m, at, func(p float64) float64 { return math.Pow(k/p, 1/g) }),
			sampleRight(m, at, func(v float64) float64 { return k / math.Pow(v, g) }),
		},
	}
}

// sampleUp walks screen y upward in unit steps and solves for the volume.
func sampleUp(m *thermo.Model, at mgl64.Vec2, volume func(p float64) float64) []mgl64.Vec2 {
	plot := m.Plot()
	out := []mgl64.Vec2{at}
	for y := at[1] + 1; y <= plot.Max[1]; y++ {
		pt := mgl64.Vec2{m.XFromVolume(volume(m.Pressure(y))), y}
		if !plot.Contains(pt) {
			break
		}
		out = append(out, pt)
	}
	return out
}

// sampleRight walks screen x rightward in unit steps and solves for the pressure.
func sampleRight(m *thermo.Model, at mgl64.Vec2, pressure func(v float64) float64) []mgl64.Vec2 {
	plot := m.Plot()
	out := []mgl64.Vec2{at}
	for x := at[0] + 1; x <= plot.Max[0]; x++ {
		pt := mgl64.Vec2{x, m.YFromPressure(pressure(m.Volume(x)))}
		if !plot.Contains(pt) {
			break
		}
		out = append(out, pt)
	}
	return out
}
