// Package export renders PV diagrams to SVG and PNG files.
package export

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/curves"
	"github.com/san-kum/pvsim/internal/storage"
	"github.com/san-kum/pvsim/internal/thermo"
)

// Series is one polyline in (V, P) units.
type Series struct {
	Label  string
	Kind   curves.Kind
	Points []mgl64.Vec2
}

// Diagram is a PV diagram in physical units.
type Diagram struct {
	Title  string
	MaxV   float64
	MaxP   float64
	State  thermo.GasState
	Curves []Series
	// Trace is the recorded path of the state point, if any.
	Trace []mgl64.Vec2
}

// NewDiagram samples the four curves through at and converts them from
// screen to (V, P).
func NewDiagram(m *thermo.Model, at mgl64.Vec2) Diagram {
	plot := m.Plot()
	d := Diagram{
		Title: "PV diagram",
		MaxV:  m.Volume(plot.Max[0]),
		MaxP:  m.Pressure(plot.Max[1]),
		State: m.State(at),
	}
	for _, c := range curves.All(m, at) {
		for _, b := range c.Branches {
			pts := make([]mgl64.Vec2, len(b))
			for i, p := range b {
				pts[i] = mgl64.Vec2{m.Volume(p[0]), m.Pressure(p[1])}
			}
			d.Curves = append(d.Curves, Series{Label: c.Kind.String(), Kind: c.Kind, Points: pts})
		}
	}
	return d
}

// WithTrace adds the (V, P) path of a recorded run.
func (d Diagram) WithTrace(samples []storage.Sample) Diagram {
	d.Trace = make([]mgl64.Vec2, len(samples))
	for i, s := range samples {
		d.Trace[i] = mgl64.Vec2{s.Volume, s.Pressure}
	}
	return d
}
