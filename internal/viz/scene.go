package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/gas"
	"github.com/san-kum/pvsim/internal/geom"
	"github.com/san-kum/pvsim/internal/sim"
)

// sceneMargin leaves room around the box and plot for the axis labels.
const sceneMargin = 24

// DrawFrame renders the box, its particles, the PV plot with its curves
// and the handle. plot is the full plot rectangle.
func DrawFrame(c *Canvas, p Projection, f *sim.Frame, plot geom.Rect, handleRadius float64, th Theme) {
	c.Clear()

	for _, w := range f.Walls {
		color := string(th.Wall)
		if w.Kind == gas.PistonWall {
			color = string(th.Piston)
		}
		p.Rect(c, w.Rect(), color)
	}

	mean := 0.0
	for _, pt := range f.Particles {
		mean += pt.Vel.Len()
	}
	if len(f.Particles) > 0 {
		mean /= float64(len(f.Particles))
	}
	for _, pt := range f.Particles {
		ratio := 1.0
		if mean > 0 {
			ratio = pt.Vel.Len() / mean
		}
		x, y := p.Dot(pt.Pos)
		c.Set(x, y, th.SpeedColor(ratio))
	}

	// Axes along the left and bottom edges of the plot.
	p.Line(c, plot.Min, mgl64.Vec2{plot.Min[0], plot.Max[1]}, string(th.Muted))
	p.Line(c, plot.Min, mgl64.Vec2{plot.Max[0], plot.Min[1]}, string(th.Muted))

	for _, cv := range f.Curves {
		for _, br := range cv.Branches {
			p.Polyline(c, br, cv.Kind.Hex())
		}
	}

	p.Circle(c, f.Handle, handleRadius, string(th.Handle))

	col, row := p.Cell(mgl64.Vec2{plot.Min[0], plot.Max[1]})
	c.Text(col-1, row, "P", string(th.Text))
	col, row = p.Cell(mgl64.Vec2{plot.Max[0], plot.Min[1]})
	c.Text(col+1, row, "V", string(th.Text))
}
