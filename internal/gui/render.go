package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pvsim/internal/gas"
	"github.com/san-kum/pvsim/internal/sim"
)

var (
	slowColor = colorful.Color{R: 0.23, G: 0.51, B: 0.96}
	fastColor = colorful.Color{R: 0.94, G: 0.27, B: 0.27}
)

// speedColor blends slow to fast; twice the mean speed is fully fast.
func speedColor(ratio float64) rl.Color {
	f := min(max(ratio/2, 0), 1)
	r, g, b := slowColor.BlendLab(fastColor, f).Clamped().RGB255()
	return rl.NewColor(r, g, b, 255)
}

func (a *App) drawBox(f *sim.Frame) {
	for _, w := range f.Walls {
		col := ColWall
		if w.Kind == gas.PistonWall {
			col = ColPiston
		}
		rl.DrawRectangleRec(a.View.Rect(w.Rect()), col)
	}

	mean := 0.0
	for _, p := range f.Particles {
		mean += p.Vel.Len()
	}
	if len(f.Particles) > 0 {
		mean /= float64(len(f.Particles))
	}
	radius := float32(a.sim.Config().Particles.Radius * a.View.Scale)
	for _, p := range f.Particles {
		ratio := 1.0
		if mean > 0 {
			ratio = p.Vel.Len() / mean
		}
		rl.DrawCircleV(a.View.ToScreen(p.Pos), radius, speedColor(ratio))
	}
}

func (a *App) drawPlot(f *sim.Frame) {
	plot := a.sim.Model().Plot()
	origin := a.View.ToScreen(plot.Min)
	top := a.View.ToScreen(mgl64.Vec2{plot.Min[0], plot.Max[1]})
	right := a.View.ToScreen(mgl64.Vec2{plot.Max[0], plot.Min[1]})
	rl.DrawLineEx(origin, top, 2, ColAccent)
	rl.DrawLineEx(origin, right, 2, ColAccent)
	a.drawText("P", int(top.X)-24, int(top.Y), 20, ColSelect)
	a.drawText("V", int(right.X)+8, int(right.Y)-20, 20, ColSelect)

	for _, c := range f.Curves {
		col := c.Kind.Color()
		for _, br := range c.Branches {
			if len(br) < 2 {
				continue
			}
			pts := make([]rl.Vector2, len(br))
			for i, p := range br {
				pts[i] = a.View.ToScreen(p)
			}
			rl.DrawLineStrip(pts, col)
		}
	}
}

func (a *App) drawHandle(f *sim.Frame) {
	r := float32(a.sim.Config().HandleRadius * a.View.Scale)
	center := a.View.ToScreen(f.Handle)
	rl.DrawCircleV(center, r, rl.ColorAlpha(ColSelect, 0.2))
	rl.DrawCircleLines(int32(center.X), int32(center.Y), r, ColSelect)
}

// drawReadout writes T, W and Q above the box.
func (a *App) drawReadout(f *sim.Frame) {
	box := gas.NewBoxGeometry(a.sim.Config()).Outer
	pos := a.View.ToScreen(mgl64.Vec2{box.Min[0], box.Max[1]})
	a.drawText(f.Readout.String(), int(pos.X), int(pos.Y)-75, 20, ColSelect)
}
