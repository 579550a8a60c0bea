package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pvsim/internal/geom"
)

// Viewport maps world coordinates (y up) to window pixels (y down) with a
// uniform scale.
type Viewport struct {
	World  geom.Rect
	Scale  float64
	Offset mgl64.Vec2
}

// Fit centres world in a w x h window at the largest scale that shows all
// of it.
func Fit(world geom.Rect, w, h int) Viewport {
	scale := min(float64(w)/world.Width(), float64(h)/world.Height())
	return Viewport{
		World: world,
		Scale: scale,
		Offset: mgl64.Vec2{
			(float64(w) - world.Width()*scale) / 2,
			(float64(h) - world.Height()*scale) / 2,
		},
	}
}

func (v Viewport) ToScreen(p mgl64.Vec2) rl.Vector2 {
	x := v.Offset[0] + (p[0]-v.World.Min[0])*v.Scale
	y := v.Offset[1] + (v.World.Max[1]-p[1])*v.Scale
	return rl.NewVector2(float32(x), float32(y))
}

func (v Viewport) ToWorld(s rl.Vector2) mgl64.Vec2 {
	x := (float64(s.X)-v.Offset[0])/v.Scale + v.World.Min[0]
	y := v.World.Max[1] - (float64(s.Y)-v.Offset[1])/v.Scale
	return mgl64.Vec2{x, y}
}

// Rect converts a world rectangle to a raylib rectangle.
func (v Viewport) Rect(r geom.Rect) rl.Rectangle {
	tl := v.ToScreen(mgl64.Vec2{r.Min[0], r.Max[1]})
	return rl.NewRectangle(tl.X, tl.Y, float32(r.Width()*v.Scale), float32(r.Height()*v.Scale))
}
