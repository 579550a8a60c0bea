package gas

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/geom"
)

type WallKind int

const (
	LeftWall WallKind = iota
	PistonWall
	FloorWall
	CeilingWall
)

func (k WallKind) String() string {
	switch k {
	case LeftWall:
		return "left"
	case PistonWall:
		return "piston"
	case FloorWall:
		return "floor"
	case CeilingWall:
		return "ceiling"
	default:
		return "unknown"
	}
}

// Wall is a static axis-aligned box collider.
type Wall struct {
	Kind        WallKind   `json:"kind"`
	Center      mgl64.Vec2 `json:"center"`
	HalfExtents mgl64.Vec2 `json:"half_extents"`
}

func (w Wall) Rect() geom.Rect {
	return geom.Rect{Min: w.Center.Sub(w.HalfExtents), Max: w.Center.Add(w.HalfExtents)}
}

// BoxGeometry is the fixed part of the box: its outer rectangle and wall
// thickness.
type BoxGeometry struct {
	Outer     geom.Rect
	Thickness float64
}

func NewBoxGeometry(cfg *config.Config) BoxGeometry {
	return BoxGeometry{
		Outer: geom.FromCenter(
			mgl64.Vec2{cfg.Box.X, cfg.Box.Y},
			mgl64.Vec2{cfg.Box.Width, cfg.Box.Height},
		),
		Thickness: cfg.Box.Thickness,
	}
}

// Boundary is the box for one piston position.
type Boundary struct {
	PistonX float64 `json:"piston_x"`
	// ScaleX is the floor and ceiling length relative to the full box width.
	ScaleX  float64 `json:"scale_x"`
	CenterX float64 `json:"center_x"`

	box BoxGeometry
}

// Update places the piston at x and stretches the floor and ceiling from
// the left edge of the box to the piston's outer face.
func (b BoxGeometry) Update(x float64) Boundary {
	left := b.Outer.Min[0]
	return Boundary{
		PistonX: x,
		ScaleX:  (x + b.Thickness/2 - left) / b.Outer.Width(),
		CenterX: (x + b.Thickness/2 + left) / 2,
		box:     b,
	}
}

// Walls returns left wall, piston, floor and ceiling in that order.
func (bd Boundary) Walls() []Wall {
	outer, t := bd.box.Outer, bd.box.Thickness
	centerY := outer.Center()[1]
	halfLen := bd.ScaleX * outer.Width() / 2

	return []Wall{
		{
			Kind:        LeftWall,
			Center:      mgl64.Vec2{outer.Min[0] + t/2, centerY},
			HalfExtents: mgl64.Vec2{t / 2, outer.Height() / 2},
		},
		{
			Kind:        PistonWall,
			Center:      mgl64.Vec2{bd.PistonX, centerY},
			HalfExtents: mgl64.Vec2{t / 2, outer.Height() / 2},
		},
		{
			Kind:        FloorWall,
			Center:      mgl64.Vec2{bd.CenterX, outer.Min[1] + t/2},
			HalfExtents: mgl64.Vec2{halfLen, t / 2},
		},
		{
			Kind:        CeilingWall,
			Center:      mgl64.Vec2{bd.CenterX, outer.Max[1] - t/2},
			HalfExtents: mgl64.Vec2{halfLen, t / 2},
		},
	}
}

// Interior is the rectangle a particle centre of radius r may occupy.
func (bd Boundary) Interior(r float64) geom.Rect {
	outer, t := bd.box.Outer, bd.box.Thickness
	return geom.Rect{
		Min: mgl64.Vec2{outer.Min[0] + t + r, outer.Min[1] + t + r},
		Max: mgl64.Vec2{bd.PistonX - t/2 - r, outer.Max[1] - t - r},
	}
}

// PistonLength is the height of the piston face in contact with the gas.
func (bd Boundary) PistonLength() float64 {
	return bd.box.Outer.Height() - 2*bd.box.Thickness
}
