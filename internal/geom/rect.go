// Package geom holds the axis-aligned rectangle shared by the plot, the
// box interior and the wall colliders. World coordinates have y pointing up.
package geom

import "github.com/go-gl/mathgl/mgl64"

type Rect struct {
	Min, Max mgl64.Vec2
}

// FromCenter builds a rectangle from its centre and full size.
func FromCenter(center, size mgl64.Vec2) Rect {
	half := size.Mul(0.5)
	return Rect{Min: center.Sub(half), Max: center.Add(half)}
}

func (r Rect) Width() float64  { return r.Max[0] - r.Min[0] }
func (r Rect) Height() float64 { return r.Max[1] - r.Min[1] }

func (r Rect) Center() mgl64.Vec2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// Contains reports whether p lies inside r, boundary included.
func (r Rect) Contains(p mgl64.Vec2) bool {
	return p[0] >= r.Min[0] && p[0] <= r.Max[0] && p[1] >= r.Min[1] && p[1] <= r.Max[1]
}

// ContainsStrict reports whether p lies inside r, boundary excluded.
func (r Rect) ContainsStrict(p mgl64.Vec2) bool {
	return p[0] > r.Min[0] && p[0] < r.Max[0] && p[1] > r.Min[1] && p[1] < r.Max[1]
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		Min: mgl64.Vec2{r.Min[0] + d, r.Min[1] + d},
		Max: mgl64.Vec2{r.Max[0] - d, r.Max[1] - d},
	}
}

// Clamp moves p to the nearest point of r.
func (r Rect) Clamp(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		mgl64.Clamp(p[0], r.Min[0], r.Max[0]),
		mgl64.Clamp(p[1], r.Min[1], r.Max[1]),
	}
}

// Union is the smallest rectangle holding both a and b.
func Union(a, b Rect) Rect {
	return Rect{
		Min: mgl64.Vec2{min(a.Min[0], b.Min[0]), min(a.Min[1], b.Min[1])},
		Max: mgl64.Vec2{max(a.Max[0], b.Max[0]), max(a.Max[1], b.Max[1])},
	}
}
