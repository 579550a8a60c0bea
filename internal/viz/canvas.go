package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/geom"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells. Each cell carries one foreground
// colour; the last dot drawn into a cell decides it. Text overrides dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]string
	text          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]string, h),
		text:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]string, w)
		c.text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set sets a dot at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int, color string) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if color != "" {
		c.Colors[row][col] = color
	}
}

// Unset clears a dot.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] &= ^rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Lit reports whether the dot at (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
			c.text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color string) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Text writes s into the cells starting at (col, row), clipped to the grid.
func (c *Canvas) Text(col, row int, s string, color string) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.Width {
			c.text[row][col] = r
			c.Colors[row][col] = color
		}
		col++
	}
}

// String renders the grid without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if t := c.text[i][j]; t != 0 {
				r = t
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render colours each run of equally coloured cells with lipgloss.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for j, r := range row {
			if t := c.text[i][j]; t != 0 {
				r = t
			}
			color := c.Colors[i][j]
			if r == blank {
				color = ""
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(r)
		}
		flush()
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Projection maps a world rectangle (y up) onto a canvas (y down).
type Projection struct {
	World      geom.Rect
	Cols, Rows int
}

func (p Projection) dotsX() float64 { return float64(p.Cols * 2) }
func (p Projection) dotsY() float64 { return float64(p.Rows * 4) }

// Dot returns the sub-pixel containing world point w.
func (p Projection) Dot(w mgl64.Vec2) (int, int) {
	fx := (w[0] - p.World.Min[0]) / p.World.Width() * p.dotsX()
	fy := (p.World.Max[1] - w[1]) / p.World.Height() * p.dotsY()
	return int(math.Floor(fx)), int(math.Floor(fy))
}

// CellCenter returns the world position at the centre of a terminal cell.
func (p Projection) CellCenter(col, row int) mgl64.Vec2 {
	x := p.World.Min[0] + (float64(col)+0.5)/float64(p.Cols)*p.World.Width()
	y := p.World.Max[1] - (float64(row)+0.5)/float64(p.Rows)*p.World.Height()
	return mgl64.Vec2{x, y}
}

// Cell returns the terminal cell containing world point w.
func (p Projection) Cell(w mgl64.Vec2) (int, int) {
	x, y := p.Dot(w)
	return floorDiv(x, 2), floorDiv(y, 4)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func (p Projection) Line(c *Canvas, a, b mgl64.Vec2, color string) {
	x0, y0 := p.Dot(a)
	x1, y1 := p.Dot(b)
	c.DrawLine(x0, y0, x1, y1, color)
}

func (p Projection) Polyline(c *Canvas, pts []mgl64.Vec2, color string) {
	if len(pts) == 1 {
		x, y := p.Dot(pts[0])
		c.Set(x, y, color)
		return
	}
	for i := 1; i < len(pts); i++ {
		p.Line(c, pts[i-1], pts[i], color)
	}
}

func (p Projection) Rect(c *Canvas, r geom.Rect, color string) {
	corners := []mgl64.Vec2{
		r.Min,
		{r.Max[0], r.Min[1]},
		r.Max,
		{r.Min[0], r.Max[1]},
		r.Min,
	}
	p.Polyline(c, corners, color)
}

// Circle draws a ring of the given world radius.
func (p Projection) Circle(c *Canvas, center mgl64.Vec2, radius float64, color string) {
	const segments = 24
	pts := make([]mgl64.Vec2, segments+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / segments
		pts[i] = center.Add(mgl64.Vec2{math.Cos(a), math.Sin(a)}.Mul(radius))
	}
	p.Polyline(c, pts, color)
}
