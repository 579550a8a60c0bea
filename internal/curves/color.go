package curves

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var kindColors = map[Kind]color.RGBA{
	Isobaric:   {34, 197, 94, 255},
	Isochoric:  {59, 130, 246, 255},
	Isothermal: {239, 68, 68, 255},
	Adiabatic:  {168, 85, 247, 255},
}

// Color is the colour every frontend draws this kind of curve with.
func (k Kind) Color() color.RGBA {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return color.RGBA{200, 200, 200, 255}
}

// Hex renders Color as #rrggbb.
func (k Kind) Hex() string {
	c, _ := colorful.MakeColor(k.Color())
	return c.Hex()
}
