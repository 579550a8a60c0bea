package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const traceColor = "#e5e7eb"

// DiagramToSVG draws d with V to the right and P up.
func DiagramToSVG(d Diagram, width, height int) string {
	if d.MaxV <= 0 || d.MaxP <= 0 || width <= 0 || height <= 0 {
		return ""
	}

	toScreen := func(p mgl64.Vec2) (float64, float64) {
		x := p[0] / d.MaxV * float64(width)
		y := float64(height) - p[1]/d.MaxP*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#1a1a1a"/>
`, width, height, width, height))

	writePath := func(points []mgl64.Vec2, stroke, label string) {
		if len(points) < 2 {
			return
		}
		sb.WriteString(fmt.Sprintf(`<path class="%s" fill="none" stroke="%s" stroke-width="2" d="M`, label, stroke))
		for i, p := range points {
			x, y := toScreen(p)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	for _, s := range d.Curves {
		writePath(s.Points, s.Kind.Hex(), s.Label)
	}
	writePath(d.Trace, traceColor, "trace")

	hx, hy := toScreen(mgl64.Vec2{d.State.Volume, d.State.Pressure})
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="6" fill="#9ca3af"/>
`, hx, hy))
	sb.WriteString(fmt.Sprintf(`<text x="8" y="20" fill="#f5f5f4" font-family="monospace" font-size="14">V = %.1f  P = %.1f  T = %.0f K</text>
`, d.State.Volume, d.State.Pressure, d.State.Temperature))

	sb.WriteString("</svg>")
	return sb.String()
}
