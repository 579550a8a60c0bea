package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DiagramPlot builds a gonum plot of d.
func DiagramPlot(d Diagram) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = d.Title
	p.X.Label.Text = "V"
	p.Y.Label.Text = "P"
	p.X.Min, p.X.Max = 0, d.MaxV
	p.Y.Min, p.Y.Max = 0, d.MaxP
	p.Legend.Top = true

	legend := map[string]bool{}
	for _, s := range d.Curves {
		line, err := plotter.NewLine(toXYs(s.Points))
		if err != nil {
			return nil, fmt.Errorf("%s curve: %w", s.Label, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = s.Kind.Color()
		p.Add(line)
		if !legend[s.Label] {
			p.Legend.Add(s.Label, line)
			legend[s.Label] = true
		}
	}

	if len(d.Trace) > 1 {
		line, err := plotter.NewLine(toXYs(d.Trace))
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = color.RGBA{80, 80, 80, 255}
		p.Add(line)
		p.Legend.Add("trace", line)
	}

	point, err := plotter.NewScatter(plotter.XYs{{X: d.State.Volume, Y: d.State.Pressure}})
	if err != nil {
		return nil, err
	}
	point.GlyphStyle.Radius = vg.Points(4)
	point.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(point)

	return p, nil
}

// WriteDiagramPNG renders d at widthIn x heightIn inches.
func WriteDiagramPNG(w io.Writer, d Diagram, widthIn, heightIn float64) error {
	p, err := DiagramPlot(d)
	if err != nil {
		return err
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

func toXYs(points []mgl64.Vec2) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i].X = p[0]
		xys[i].Y = p[1]
	}
	return xys
}
