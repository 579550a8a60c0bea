package thermo

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/geom"
)

// GasState is derived from the control point on demand; it is never stored.
type GasState struct {
	Volume         float64 `json:"volume"`
	Pressure       float64 `json:"pressure"`
	Temperature    float64 `json:"temperature"`
	InternalEnergy float64 `json:"internal_energy"`
}

// Model maps between control point positions and gas state. It has no
// mutable state.
type Model struct {
	law           Law
	plot          geom.Rect
	handle        geom.Rect
	volumeScale   float64
	pressureScale float64
}

// NewModel validates cfg and builds the model for it.
func NewModel(cfg *config.Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	law, err := LawFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	plot := geom.FromCenter(
		mgl64.Vec2{cfg.Plot.X, cfg.Plot.Y},
		mgl64.Vec2{cfg.Plot.Width, cfg.Plot.Height},
	)
	return &Model{
		law:           law,
		plot:          plot,
		handle:        plot.Inset(cfg.HandleRadius),
		volumeScale:   cfg.Scales.Volume,
		pressureScale: cfg.Scales.Pressure,
	}, nil
}

func (m *Model) Law() Law          { return m.law }
func (m *Model) Gamma() float64    { return m.law.Gamma() }
func (m *Model) Plot() geom.Rect   { return m.plot }
func (m *Model) Handle() geom.Rect { return m.handle }

// Center is the initial control point.
func (m *Model) Center() mgl64.Vec2 { return m.plot.Center() }

func (m *Model) Volume(x float64) float64 {
	return (x - m.plot.Min[0]) / m.volumeScale
}

func (m *Model) Pressure(y float64) float64 {
	return (y - m.plot.Min[1]) / m.pressureScale
}

func (m *Model) XFromVolume(v float64) float64 {
	return v*m.volumeScale + m.plot.Min[0]
}

func (m *Model) YFromPressure(p float64) float64 {
	return p*m.pressureScale + m.plot.Min[1]
}

func (m *Model) Temperature(p mgl64.Vec2) float64 {
	return m.law.Temperature(m.Volume(p[0]), m.Pressure(p[1]))
}

func (m *Model) InternalEnergy(p mgl64.Vec2) float64 {
	return m.law.InternalEnergy(m.Temperature(p))
}

func (m *Model) State(p mgl64.Vec2) GasState {
	t := m.Temperature(p)
	return GasState{
		Volume:         m.Volume(p[0]),
		Pressure:       m.Pressure(p[1]),
		Temperature:    t,
		InternalEnergy: m.law.InternalEnergy(t),
	}
}

// InPlot reports whether p is strictly inside the plot rectangle.
func (m *Model) InPlot(p mgl64.Vec2) bool {
	return m.plot.ContainsStrict(p)
}

// Clamp keeps the handle fully inside the plot.
func (m *Model) Clamp(p mgl64.Vec2) mgl64.Vec2 {
	return m.handle.Clamp(p)
}

// PointFor returns the unclamped screen position of (v, p).
func (m *Model) PointFor(v, p float64) mgl64.Vec2 {
	return mgl64.Vec2{m.XFromVolume(v), m.YFromPressure(p)}
}
