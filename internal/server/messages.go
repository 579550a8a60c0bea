package server

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/pvsim/internal/sim"
	"github.com/san-kum/pvsim/internal/thermo"
)

const (
	MessageTypeHello = "hello"
	MessageTypeFrame = "frame"
	MessageTypeInput = "input"
	MessageTypeReset = "reset"
	MessageTypeError = "error"
)

// ClientMessage is what a browser sends. Input carries a world position;
// reset restarts the session's simulation.
type ClientMessage struct {
	Type    string  `json:"type"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Pressed bool    `json:"pressed"`
}

func (m ClientMessage) Input() sim.Input {
	return sim.Input{Cursor: mgl64.Vec2{m.X, m.Y}, Pressed: m.Pressed}
}

type RectMessage struct {
	Min mgl64.Vec2 `json:"min"`
	Max mgl64.Vec2 `json:"max"`
}

// HelloMessage describes the fixed scene once per connection.
type HelloMessage struct {
	Type           string      `json:"type"`
	Bounds         RectMessage `json:"bounds"`
	Plot           RectMessage `json:"plot"`
	HandleRadius   float64     `json:"handle_radius"`
	ParticleRadius float64     `json:"particle_radius"`
	Dt             float64     `json:"dt"`
}

type WallMessage struct {
	Kind string      `json:"kind"`
	Rect RectMessage `json:"rect"`
}

type CurveMessage struct {
	Kind     string         `json:"kind"`
	Color    string         `json:"color"`
	Branches [][]mgl64.Vec2 `json:"branches"`
}

type FrameMessage struct {
	Type      string          `json:"type"`
	Tick      int             `json:"tick"`
	Time      float64         `json:"time"`
	Handle    mgl64.Vec2      `json:"handle"`
	State     thermo.GasState `json:"state"`
	Work      float64         `json:"work"`
	Readout   thermo.Readout  `json:"readout"`
	Walls     []WallMessage   `json:"walls"`
	Particles []mgl64.Vec2    `json:"particles"`
	Curves    []CurveMessage  `json:"curves"`
}

type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func helloFor(s *sim.Simulation) HelloMessage {
	b, p := s.Bounds(), s.Model().Plot()
	cfg := s.Config()
	return HelloMessage{
		Type:           MessageTypeHello,
		Bounds:         RectMessage{Min: b.Min, Max: b.Max},
		Plot:           RectMessage{Min: p.Min, Max: p.Max},
		HandleRadius:   cfg.HandleRadius,
		ParticleRadius: cfg.Particles.Radius,
		Dt:             cfg.Dt,
	}
}

func frameMessage(f *sim.Frame) FrameMessage {
	msg := FrameMessage{
		Type:      MessageTypeFrame,
		Tick:      f.Tick,
		Time:      f.Time,
		Handle:    f.Handle,
		State:     f.State,
		Work:      f.Work,
		Readout:   f.Readout,
		Walls:     make([]WallMessage, len(f.Walls)),
		Particles: make([]mgl64.Vec2, len(f.Particles)),
		Curves:    make([]CurveMessage, len(f.Curves)),
	}
	for i, w := range f.Walls {
		r := w.Rect()
		msg.Walls[i] = WallMessage{Kind: w.Kind.String(), Rect: RectMessage{Min: r.Min, Max: r.Max}}
	}
	for i, p := range f.Particles {
		msg.Particles[i] = p.Pos
	}
	for i, c := range f.Curves {
		msg.Curves[i] = CurveMessage{Kind: c.Kind.String(), Color: c.Kind.Hex(), Branches: c.Branches}
	}
	return msg
}
