package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/harmonica"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pvsim/internal/geom"
	"github.com/san-kum/pvsim/internal/sim"
	log "github.com/sirupsen/logrus"
)

const (
	defaultCols     = 96
	defaultRows     = 30
	panelWidth      = 40
	canvasTop       = 2
	historyCapacity = 300
	fps             = 60
)

type TickMsg time.Time

// Factory builds a fresh simulation; it is called again on reset.
type Factory func() (*sim.Simulation, error)

type pointer struct {
	pressed bool
	cursor  mgl64.Vec2
}

// nudge eases the handle toward a keyboard target.
type nudge struct {
	active   bool
	pos, vel mgl64.Vec2
	target   mgl64.Vec2
}

// Model is the Bubble Tea model driving one simulation.
type Model struct {
	factory Factory
	sim     *sim.Simulation
	frame   *sim.Frame
	err     error

	canvas *Canvas
	proj   Projection
	plot   geom.Rect

	theme    Theme
	keys     keyMap
	help     help.Model
	spring   harmonica.Spring
	pointer  pointer
	nudge    nudge
	running  bool
	width    int
	height   int
	tempHist []float64
	workHist []float64
}

func NewModel(factory Factory, theme string) (Model, error) {
	s, err := factory()
	if err != nil {
		return Model{}, err
	}
	m := Model{
		factory: factory,
		sim:     s,
		canvas:  NewCanvas(defaultCols, defaultRows),
		proj:    Projection{World: s.Bounds().Inset(-sceneMargin), Cols: defaultCols, Rows: defaultRows},
		plot:    s.Model().Plot(),
		theme:   GetTheme(theme),
		keys:    defaultKeys(),
		help:    help.New(),
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		running: true,
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		if m.err == nil {
			m.running = !m.running
		}
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Theme):
		m.theme = m.theme.Next()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.push(mgl64.Vec2{0, m.plot.Height() / 20})
	case key.Matches(msg, m.keys.Down):
		m.push(mgl64.Vec2{0, -m.plot.Height() / 20})
	case key.Matches(msg, m.keys.Left):
		m.push(mgl64.Vec2{-m.plot.Width() / 40, 0})
	case key.Matches(msg, m.keys.Right):
		m.push(mgl64.Vec2{m.plot.Width() / 40, 0})
	}
	return m, nil
}

func (m *Model) push(d mgl64.Vec2) {
	if !m.nudge.active {
		h := m.sim.Handle()
		m.nudge = nudge{active: true, pos: h, target: h}
	}
	m.nudge.target = m.sim.Model().Clamp(m.nudge.target.Add(d))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	w := m.proj.CellCenter(msg.X, msg.Y-canvasTop)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointer = pointer{pressed: true, cursor: w}
			m.nudge.active = false
		}
	case tea.MouseActionMotion:
		if m.pointer.pressed {
			m.pointer.cursor = w
		}
	case tea.MouseActionRelease:
		m.pointer.pressed = false
	}
}

// input is the pointer state for the next tick. A held mouse button wins
// over a keyboard nudge.
func (m *Model) input() sim.Input {
	if m.pointer.pressed {
		return sim.Input{Cursor: m.pointer.cursor, Pressed: true}
	}
	if !m.nudge.active {
		return sim.Input{}
	}
	n := &m.nudge
	x, vx := m.spring.Update(n.pos[0], n.vel[0], n.target[0])
	y, vy := m.spring.Update(n.pos[1], n.vel[1], n.target[1])
	n.pos, n.vel = mgl64.Vec2{x, y}, mgl64.Vec2{vx, vy}
	if n.pos.Sub(n.target).Len() < 0.05 && n.vel.Len() < 0.05 {
		n.pos = n.target
		n.active = false
	}
	return sim.Input{Cursor: n.pos, Pressed: true}
}

func (m *Model) step() {
	f, err := m.sim.Step(m.input())
	if err != nil {
		log.WithFields(log.Fields{"tick": m.sim.Tick()}).WithError(err).Warn("simulation stopped")
		m.err = err
		m.running = false
		return
	}
	m.frame = f
	m.tempHist = appendCapped(m.tempHist, f.State.Temperature)
	m.workHist = appendCapped(m.workHist, f.Work)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) reset() {
	s, err := m.factory()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.sim, m.frame, m.err = s, nil, nil
	m.pointer, m.nudge = pointer{}, nudge{}
	m.tempHist, m.workHist = m.tempHist[:0], m.workHist[:0]
	m.running = true
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	cols := max(w-panelWidth-2, 20)
	rows := max(h-canvasTop-2, 8)
	m.canvas = NewCanvas(cols, rows)
	m.proj.Cols, m.proj.Rows = cols, rows
}

func (m Model) View() string {
	var b strings.Builder
	title := headerStyle.Foreground(m.theme.Primary).Render("PVSIM")
	b.WriteString(title + "  " + m.status() + "\n")

	if m.frame == nil {
		b.WriteString("\n" + m.help.View(m.keys))
		return b.String()
	}
	b.WriteString(readoutStyle.Render(strings.ReplaceAll(m.frame.Readout.String(), "\n", "    ")) + "\n")

	DrawFrame(m.canvas, m.proj, m.frame, m.plot, m.sim.Config().HandleRadius, m.theme)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), " ", m.panel())
	b.WriteString(body + "\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusError.Render("STOPPED: " + m.err.Error())
	case !m.running:
		return statusPaused.Render("PAUSED")
	default:
		return statusRunning.Render("RUNNING")
	}
}

func (m Model) panel() string {
	f := m.frame
	var s strings.Builder
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", f.Time)) + "\n")
	s.WriteString(row("Volume", fmt.Sprintf("%.2f", f.State.Volume)) + "\n")
	s.WriteString(row("Pressure", fmt.Sprintf("%.2f", f.State.Pressure)) + "\n")
	s.WriteString(row("Energy", fmt.Sprintf("%.1f", f.State.InternalEnergy)) + "\n")
	s.WriteString(row("Particles", fmt.Sprintf("%d", len(f.Particles))) + "\n")
	if f.Relocated > 0 {
		s.WriteString(row("Relocated", fmt.Sprintf("%d", f.Relocated)) + "\n")
	}
	s.WriteString(Separator(panelWidth-6, m.theme.Muted) + "\n")
	if len(m.tempHist) > 1 {
		chart := asciigraph.Plot(m.tempHist, asciigraph.Height(5), asciigraph.Width(panelWidth-14), asciigraph.Caption("T (K)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.workHist) > 1 {
		chart := asciigraph.Plot(m.workHist, asciigraph.Height(5), asciigraph.Width(panelWidth-14), asciigraph.Caption("W (J)"))
		s.WriteString(graphStyle.Render(chart))
	}
	return panelStyle.Width(panelWidth).Render(s.String())
}

// Run starts the TUI in the alternate screen with mouse tracking.
func Run(factory Factory, theme string) error {
	m, err := NewModel(factory, theme)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
