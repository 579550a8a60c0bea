package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	log "github.com/sirupsen/logrus"

	"github.com/san-kum/pvsim/internal/sim"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	maxHistory   = 200
	sceneMargin  = 80
)

// Monochrome chrome; curves keep their own colours.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColWall    = rl.NewColor(90, 90, 100, 255)
	ColPiston  = rl.NewColor(255, 170, 0, 255)
)

// Factory builds a fresh simulation; it is called again on reset.
type Factory func() (*sim.Simulation, error)

type App struct {
	factory Factory
	sim     *sim.Simulation
	frame   *sim.Frame
	err     error

	View      Viewport
	Running   bool
	Telemetry []float64
	Font      rl.Font
}

func initWindow() {
	rl.InitWindow(screenWidth, screenHeight, "pvsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the first simulation and fits its scene to the window.
// The window must already be open.
func NewApp(factory Factory) (*App, error) {
	s, err := factory()
	if err != nil {
		return nil, err
	}
	return &App{
		factory:   factory,
		sim:       s,
		View:      Fit(s.Bounds().Inset(-sceneMargin), screenWidth, screenHeight),
		Running:   true,
		Telemetry: make([]float64, 0, maxHistory),
		Font:      loadFont(),
	}, nil
}

// Run opens the window and blocks until it is closed.
func Run(factory Factory) error {
	initWindow()
	defer rl.CloseWindow()
	app, err := NewApp(factory)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeySpace) && a.err == nil {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if !a.Running {
		return
	}

	in := sim.Input{
		Cursor:  a.View.ToWorld(rl.GetMousePosition()),
		Pressed: rl.IsMouseButtonDown(rl.MouseLeftButton),
	}
	f, err := a.sim.Step(in)
	if err != nil {
		log.WithFields(log.Fields{"tick": a.sim.Tick()}).WithError(err).Warn("simulation stopped")
		a.err = err
		a.Running = false
		return
	}
	a.frame = f
	a.Telemetry = append(a.Telemetry, f.Work)
	if len(a.Telemetry) > maxHistory {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) reset() {
	s, err := a.factory()
	if err != nil {
		a.err = err
		a.Running = false
		return
	}
	a.sim, a.frame, a.err = s, nil, nil
	a.Telemetry = a.Telemetry[:0]
	a.Running = true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.frame != nil {
		a.drawBox(a.frame)
		a.drawPlot(a.frame)
		a.drawHandle(a.frame)
		a.drawReadout(a.frame)
	}
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("pvsim", 30, 30, 24, ColSelect)

	status, col := "RUNNING", ColSelect
	switch {
	case a.err != nil:
		status, col = "STOPPED", rl.Red
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	a.DrawTelemetry()
	a.drawText("[DRAG] MOVE HANDLE  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 760, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the recent work history as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("W: %.0f J", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
