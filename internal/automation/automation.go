package automation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pvsim/internal/sim"
	"github.com/san-kum/pvsim/internal/thermo"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario drags the handle through a sequence of (V, P) waypoints.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Start       Waypoint       `yaml:"start"`
	Loop        bool           `yaml:"loop"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type Waypoint struct {
	Volume   float64 `yaml:"volume"`
	Pressure float64 `yaml:"pressure"`
}

// ScenarioStep moves from the previous waypoint to this one over Duration
// seconds using the named easing.
type ScenarioStep struct {
	Waypoint `yaml:",inline"`
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
}

var easings = map[string]ease.TweenFunc{
	"":           ease.Linear,
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
}

// Easings lists the accepted easing names.
func Easings() []string {
	names := make([]string, 0, len(easings))
	for k := range easings {
		if k != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyScenario, s.Name)
	}
	for i, step := range s.Steps {
		if !(step.Duration >= 0) || math.IsInf(step.Duration, 0) {
			return fmt.Errorf("automation: step %d: invalid duration %v", i+1, step.Duration)
		}
		if _, ok := easings[step.Ease]; !ok {
			return fmt.Errorf("automation: step %d: unknown easing %q", i+1, step.Ease)
		}
	}
	if s.Duration() == 0 {
		return fmt.Errorf("automation: scenario %q has zero total duration", s.Name)
	}
	return nil
}

// Duration is the length of one pass through the steps.
func (s *Scenario) Duration() float64 {
	var total float64
	for _, step := range s.Steps {
		total += step.Duration
	}
	return total
}

// Ticks is the number of ticks of length dt needed for one pass.
func (s *Scenario) Ticks(dt float64) int {
	return int(math.Ceil(s.Duration()/dt - 1e-9))
}

// At returns the waypoint the handle should be at after t seconds.
// Every step's waypoint is returned exactly at its end time.
func (s *Scenario) At(t float64) Waypoint {
	total := s.Duration()
	if s.Loop && total > 0 && t > total {
		t = math.Mod(t, total)
	}

	from := s.Start
	elapsed := 0.0
	for _, step := range s.Steps {
		end := elapsed + step.Duration
		if t >= end {
			from = step.Waypoint
			elapsed = end
			continue
		}
		if t <= elapsed {
			return from
		}
		local := float32(t - elapsed)
		d := float32(step.Duration)
		fn := easings[step.Ease]
		v, _ := gween.New(float32(from.Volume), float32(step.Volume), d, fn).Set(local)
		p, _ := gween.New(float32(from.Pressure), float32(step.Pressure), d, fn).Set(local)
		return Waypoint{Volume: float64(v), Pressure: float64(p)}
	}
	return from
}

// Source turns the scenario into held-button input for m. Every waypoint
// must lie strictly inside the plot.
func (s *Scenario) Source(m *thermo.Model) (sim.InputSource, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	points := []Waypoint{s.Start}
	for _, step := range s.Steps {
		points = append(points, step.Waypoint)
	}
	for _, w := range points {
		if !m.InPlot(m.PointFor(w.Volume, w.Pressure)) {
			return nil, fmt.Errorf("automation: waypoint V=%v P=%v is outside the plot", w.Volume, w.Pressure)
		}
	}

	return sim.InputFunc(func(_ int, t float64) sim.Input {
		w := s.At(t)
		return sim.Input{Cursor: m.PointFor(w.Volume, w.Pressure), Pressed: true}
	}), nil
}
