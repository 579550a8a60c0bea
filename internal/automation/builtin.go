package automation

import "sort"

// Builtin scenarios, selectable by name from the CLI.
var Builtin = map[string]func() *Scenario{
	"cycle": func() *Scenario {
		return &Scenario{
			Name:        "cycle",
			Description: "Clockwise rectangular cycle: isochoric heating, isobaric expansion, isochoric cooling, isobaric compression",
			Start:       Waypoint{Volume: 20, Pressure: 6},
			Steps: []ScenarioStep{
				{Waypoint: Waypoint{Volume: 20, Pressure: 18}, Duration: 2},
				{Waypoint: Waypoint{Volume: 60, Pressure: 18}, Duration: 3},
				{Waypoint: Waypoint{Volume: 60, Pressure: 6}, Duration: 2},
				{Waypoint: Waypoint{Volume: 20, Pressure: 6}, Duration: 3},
			},
		}
	},
	"isotherm": func() *Scenario {
		return &Scenario{
			Name:        "isotherm",
			Description: "Slow compression along P*V = 400 and back",
			Start:       Waypoint{Volume: 50, Pressure: 8},
			Steps: []ScenarioStep{
				{Waypoint: Waypoint{Volume: 40, Pressure: 10}, Duration: 1.5, Ease: "inOutSine"},
				{Waypoint: Waypoint{Volume: 32, Pressure: 12.5}, Duration: 1.5, Ease: "inOutSine"},
				{Waypoint: Waypoint{Volume: 25, Pressure: 16}, Duration: 1.5, Ease: "inOutSine"},
				{Waypoint: Waypoint{Volume: 20, Pressure: 20}, Duration: 1.5, Ease: "inOutSine"},
				{Waypoint: Waypoint{Volume: 50, Pressure: 8}, Duration: 4, Ease: "inOutQuad"},
			},
		}
	},
}

// GetBuiltin returns a fresh copy of the named scenario, or nil.
func GetBuiltin(name string) *Scenario {
	if f, ok := Builtin[name]; ok {
		return f()
	}
	return nil
}

func ListBuiltin() []string {
	names := make([]string, 0, len(Builtin))
	for k := range Builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
