package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the colour scheme for the TUI. Curve colours are fixed by
// curve kind and do not change with the theme.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Wall    lipgloss.Color
	Piston  lipgloss.Color
	Handle  lipgloss.Color
	Slow    string
	Fast    string
}

var (
	ThemeClassic = Theme{
		Name:    "classic",
		Primary: lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Wall:    lipgloss.Color("#888899"),
		Piston:  lipgloss.Color("#ffaa00"),
		Handle:  lipgloss.Color("#ffffff"),
		Slow:    "#3b82f6",
		Fast:    "#ef4444",
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Wall:    lipgloss.Color("#00cc00"),
		Piston:  lipgloss.Color("#88ff88"),
		Handle:  lipgloss.Color("#ccffcc"),
		Slow:    "#005500",
		Fast:    "#ccffcc",
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Wall:    lipgloss.Color("#feca57"),
		Piston:  lipgloss.Color("#ff9ff3"),
		Handle:  lipgloss.Color("#fff5f5"),
		Slow:    "#5f27cd",
		Fast:    "#feca57",
	}

	Themes = []Theme{ThemeClassic, ThemeRetro, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Next returns the theme after t in Themes.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeClassic
}

// SpeedColor blends from Slow to Fast in Lab space. ratio is a particle's
// speed over the ensemble mean; twice the mean and above is fully Fast.
func (t Theme) SpeedColor(ratio float64) string {
	slow, err := colorful.Hex(t.Slow)
	if err != nil {
		return t.Slow
	}
	fast, err := colorful.Hex(t.Fast)
	if err != nil {
		return t.Fast
	}
	f := ratio / 2
	if !(f > 0) {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return slow.BlendLab(fast, f).Clamped().Hex()
}
