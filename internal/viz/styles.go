package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	readoutStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusError   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

// Separator is a muted horizontal rule.
func Separator(width int, muted lipgloss.Color) string {
	if width < 1 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(muted).Render(strings.Repeat("─", width))
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}
