package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/join/internal/scenario"
)

var (
	colorEnter  = lipgloss.Color("#2CD7C7")
	colorUpdate = lipgloss.Color("#F4D03F")
	colorExit   = lipgloss.Color("#E74C3C")
	colorMuted  = lipgloss.Color("#5C7A84")
)

var styles = map[string]lipgloss.Style{
	scenario.KindTitle:  lipgloss.NewStyle().Bold(true),
	scenario.KindEnter:  lipgloss.NewStyle().Foreground(colorEnter),
	scenario.KindUpdate: lipgloss.NewStyle().Foreground(colorUpdate),
	scenario.KindExit:   lipgloss.NewStyle().Foreground(colorExit),
	scenario.KindClock:  lipgloss.NewStyle().Foreground(colorMuted),
}

var colorEnabled = true

func disableColor() { colorEnabled = false }

// styleLine is the scenario.Options.Style hook.
func styleLine(kind, line string) string {
	if !colorEnabled {
		return line
	}
	st, ok := styles[kind]
	if !ok {
		return line
	}
	return st.Render(line)
}

// curveName renders an ease name in the listing.
func curveName(name string) string {
	if !colorEnabled {
		return name
	}
	return styles[scenario.KindTitle].Render(name)
}
