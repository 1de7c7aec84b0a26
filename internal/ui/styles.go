package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	ColorGreen    = "154"
	ColorWhite    = "255"
	ColorGray     = "245"
	ColorDarkGray = "238"
	ColorOrange   = "208"
	ColorRed      = "196"
	ColorYellow   = "220"
)

// Styles holds the styles used when printing check results.
type Styles struct {
	Header  lipgloss.Style
	Pass    lipgloss.Style
	Warning lipgloss.Style
	Inhibit lipgloss.Style
	Dim     lipgloss.Style
	Label   lipgloss.Style

	// Per-severity styles for report lines
	Low      lipgloss.Style
	Medium   lipgloss.Style
	High     lipgloss.Style
	Critical lipgloss.Style
}

// DefaultStyles returns colored styles for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Inhibit: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),

		Low:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Medium:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		High:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange)),
		Critical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle(),
		Pass:     lipgloss.NewStyle(),
		Warning:  lipgloss.NewStyle(),
		Inhibit:  lipgloss.NewStyle(),
		Dim:      lipgloss.NewStyle(),
		Label:    lipgloss.NewStyle(),
		Low:      lipgloss.NewStyle(),
		Medium:   lipgloss.NewStyle(),
		High:     lipgloss.NewStyle(),
		Critical: lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}

// Severity returns the style for a report severity name
// ("low", "medium", "high", "critical").
func (s Styles) Severity(name string) lipgloss.Style {
	switch name {
	case "low":
		return s.Low
	case "medium":
		return s.Medium
	case "high":
		return s.High
	case "critical":
		return s.Critical
	default:
		return s.Label
	}
}
