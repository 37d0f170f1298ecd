package tui

import "github.com/charmbracelet/lipgloss"

// Colors is the chrome palette. Build output uses the console_* colours of the config
// instead, see Styles.WithConsoleColors.
type Colors struct {
	Accent      lipgloss.AdaptiveColor
	AccentMuted lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Running lipgloss.AdaptiveColor

	Surface lipgloss.AdaptiveColor

	Text       lipgloss.AdaptiveColor
	TextMuted  lipgloss.AdaptiveColor
	TextSubtle lipgloss.AdaptiveColor

	Border      lipgloss.AdaptiveColor
	BorderMuted lipgloss.AdaptiveColor
}

// PastelColors adapts to dark and light terminals.
func PastelColors() Colors {
	return Colors{
		Accent:      lipgloss.AdaptiveColor{Light: "#5A7BC0", Dark: "#7AA2F7"},
		AccentMuted: lipgloss.AdaptiveColor{Light: "#7B96D3", Dark: "#3D59A1"},

		Success: lipgloss.AdaptiveColor{Light: "#5B8A3A", Dark: "#9ECE6A"},
		Warning: lipgloss.AdaptiveColor{Light: "#C48F2C", Dark: "#E0AF68"},
		Error:   lipgloss.AdaptiveColor{Light: "#C74B5C", Dark: "#F7768E"},
		Running: lipgloss.AdaptiveColor{Light: "#8B6AB0", Dark: "#BB9AF7"},

		Surface: lipgloss.AdaptiveColor{Light: "#F5F0E8", Dark: "#24283B"},

		Text:       lipgloss.AdaptiveColor{Light: "#383A42", Dark: "#C0CAF5"},
		TextMuted:  lipgloss.AdaptiveColor{Light: "#6C6E7A", Dark: "#9AA5CE"},
		TextSubtle: lipgloss.AdaptiveColor{Light: "#9DA0AB", Dark: "#565F89"},

		Border:      lipgloss.AdaptiveColor{Light: "#D5D1C9", Dark: "#3B4261"},
		BorderMuted: lipgloss.AdaptiveColor{Light: "#E8E4DC", Dark: "#292E42"},
	}
}
