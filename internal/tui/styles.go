package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/tilaunch/tilaunch/internal/core"
)

// =============================================================================
// Icons - Nerd Font with Unicode Fallback
// =============================================================================

type Icons struct {
	Success   string
	Error     string
	Warning   string
	Running   string
	Idle      string
	Chevron   string
	Branch    string
	Project   string
	Device    string
	Simulator string
	Separator string
}

func NerdFontIcons() Icons {
	return Icons{
		Success:   "",
		Error:     "",
		Warning:   "",
		Running:   "",
		Idle:      "",
		Chevron:   "",
		Branch:    "",
		Project:   "",
		Device:    "",
		Simulator: "",
		Separator: "│",
	}
}

func UnicodeIcons() Icons {
	return Icons{
		Success:   "✓",
		Error:     "✗",
		Warning:   "⚠",
		Running:   "●",
		Idle:      "○",
		Chevron:   "▸",
		Branch:    "⎇",
		Project:   "◫",
		Device:    "◧",
		Simulator: "◨",
		Separator: "│",
	}
}

// GetIcons uses Nerd Font glyphs unless TILAUNCH_NERD_FONT=0.
func GetIcons() Icons {
	if os.Getenv("TILAUNCH_NERD_FONT") == "0" {
		return UnicodeIcons()
	}
	return NerdFontIcons()
}

// =============================================================================
// Component Styles
// =============================================================================

type Styles struct {
	Colors Colors
	Icons  Icons

	StatusBar StatusBarStyles
	HintsBar  HintsBarStyles
	Popup     PopupStyles
	Toast     ToastStyles

	// Lines maps a log category to the style of build output lines.
	Lines map[core.Category]lipgloss.Style
}

type StatusBarStyles struct {
	Container lipgloss.Style
	Brand     lipgloss.Style
	Value     lipgloss.Style
	Muted     lipgloss.Style
	Separator lipgloss.Style
}

type HintsBarStyles struct {
	Container lipgloss.Style
	Key       lipgloss.Style
	Desc      lipgloss.Style
}

type PopupStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Divider   lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Meta      lipgloss.Style
	Empty     lipgloss.Style
}

type ToastStyles struct {
	Container lipgloss.Style
}

func DefaultStyles() Styles {
	c := PastelColors()
	s := Styles{
		Colors: c,
		Icons:  GetIcons(),
		StatusBar: StatusBarStyles{
			Container: lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.Border{Bottom: "─"}).
				BorderForeground(c.Border).
				BorderBottom(true),
			Brand:     lipgloss.NewStyle().Bold(true).Foreground(c.Accent),
			Value:     lipgloss.NewStyle().Foreground(c.Text),
			Muted:     lipgloss.NewStyle().Foreground(c.TextMuted),
			Separator: lipgloss.NewStyle().Foreground(c.TextSubtle),
		},
		HintsBar: HintsBarStyles{
			Container: lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.Border{Top: "─"}).
				BorderForeground(c.Border).
				BorderTop(true),
			Key:  lipgloss.NewStyle().Foreground(c.Accent).Bold(true),
			Desc: lipgloss.NewStyle().Foreground(c.TextMuted),
		},
		Popup: PopupStyles{
			Container: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(c.Border).
				Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true).Foreground(c.Text),
			Divider:  lipgloss.NewStyle().Foreground(c.BorderMuted),
			Item:     lipgloss.NewStyle().Foreground(c.Text),
			Selected: lipgloss.NewStyle().Foreground(c.Text).Bold(true),
			Meta:     lipgloss.NewStyle().Foreground(c.TextMuted),
			Empty:    lipgloss.NewStyle().Foreground(c.TextMuted).Italic(true),
		},
		Toast: ToastStyles{
			Container: lipgloss.NewStyle().
				Foreground(c.Text).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(c.Accent).
				Padding(0, 1),
		},
	}
	return s.WithConsoleColors(core.DefaultConfig().ConsoleColors)
}

// WithConsoleColors returns s with build output coloured by cc. Empty colours keep
// the terminal default.
func (s Styles) WithConsoleColors(cc core.ConsoleColors) Styles {
	lines := make(map[core.Category]lipgloss.Style, 6)
	for _, cat := range []core.Category{core.CategoryNormal, core.CategoryDebug, core.CategoryTrace, core.CategoryInfo, core.CategoryError, core.CategoryWarn} {
		st := lipgloss.NewStyle()
		if col := cc.For(cat); col != "" {
			st = st.Foreground(lipgloss.Color(col))
		}
		lines[cat] = st
	}
	s.Lines = lines
	return s
}

// StatusStyle returns the appropriate style for a status
func (s Styles) StatusStyle(status string) lipgloss.Style {
	switch status {
	case "success", "ok":
		return lipgloss.NewStyle().Foreground(s.Colors.Success)
	case "error", "failure":
		return lipgloss.NewStyle().Foreground(s.Colors.Error)
	case "warning", "warn":
		return lipgloss.NewStyle().Foreground(s.Colors.Warning)
	case "running":
		return lipgloss.NewStyle().Foreground(s.Colors.Running)
	default:
		return lipgloss.NewStyle().Foreground(s.Colors.TextMuted)
	}
}
