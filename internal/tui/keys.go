package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSelector
	ModeForm
	ModeWizard
	ModeHelp
)

// SelectorType represents what the selector is selecting
type SelectorType int

const (
	SelectorProject SelectorType = iota
	SelectorTarget
	SelectorProfile
	SelectorCertificate
)

func (t SelectorType) Title() string {
	switch t {
	case SelectorProject:
		return "Select Project"
	case SelectorTarget:
		return "Select Target"
	case SelectorProfile:
		return "Select Provisioning Profile"
	case SelectorCertificate:
		return "Select Certificate"
	default:
		return "Select"
	}
}

type keyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Cancel key.Binding

	Run   key.Binding
	Stop  key.Binding
	Login key.Binding

	Project key.Binding
	Target  key.Binding
	Signing key.Binding
	Config  key.Binding
	Refresh key.Binding

	ScrollUp     key.Binding
	ScrollDown   key.Binding
	ScrollTop    key.Binding
	ScrollBottom key.Binding
	PageUp       key.Binding
	PageDown     key.Binding

	ToggleFollow key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/close"),
		),

		Run: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "run"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Login: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "login"),
		),

		Project: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "project"),
		),
		Target: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "target"),
		),
		Signing: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "signing"),
		),
		Config: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "settings"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("^r", "refresh"),
		),

		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		ScrollTop: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		ScrollBottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("pgdn", "page down"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow"),
		),
	}
}

// ShortHelp returns bindings shown in compact help
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Stop, k.Project, k.Target, k.Signing, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for full help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Stop, k.Login},
		{k.Project, k.Target, k.Signing, k.Config, k.Refresh},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown, k.ScrollTop, k.ScrollBottom, k.ToggleFollow},
		{k.Cancel, k.Help, k.Quit},
	}
}
