package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tilaunch/tilaunch/internal/core"
)

type Options struct {
	Config     core.Config
	ConfigPath string
	Inventory  core.InventoryProvider
}

func Run(opts Options) error {
	m := NewModel(opts)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithReportFocus(), // required for huh focus support in larger programs
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.watcher != nil {
		fm.watcher.Close()
	}
	return err
}
