package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// formPicker is the `picker = form` alternative to SelectorModel: a single huh
// select over the same items.
type formPicker struct {
	kind  SelectorType
	items []SelectorItem
	value string
	form  *huh.Form
}

func pickerOptions(items []SelectorItem, selectedID string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(items))
	for _, it := range items {
		label := it.Title
		if it.Description != "" {
			label += " " + it.Description
		}
		if it.Meta != "" {
			label += " " + it.Meta
		}
		opts = append(opts, huh.NewOption(label, it.ID).Selected(it.ID == selectedID))
	}
	return opts
}

func newFormPicker(kind SelectorType, items []SelectorItem, selectedID string, width int) formPicker {
	fp := formPicker{kind: kind, items: items, value: selectedID}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(kind.Title()).
				Options(pickerOptions(items, selectedID)...).
				Height(minInt(12, len(items)+2)).
				Value(&fp.value),
		),
	).WithShowHelp(true)
	if width > 0 {
		form = form.WithWidth(minInt(width-6, 80))
	}
	fp.form = form
	return fp
}

func (fp formPicker) Init() tea.Cmd {
	return fp.form.Init()
}

// Update mirrors SelectorModel.Update: the result is non-nil once the form closes.
func (fp formPicker) Update(msg tea.Msg) (formPicker, tea.Cmd, *SelectorResult) {
	m, cmd := fp.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		fp.form = f
	}
	switch fp.form.State {
	case huh.StateCompleted:
		for _, it := range fp.items {
			if it.ID == fp.value {
				sel := it
				return fp, cmd, &SelectorResult{Kind: fp.kind, Selected: &sel}
			}
		}
		return fp, cmd, &SelectorResult{Kind: fp.kind, Aborted: true}
	case huh.StateAborted:
		return fp, cmd, &SelectorResult{Kind: fp.kind, Aborted: true}
	default:
		return fp, cmd, nil
	}
}

func (fp formPicker) View(styles Styles) string {
	return styles.Popup.Container.Render(fp.form.View())
}
