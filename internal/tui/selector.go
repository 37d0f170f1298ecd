package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tilaunch/tilaunch/internal/core"
)

// =============================================================================
// Selector Item
// =============================================================================

// SelectorItem represents an item that can be selected
type SelectorItem struct {
	ID          string // project dir, udid, profile uuid or certificate name
	Title       string
	Description string // e.g. iOS version
	Meta        string // e.g. "[device]"
}

// MatchScore returns how well this item matches the query (higher = better)
func (item SelectorItem) MatchScore(query string) int {
	if query == "" {
		return 100
	}

	query = strings.ToLower(query)
	title := strings.ToLower(item.Title)
	desc := strings.ToLower(item.Description)

	if strings.HasPrefix(title, query) {
		return 100
	}
	if strings.Contains(title, query) {
		return 80
	}
	if strings.Contains(desc, query) {
		return 60
	}
	if fuzzyMatch(title, query) {
		return 40
	}
	return 0
}

// fuzzyMatch checks if all characters of needle appear in haystack in order
func fuzzyMatch(haystack, needle string) bool {
	rest := haystack
	for _, char := range needle {
		i := strings.IndexRune(rest, char)
		if i < 0 {
			return false
		}
		rest = rest[i+len(string(char)):]
	}
	return true
}

// =============================================================================
// Selector Model
// =============================================================================

// SelectorModel is a fuzzy-search selector popup
type SelectorModel struct {
	kind       SelectorType
	title      string
	items      []SelectorItem
	width      int
	maxVisible int
	selectedID string

	input    textinput.Model
	filtered []SelectorItem
	cursor   int

	styles Styles
}

// SelectorResult is returned when selector closes
type SelectorResult struct {
	Kind     SelectorType
	Selected *SelectorItem
	Aborted  bool
}

// NewSelector opens a selector over items with the cursor on selectedID, if present.
func NewSelector(kind SelectorType, items []SelectorItem, selectedID string, screenWidth int, styles Styles) SelectorModel {
	width := screenWidth * 55 / 100
	if width < 40 {
		width = 40
	}
	if width > 70 {
		width = 70
	}

	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 50
	ti.Width = width - 6

	m := SelectorModel{
		kind:       kind,
		title:      kind.Title(),
		items:      items,
		width:      width,
		maxVisible: minInt(10, len(items)),
		selectedID: selectedID,
		input:      ti,
		filtered:   items,
		styles:     styles,
	}
	m.cursorToSelected()
	return m
}

func (m SelectorModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update returns a non-nil result once the selector closes.
func (m SelectorModel) Update(msg tea.Msg) (SelectorModel, tea.Cmd, *SelectorResult) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, nil, &SelectorResult{Kind: m.kind, Aborted: true}

		case "enter":
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				sel := m.filtered[m.cursor]
				return m, nil, &SelectorResult{Kind: m.kind, Selected: &sel}
			}
			return m, nil, nil

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil, nil

		case "ctrl+u":
			m.input.SetValue("")
			m.filterItems()
			return m, nil, nil

		default:
			m.input, cmd = m.input.Update(msg)
			m.filterItems()
			return m, cmd, nil
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd, nil
}

// filterItems keeps the items matching the input, best score first.
func (m *SelectorModel) filterItems() {
	query := m.input.Value()
	if query == "" {
		m.filtered = m.items
		m.cursorToSelected()
		return
	}

	type scored struct {
		item  SelectorItem
		score int
	}
	var hits []scored
	for _, item := range m.items {
		if score := item.MatchScore(query); score > 0 {
			hits = append(hits, scored{item: item, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	m.filtered = make([]SelectorItem, len(hits))
	for i, h := range hits {
		m.filtered[i] = h.item
	}
	m.cursor = 0
}

func (m *SelectorModel) cursorToSelected() {
	m.cursor = 0
	for i, item := range m.filtered {
		if item.ID == m.selectedID {
			m.cursor = i
			return
		}
	}
}

func (m SelectorModel) View() string {
	s := m.styles
	p := s.Popup
	var b strings.Builder

	divider := p.Divider.Render(strings.Repeat("─", m.width-4))

	b.WriteString(p.Title.Render(m.title))
	b.WriteString("\n" + divider + "\n")
	prompt := lipgloss.NewStyle().Foreground(s.Colors.Accent).Bold(true)
	b.WriteString(prompt.Render("> ") + m.input.View())
	b.WriteString("\n" + divider + "\n")

	if len(m.filtered) == 0 {
		b.WriteString(p.Empty.Render("  No matches"))
		b.WriteString("\n")
	} else {
		start, end := 0, len(m.filtered)
		if end > m.maxVisible {
			start = m.cursor - m.maxVisible/2
			if start < 0 {
				start = 0
			}
			end = start + m.maxVisible
			if end > len(m.filtered) {
				end = len(m.filtered)
				start = end - m.maxVisible
			}
		}
		for i := start; i < end; i++ {
			b.WriteString(m.renderItem(m.filtered[i], i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString(divider + "\n")
	hintKey := lipgloss.NewStyle().Foreground(s.Colors.Accent)
	hintDesc := lipgloss.NewStyle().Foreground(s.Colors.TextSubtle)
	b.WriteString(hintKey.Render("↑↓") + hintDesc.Render(" navigate  ") +
		hintKey.Render("⏎") + hintDesc.Render(" select  ") +
		hintKey.Render("esc") + hintDesc.Render(" cancel"))

	return p.Container.Width(m.width).Render(b.String())
}

func (m SelectorModel) renderItem(item SelectorItem, isSelected bool) string {
	s := m.styles
	var line string
	if isSelected {
		line = s.StatusStyle("running").Render(s.Icons.Chevron) + " " + s.Popup.Selected.Render(item.Title)
	} else {
		line = "  " + s.Popup.Item.Render(item.Title)
	}
	if item.Description != "" {
		line += " " + s.Popup.Meta.Render(item.Description)
	}
	if item.Meta != "" {
		meta := s.Popup.Meta
		if item.Meta == "[device]" {
			meta = s.StatusStyle("running")
		}
		line += " " + meta.Render(item.Meta)
	}
	if m.selectedID != "" && item.ID == m.selectedID {
		line += " " + s.StatusStyle("warning").Render("[current]")
	}
	return line
}

// =============================================================================
// Item builders
// =============================================================================

// ProjectItems lists projects by label, keyed by directory.
func ProjectItems(projects []core.Project) []SelectorItem {
	items := make([]SelectorItem, len(projects))
	for i, p := range projects {
		items[i] = SelectorItem{ID: p.Dir, Title: p.Label}
	}
	return items
}

// TargetItems lists devices before simulators, each newest OS first.
func TargetItems(resolved core.ResolvedTargets) []SelectorItem {
	items := make([]SelectorItem, 0, len(resolved.Devices)+len(resolved.Simulators))
	for _, t := range resolved.SortedDevices() {
		items = append(items, SelectorItem{
			ID:          t.ID,
			Title:       t.Name,
			Description: "iOS " + t.OSVersion,
			Meta:        "[device]",
		})
	}
	for _, t := range resolved.SortedSimulators() {
		items = append(items, SelectorItem{
			ID:          t.ID,
			Title:       t.Name,
			Description: "iOS " + t.OSVersion,
			Meta:        fmt.Sprintf("[%s]", t.Family),
		})
	}
	return items
}

// SigningItems maps signing options to items. The marked option becomes selected.
func SigningItems(opts []core.SigningOption) (items []SelectorItem, selected string) {
	items = make([]SelectorItem, len(opts))
	for i, o := range opts {
		items[i] = SelectorItem{ID: o.Value, Title: o.Label}
		if o.Selected {
			selected = o.Value
		}
	}
	return items, selected
}

// RenderCenteredPopup renders a popup centered on screen
func RenderCenteredPopup(content string, screenWidth, screenHeight int) string {
	return lipgloss.Place(
		screenWidth,
		screenHeight,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
