package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tilaunch/tilaunch/internal/core"
)

// LogPanel is the scrolling build console. Lines keep their category so the
// colours follow the console_* settings.
type LogPanel struct {
	Lines       []core.LogLine
	ScrollPos   int
	VisibleRows int
	AutoFollow  bool
	Width       int
	Limit       int
}

func NewLogPanel() LogPanel {
	return LogPanel{AutoFollow: true, Limit: maxConsoleLines}
}

func (v *LogPanel) SetSize(width, height int) {
	v.Width = width
	v.VisibleRows = height
	v.autoScroll()
}

func (v *LogPanel) Clear() {
	v.Lines = nil
	v.ScrollPos = 0
	v.AutoFollow = true
}

// Append adds a line, dropping the oldest once Limit is reached.
func (v *LogPanel) Append(line core.LogLine) {
	v.Lines = append(v.Lines, line)
	if v.Limit > 0 && len(v.Lines) > v.Limit {
		drop := len(v.Lines) - v.Limit
		v.Lines = v.Lines[drop:]
		v.ScrollPos = maxInt(0, v.ScrollPos-drop)
	}
	v.autoScroll()
}

func (v *LogPanel) maxScroll() int {
	return maxInt(0, len(v.Lines)-v.VisibleRows)
}

func (v *LogPanel) autoScroll() {
	if v.AutoFollow {
		v.ScrollPos = v.maxScroll()
	}
}

func (v *LogPanel) ScrollUp(n int) {
	v.ScrollPos = maxInt(0, v.ScrollPos-n)
	v.AutoFollow = false
}

func (v *LogPanel) ScrollDown(n int) {
	v.ScrollPos = minInt(v.ScrollPos+n, v.maxScroll())
	v.AutoFollow = v.ScrollPos == v.maxScroll()
}

func (v *LogPanel) GotoTop() {
	v.ScrollPos = 0
	v.AutoFollow = false
}

func (v *LogPanel) GotoBottom() {
	v.ScrollPos = v.maxScroll()
	v.AutoFollow = true
}

// ToggleFollow switches auto-follow, jumping to the end when it turns on.
func (v *LogPanel) ToggleFollow() {
	if v.AutoFollow {
		v.AutoFollow = false
		return
	}
	v.GotoBottom()
}

// Counts returns the number of error and warning lines held.
func (v LogPanel) Counts() (errs, warns int) {
	for _, l := range v.Lines {
		switch l.Category {
		case core.CategoryError:
			errs++
		case core.CategoryWarn:
			warns++
		}
	}
	return errs, warns
}

func (v LogPanel) View(styles Styles) string {
	if len(v.Lines) == 0 || v.VisibleRows <= 0 {
		return ""
	}
	start := minInt(v.ScrollPos, len(v.Lines)-1)
	end := minInt(start+v.VisibleRows, len(v.Lines))
	textWidth := maxInt(1, v.Width-1)

	out := make([]string, 0, v.VisibleRows)
	for _, l := range v.Lines[start:end] {
		text := l.Text
		if lipgloss.Width(text) > textWidth {
			text = truncate(text, textWidth)
		}
		if st, ok := styles.Lines[l.Category]; ok {
			text = st.Render(text)
		}
		out = append(out, text)
	}
	return withScrollbar(out, textWidth, v.VisibleRows, len(v.Lines), start, styles)
}

func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
