package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/tilaunch/tilaunch/internal/core"
)

// ConsoleEmitter is the human-readable emitter. Build output lines are coloured by
// their category; everything else is rendered like core.TextEmitter.
type ConsoleEmitter struct {
	mu     sync.Mutex
	w      io.Writer
	styles map[core.Category]lipgloss.Style
	warn   lipgloss.Style
	err    lipgloss.Style
	hint   lipgloss.Style
}

func NewConsoleEmitter(w io.Writer, colors core.ConsoleColors) *ConsoleEmitter {
	return &ConsoleEmitter{
		w:      w,
		styles: categoryStyles(colors),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Warn)),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Error)).Bold(true),
		hint:   lipgloss.NewStyle().Faint(true),
	}
}

func categoryStyles(colors core.ConsoleColors) map[core.Category]lipgloss.Style {
	out := map[core.Category]lipgloss.Style{}
	for _, c := range []core.Category{core.CategoryNormal, core.CategoryDebug, core.CategoryTrace, core.CategoryInfo, core.CategoryError, core.CategoryWarn} {
		st := lipgloss.NewStyle()
		if col := colors.For(c); col != "" {
			st = st.Foreground(lipgloss.Color(col))
		}
		out[c] = st
	}
	return out
}

// RenderLine colours one classified line.
func (e *ConsoleEmitter) RenderLine(line core.LogLine) string {
	st, ok := e.styles[line.Category]
	if !ok {
		return line.Text
	}
	return st.Render(line.Text)
}

func (e *ConsoleEmitter) Emit(ev core.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ev.Type == "result" {
		return
	}
	if ev.Type == "log" {
		if c, ok := core.LineCategory(ev); ok {
			fmt.Fprintln(e.w, e.RenderLine(core.LogLine{Text: ev.Msg, Category: c}))
			return
		}
	}
	switch {
	case ev.Type == "warning":
		fmt.Fprintln(e.w, e.warn.Render("warning: "+ev.Msg))
	case ev.Err != nil:
		fmt.Fprintln(e.w, e.err.Render(fmt.Sprintf("error[%s]: %s", ev.Err.Code, ev.Err.Message)))
	case ev.Msg != "":
		fmt.Fprintln(e.w, ev.Msg)
	}
	if ev.Err != nil && ev.Err.Suggestion != "" {
		fmt.Fprintln(e.w, e.hint.Render("  hint: "+ev.Err.Suggestion))
	}
}
