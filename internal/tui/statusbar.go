package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Status Bar - Top bar showing project, target and launch status
// =============================================================================

type StatusBar struct {
	ProjectName string
	GitBranch   string
	TargetName  string
	TargetOS    string
	Simulator   bool

	Running bool
	Stage   string

	HasLastResult     bool
	LastResultSuccess bool
	LastResultTime    string

	ErrorCount   int
	WarningCount int

	Spinner spinner.Model
}

func NewStatusBar() StatusBar {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return StatusBar{Spinner: sp}
}

func (s StatusBar) View(width int, styles Styles) string {
	st := styles.StatusBar
	icons := styles.Icons
	sep := st.Separator.Render(" · ")

	parts := []string{st.Brand.Render("tilaunch")}

	projectText := "No project"
	if s.ProjectName != "" {
		projectText = s.ProjectName
	}
	parts = append(parts, sep, st.Value.Render(icons.Project+" "+projectText))
	if s.GitBranch != "" {
		parts = append(parts, sep, st.Muted.Render(icons.Branch+" "+s.GitBranch))
	}

	targetText := "No target"
	if s.TargetName != "" {
		icon := icons.Device
		if s.Simulator {
			icon = icons.Simulator
		}
		targetText = icon + " " + s.TargetName
		if width >= 100 && s.TargetOS != "" {
			targetText += " (iOS " + s.TargetOS + ")"
		}
	}
	parts = append(parts, sep, st.Value.Render(targetText))

	left := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	status := s.renderStatus(styles)
	spacer := strings.Repeat(" ", maxInt(1, width-lipgloss.Width(left)-lipgloss.Width(status)-4))
	return lipgloss.JoinHorizontal(lipgloss.Center, left, spacer, status)
}

func (s StatusBar) renderStatus(styles Styles) string {
	icons := styles.Icons
	muted := styles.StatusBar.Muted

	if s.Running {
		label := "RUNNING"
		if s.Stage != "" {
			label += " " + s.Stage
		}
		return styles.StatusStyle("running").Render(s.Spinner.View()) + " " + muted.Render(label)
	}

	bracket := styles.StatusBar.Separator
	var parts []string
	if s.ErrorCount > 0 || s.WarningCount > 0 {
		var counts []string
		if s.ErrorCount > 0 {
			counts = append(counts, styles.StatusStyle("error").Render(icons.Error+" "+strconv.Itoa(s.ErrorCount)))
		}
		if s.WarningCount > 0 {
			counts = append(counts, styles.StatusStyle("warning").Render(icons.Warning+" "+strconv.Itoa(s.WarningCount)))
		}
		parts = append(parts, bracket.Render("[")+strings.Join(counts, " ")+bracket.Render("]"))
	} else if s.HasLastResult {
		icon, status := icons.Success, "success"
		if !s.LastResultSuccess {
			icon, status = icons.Error, "error"
		}
		text := styles.StatusStyle(status).Render(icon)
		if s.LastResultTime != "" {
			text += " " + muted.Render(s.LastResultTime)
		}
		parts = append(parts, bracket.Render("[")+text+bracket.Render("]"))
	}
	parts = append(parts, styles.StatusStyle("idle").Render(icons.Idle))
	return strings.Join(parts, " ")
}
