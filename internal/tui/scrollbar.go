package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// scrollbar returns one cell per visible row: a track, with a thumb sized and
// placed by the share of content on screen. Blank when everything fits.
func scrollbar(height, total, pos int, styles Styles) []string {
	if height <= 0 {
		return nil
	}
	out := make([]string, height)
	if total <= height {
		for i := range out {
			out[i] = " "
		}
		return out
	}

	track := lipgloss.NewStyle().Foreground(styles.Colors.BorderMuted).Render("│")
	thumb := lipgloss.NewStyle().Foreground(styles.Colors.TextMuted).Render("█")

	size := int(math.Round(float64(height) * float64(height) / float64(total)))
	size = minInt(maxInt(size, 1), height)
	top := int(math.Round(float64(pos) / float64(total-height) * float64(height-size)))
	top = minInt(maxInt(top, 0), height-size)

	for i := range out {
		out[i] = track
		if i >= top && i < top+size {
			out[i] = thumb
		}
	}
	return out
}

// withScrollbar pads rows to height, each to width cells, and appends the bar.
func withScrollbar(rows []string, width, height, total, pos int, styles Styles) string {
	for len(rows) < height {
		rows = append(rows, "")
	}
	rows = rows[:height]
	bar := scrollbar(height, total, pos, styles)
	cell := lipgloss.NewStyle().Width(width)
	for i := range rows {
		rows[i] = cell.Render(rows[i]) + bar[i]
	}
	return strings.Join(rows, "\n")
}
