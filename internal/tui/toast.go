package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
)

const toastDuration = 3 * time.Second

// toastModel slides a short notice in from the left and out again.
type toastModel struct {
	msg     string
	level   string
	visible bool
	until   time.Time

	x float64
	v float64

	spring harmonica.Spring
}

func newToast() toastModel {
	return toastModel{
		spring: harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.65),
	}
}

// Show displays msg for d. level is a StatusStyle name.
func (t *toastModel) Show(msg, level string, d time.Duration) {
	t.msg = msg
	t.level = level
	t.visible = true
	t.until = time.Now().Add(d)
	t.x = 0
	t.v = 0
}

// Active reports whether the toast still needs animation frames.
func (t toastModel) Active() bool {
	return t.msg != ""
}

func (t *toastModel) Update(now time.Time) {
	if t.msg == "" {
		return
	}
	if t.visible && now.After(t.until) {
		t.visible = false
	}
	target := 0.0
	if t.visible {
		target = 1.0
	}
	t.x, t.v = t.spring.Update(t.x, t.v, target)
	if !t.visible && t.x < 0.02 {
		t.msg = ""
	}
}

func (t toastModel) View(styles Styles) string {
	if t.msg == "" {
		return ""
	}
	offset := int((1.0 - t.x) * 18.0)
	if offset < 0 {
		offset = 0
	}
	box := styles.Toast.Container
	if t.level != "" {
		box = box.BorderForeground(styles.StatusStyle(t.level).GetForeground())
	}
	return strings.Repeat(" ", offset) + box.Render(t.msg)
}
