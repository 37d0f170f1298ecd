package tui

import "time"

const (
	// maxConsoleLines caps the in-memory build console.
	maxConsoleLines = 20000
	// workspaceDebounce coalesces bursts of workspace file events.
	workspaceDebounce = 400 * time.Millisecond
	// frameInterval drives the toast animation.
	frameInterval = time.Second / 60
)
