package tui

import (
	"testing"
	"time"
)

func TestStatusBarFallbacks(t *testing.T) {
	out := NewStatusBar().View(120, DefaultStyles())
	if !containsPlain(out, "No project") || !containsPlain(out, "No target") {
		t.Fatalf("expected fallback text: %q", out)
	}
}

func TestStatusBarShowsCounts(t *testing.T) {
	sb := NewStatusBar()
	sb.ProjectName = "shop"
	sb.TargetName = "iPhone 8"
	sb.TargetOS = "12.4"
	sb.ErrorCount = 2
	out := sb.View(120, DefaultStyles())
	for _, want := range []string{"shop", "iPhone 8 (iOS 12.4)", "2"} {
		if !containsPlain(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}

	if narrow := sb.View(80, DefaultStyles()); containsPlain(narrow, "(iOS 12.4)") {
		t.Fatalf("narrow bar should drop the OS version: %q", narrow)
	}
}

func TestToastHidesAfterDuration(t *testing.T) {
	tm := newToast()
	tm.Show("Saved", "success", 10*time.Millisecond)
	if !tm.Active() {
		t.Fatalf("toast should be active")
	}
	now := time.Now().Add(time.Second)
	for i := 0; i < 600 && tm.Active(); i++ {
		tm.Update(now)
	}
	if tm.Active() {
		t.Fatalf("toast never hid")
	}
}
