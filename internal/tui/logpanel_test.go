package tui

import (
	"fmt"
	"testing"

	"github.com/tilaunch/tilaunch/internal/core"
)

func TestLogPanelCapsLines(t *testing.T) {
	v := NewLogPanel()
	v.Limit = 3
	v.SetSize(40, 2)
	for i := 0; i < 5; i++ {
		v.Append(core.LogLine{Text: fmt.Sprintf("line %d", i)})
	}
	if len(v.Lines) != 3 || v.Lines[0].Text != "line 2" {
		t.Fatalf("lines = %v", v.Lines)
	}
	if v.ScrollPos != 1 {
		t.Fatalf("scroll = %d, want follow to the end", v.ScrollPos)
	}
}

func TestLogPanelScrollDisablesFollow(t *testing.T) {
	v := NewLogPanel()
	v.SetSize(40, 2)
	for i := 0; i < 10; i++ {
		v.Append(core.LogLine{Text: "x"})
	}
	v.ScrollUp(3)
	if v.AutoFollow {
		t.Fatalf("scrolling up must stop following")
	}
	v.Append(core.LogLine{Text: "y"})
	if v.ScrollPos != 5 {
		t.Fatalf("scroll = %d, want 5", v.ScrollPos)
	}
	v.ScrollDown(100)
	if !v.AutoFollow {
		t.Fatalf("reaching the end must resume following")
	}
	v.ToggleFollow()
	if v.AutoFollow {
		t.Fatalf("toggle should pause")
	}
	v.ToggleFollow()
	if !v.AutoFollow || v.ScrollPos != v.maxScroll() {
		t.Fatalf("toggle should resume at the end")
	}
}

func TestLogPanelCountsAndView(t *testing.T) {
	v := NewLogPanel()
	v.SetSize(60, 5)
	for _, l := range core.ClassifyChunk("[ERROR] one\n[WARN] two\n[WARN] three\nplain") {
		v.Append(l)
	}
	errs, warns := v.Counts()
	if errs != 1 || warns != 2 {
		t.Fatalf("counts = %d/%d", errs, warns)
	}
	out := v.View(DefaultStyles())
	for _, want := range []string{"[ERROR] one", "plain"} {
		if !containsPlain(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("ab", 4); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
}
