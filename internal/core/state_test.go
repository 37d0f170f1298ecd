package core

import (
	"path/filepath"
	"testing"
)

func TestAddRecentRunDedupesAndCaps(t *testing.T) {
	var st State
	for i, id := range []string{"A", "B", "C", "D", "E", "F"} {
		st.AddRecentRun(RecentRun{ProjectDir: "/w/app", TargetID: id, UsedAt: string(rune('0' + i))})
	}
	if len(st.Recent) != MaxRecentRuns {
		t.Fatalf("len = %d, want %d", len(st.Recent), MaxRecentRuns)
	}
	if st.Recent[0].TargetID != "F" {
		t.Fatalf("front = %q, want F", st.Recent[0].TargetID)
	}

	st.AddRecentRun(RecentRun{ProjectDir: "/w/app", TargetID: "C"})
	if st.Recent[0].TargetID != "C" {
		t.Fatalf("front = %q, want C", st.Recent[0].TargetID)
	}
	seen := 0
	for _, r := range st.Recent {
		if r.TargetID == "C" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("C appears %d times", seen)
	}
}

func TestLastTarget(t *testing.T) {
	var st State
	st.AddRecentRun(RecentRun{ProjectDir: "/w/one", TargetID: "A"})
	st.AddRecentRun(RecentRun{ProjectDir: "/w/two", TargetID: "B"})
	st.AddRecentRun(RecentRun{ProjectDir: "/w/one", TargetID: "C"})

	r, ok := st.LastTarget("/w/one")
	if !ok || r.TargetID != "C" {
		t.Fatalf("LastTarget = %+v, %v", r, ok)
	}
	if _, ok := st.LastTarget("/w/none"); ok {
		t.Fatalf("unexpected hit")
	}
}

func TestStateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilaunch", "state.json")
	st, err := LoadStateFile(path)
	if err != nil {
		t.Fatalf("LoadStateFile missing: %v", err)
	}
	st.AddRecentRun(RecentRun{Project: "app", ProjectDir: "/w/app", TargetID: "A", Simulator: true})
	if err := SaveStateFile(path, st); err != nil {
		t.Fatalf("SaveStateFile: %v", err)
	}
	got, err := LoadStateFile(path)
	if err != nil {
		t.Fatalf("LoadStateFile: %v", err)
	}
	if got.Version != StateVersion || len(got.Recent) != 1 || !got.Recent[0].Simulator {
		t.Fatalf("unexpected state %+v", got)
	}
}
