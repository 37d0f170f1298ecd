package core

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/tilaunch/tilaunch/internal/util"
)

const StateVersion = 1

// RecentRun tracks a recently used project+target combination
type RecentRun struct {
	Project    string `json:"project"`
	ProjectDir string `json:"projectDir"`
	TargetID   string `json:"targetId"`
	TargetName string `json:"targetName"` // Display name (e.g., "iPhone 15 Pro")
	Simulator  bool   `json:"simulator"`
	UsedAt     string `json:"usedAt"`
}

// State persists user choices across sessions
type State struct {
	Version int         `json:"version"`
	Recent  []RecentRun `json:"recent,omitempty"`
}

const MaxRecentRuns = 5

func defaultState() State { return State{Version: StateVersion, Recent: []RecentRun{}} }

// UserStatePath is state.json in the per-user tilaunch directory.
func UserStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tilaunch", "state.json"), nil
}

func LoadState() (State, error) {
	path, err := UserStatePath()
	if err != nil {
		return defaultState(), err
	}
	return LoadStateFile(path)
}

func LoadStateFile(path string) (State, error) {
	st := defaultState()
	if err := util.ReadJSONFile(path, &st); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	if st.Version == 0 {
		st.Version = StateVersion
	}
	return st, nil
}

func SaveState(st State) error {
	path, err := UserStatePath()
	if err != nil {
		return err
	}
	return SaveStateFile(path, st)
}

func SaveStateFile(path string, st State) error {
	st.Version = StateVersion
	return util.WriteJSONFile(path, st, 0o644)
}

// AddRecentRun puts run at the front, dropping an older entry for the same pair.
func (st *State) AddRecentRun(run RecentRun) {
	if run.UsedAt == "" {
		run.UsedAt = NowTS()
	}
	filtered := make([]RecentRun, 0, len(st.Recent)+1)
	filtered = append(filtered, run)
	for _, r := range st.Recent {
		if r.ProjectDir == run.ProjectDir && r.TargetID == run.TargetID {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) > MaxRecentRuns {
		filtered = filtered[:MaxRecentRuns]
	}
	st.Recent = filtered
}

// LastTarget returns the most recent target used with projectDir.
func (st *State) LastTarget(projectDir string) (RecentRun, bool) {
	for _, r := range st.Recent {
		if r.ProjectDir == projectDir {
			return r, true
		}
	}
	return RecentRun{}, false
}
