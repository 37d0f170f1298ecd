package tui

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/tilaunch/tilaunch/internal/core"
	"github.com/tilaunch/tilaunch/internal/logging"
)

// workspaceChangedMsg reports one debounced burst of workspace changes.
// manifests lists the tiapp.xml files that were only rewritten in place;
// structural is set when anything was created, removed or renamed.
type workspaceChangedMsg struct {
	from       *workspaceWatcher
	structural bool
	manifests  []string
}

type watcherStartedMsg struct {
	ww  *workspaceWatcher
	err error
}

// workspaceWatcher reports project additions, removals and tiapp.xml edits under
// a workspace. It watches the workspace root and each direct sub-directory.
type workspaceWatcher struct {
	root    string
	w       *fsnotify.Watcher
	changes chan workspaceChangedMsg
	done    chan struct{}
	once    sync.Once
}

func newWorkspaceWatcher(workspace string) (*workspaceWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(workspace); err != nil {
		w.Close()
		return nil, err
	}
	entries, err := os.ReadDir(workspace)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				_ = w.Add(filepath.Join(workspace, e.Name()))
			}
		}
	}
	return &workspaceWatcher{
		root:    workspace,
		w:       w,
		changes: make(chan workspaceChangedMsg),
		done:    make(chan struct{}),
	}, nil
}

// watchWorkspaceCmd starts a watcher on workspace and reports it with
// watcherStartedMsg.
func watchWorkspaceCmd(workspace string) tea.Cmd {
	if workspace == "" {
		return nil
	}
	return func() tea.Msg {
		ww, err := newWorkspaceWatcher(workspace)
		if err != nil {
			return watcherStartedMsg{err: err}
		}
		go ww.Run(workspaceDebounce, ww.publish)
		return watcherStartedMsg{ww: ww}
	}
}

// waitForChange delivers the next burst from ww, or nil once ww is closed.
func waitForChange(ww *workspaceWatcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-ww.changes:
			return msg
		case <-ww.done:
			return nil
		}
	}
}

func (ww *workspaceWatcher) publish(msg workspaceChangedMsg) {
	select {
	case ww.changes <- msg:
	case <-ww.done:
	}
}

// relevant reports whether ev can change the project list or a manifest.
func relevant(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) == core.TiappFile {
		return true
	}
	return ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// Run calls notify once per burst of relevant events, after quiet has passed
// without another one. It returns when Close is called.
func (ww *workspaceWatcher) Run(quiet time.Duration, notify func(workspaceChangedMsg)) {
	var timer *time.Timer
	var fire <-chan time.Time
	structural := false
	manifests := map[string]bool{}
	for {
		select {
		case <-ww.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-ww.w.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				structural = true
			} else {
				manifests[ev.Name] = true
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = ww.w.Add(ev.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(quiet)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(quiet)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			msg := workspaceChangedMsg{from: ww, structural: structural}
			for name := range manifests {
				msg.manifests = append(msg.manifests, name)
			}
			sort.Strings(msg.manifests)
			structural = false
			manifests = map[string]bool{}
			notify(msg)
		case err, ok := <-ww.w.Errors:
			if !ok {
				return
			}
			logging.LogWarn("workspace_watch", err.Error())
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (ww *workspaceWatcher) Close() error {
	var err error
	ww.once.Do(func() {
		close(ww.done)
		err = ww.w.Close()
	})
	return err
}
