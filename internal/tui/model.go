package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tilaunch/tilaunch/internal/core"
	"github.com/tilaunch/tilaunch/internal/logging"
)

type eventMsg core.Event

type projectsLoadedMsg struct {
	projects []core.Project
	err      error
}

type targetsResolvedMsg struct {
	dir       string
	inventory core.Inventory
	resolved  core.ResolvedTargets
	err       error
}

type opDoneMsg struct {
	op     string
	result core.RunResult
	err    error
}

type statusMsg string

type frameMsg time.Time

// Model is the interactive launcher: pick a project and a target, then run.
type Model struct {
	cfg        core.Config
	configPath string
	provider   core.InventoryProvider
	state      core.State
	launcher   *core.Launcher

	// Persistence hooks, replaced in tests.
	saveConfig func(core.Config) error
	saveState  func(core.State) error

	keys   keyMap
	styles Styles
	help   help.Model

	width  int
	height int
	mode   Mode

	projects  []core.Project
	project   *core.Project
	inventory core.Inventory
	resolved  core.ResolvedTargets
	target    *core.Target
	resolving bool
	loadErr   string

	selector SelectorModel
	picker   formPicker
	wizard   wizardModel

	statusBar StatusBar
	spinner   spinner.Model
	logs      LogPanel
	toast     toastModel
	statusMsg string

	watcher *workspaceWatcher
	runDir  string
	runEnd  time.Time

	running  bool
	runStart time.Time
	cancelFn context.CancelFunc
	eventCh  <-chan core.Event
	doneCh   <-chan opDoneMsg
	stopCh   chan struct{}
}

func NewModel(opts Options) Model {
	st, err := core.LoadState()
	if err != nil {
		logging.LogWarn("state", err.Error())
	}
	configPath := opts.ConfigPath
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := Model{
		cfg:        opts.Config,
		configPath: configPath,
		provider:   opts.Inventory,
		state:      st,
		launcher:   core.NewLauncher(),
		saveConfig: func(cfg core.Config) error { return core.SaveConfig(configPath, cfg) },
		saveState:  core.SaveState,
		keys:       defaultKeyMap(),
		styles:     DefaultStyles().WithConsoleColors(opts.Config.ConsoleColors),
		help:       help.New(),
		statusBar:  NewStatusBar(),
		spinner:    sp,
		logs:       NewLogPanel(),
		toast:      newToast(),
		statusMsg:  "Loading projects…",
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadProjectsCmd(m.cfg.Workspace), watchWorkspaceCmd(m.cfg.Workspace), m.spinner.Tick)
}

func loadProjectsCmd(workspace string) tea.Cmd {
	return func() tea.Msg {
		if workspace == "" {
			return projectsLoadedMsg{err: errors.New("no workspace configured")}
		}
		projects, err := core.ListProjects(workspace, core.GitBranch)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func resolveTargetsCmd(provider core.InventoryProvider, project core.Project, defaultMin string) tea.Cmd {
	return func() tea.Msg {
		out := targetsResolvedMsg{dir: project.Dir}
		desc, err := core.ReadProjectDescriptor(project.Dir)
		if err != nil {
			out.err = err
			return out
		}
		inv, err := provider.Inventory(context.Background())
		if err != nil {
			out.err = err
			return out
		}
		out.inventory = inv
		out.resolved, out.err = core.ResolveTargets(desc, inv, defaultMin)
		if out.err == nil {
			out.err = out.resolved.Require(project.Name)
		}
		return out
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
}

// notify shows a toast and keeps the animation running.
func (m *Model) notify(msg, level string) tea.Cmd {
	wasActive := m.toast.Active()
	m.toast.Show(msg, level, toastDuration)
	if wasActive {
		return nil
	}
	return frameCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLogSize()
		if m.mode == ModeWizard {
			m.wizard = newWizard(m.cfg, m.width)
			cmds = append(cmds, m.wizard.Init())
		}

	case projectsLoadedMsg:
		cmds = append(cmds, m.handleProjects(msg))

	case targetsResolvedMsg:
		cmds = append(cmds, m.handleTargets(msg))

	case watcherStartedMsg:
		cmds = append(cmds, m.handleWatcherStarted(msg))

	case workspaceChangedMsg:
		if msg.from == nil || msg.from != m.watcher {
			break
		}
		cmds = append(cmds, waitForChange(m.watcher))
		if m.ownManifestWrite(msg) {
			logging.LogDebug("workspace_watch", "ignored guid swap in "+m.runDir)
			break
		}
		logging.LogDebug("workspace_watch", "workspace changed")
		cmds = append(cmds, loadProjectsCmd(m.cfg.Workspace))

	case tea.KeyMsg:
		if cmd := m.handleKeyPress(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case wizardDoneMsg:
		m.mode = ModeNormal
		switch {
		case msg.aborted:
			m.setStatus("Settings unchanged")
		case msg.err != nil:
			cmds = append(cmds, m.notify(msg.err.Error(), "error"))
		default:
			workspaceChanged := msg.cfg.Workspace != m.cfg.Workspace
			m.cfg = msg.cfg
			m.styles = m.styles.WithConsoleColors(m.cfg.ConsoleColors)
			if err := m.saveConfig(m.cfg); err != nil {
				cmds = append(cmds, m.notify("Save failed: "+err.Error(), "error"))
				break
			}
			cmds = append(cmds, m.notify("Saved settings", "success"))
			if workspaceChanged {
				m.closeWatcher()
				cmds = append(cmds, loadProjectsCmd(m.cfg.Workspace), watchWorkspaceCmd(m.cfg.Workspace))
			} else if m.project != nil {
				cmds = append(cmds, m.resolve())
			}
		}

	case eventMsg:
		m.handleEvent(core.Event(msg))
		if m.eventCh != nil {
			cmds = append(cmds, waitForEvent(m.eventCh, m.doneCh, m.stopCh))
		}

	case opDoneMsg:
		cmds = append(cmds, m.handleOpDone(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.statusBar.Spinner = m.spinner
		cmds = append(cmds, cmd)

	case frameMsg:
		m.toast.Update(time.Time(msg))
		if m.toast.Active() {
			cmds = append(cmds, frameCmd())
		}

	case statusMsg:
		m.setStatus(string(msg))
	}

	// Forward everything else to the active overlay.
	switch m.mode {
	case ModeSelector:
		var cmd tea.Cmd
		m.selector, cmd, _ = m.selector.Update(msg)
		cmds = append(cmds, cmd)
	case ModeWizard:
		var cmd tea.Cmd
		m.wizard, cmd = m.wizard.Update(msg)
		cmds = append(cmds, cmd)
	case ModeForm:
		var cmd tea.Cmd
		var res *SelectorResult
		m.picker, cmd, res = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		if res != nil {
			cmds = append(cmds, m.handleSelectorResult(*res))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleProjects(msg projectsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.projects = nil
		m.project = nil
		m.loadErr = msg.err.Error()
		m.setStatus("Press c to choose a workspace")
		return nil
	}
	m.loadErr = ""
	m.projects = msg.projects
	if len(m.projects) == 0 {
		m.project = nil
		m.loadErr = "no Titanium projects in " + m.cfg.Workspace
		m.setStatus("Workspace has no projects")
		return nil
	}

	// Keep the current project when it survived the reload.
	if m.project != nil {
		if p, ok := core.FindProject(m.projects, m.project.Dir); ok {
			m.project = &p
			return m.resolve()
		}
	}
	p := m.initialProject()
	m.project = &p
	return m.resolve()
}

// initialProject prefers the project of the most recent run.
func (m Model) initialProject() core.Project {
	for _, r := range m.state.Recent {
		for _, p := range m.projects {
			if p.Dir == r.ProjectDir {
				return p
			}
		}
	}
	return m.projects[0]
}

func (m *Model) resolve() tea.Cmd {
	if m.project == nil || m.provider == nil {
		return nil
	}
	m.resolving = true
	m.setStatus("Querying the Titanium toolchain…")
	return resolveTargetsCmd(m.provider, *m.project, m.cfg.DefaultMinIOSVersion)
}

func (m *Model) handleTargets(msg targetsResolvedMsg) tea.Cmd {
	if m.project == nil || msg.dir != m.project.Dir {
		// Stale answer for a project that is no longer selected.
		return nil
	}
	m.resolving = false
	m.inventory = msg.inventory
	m.resolved = msg.resolved

	var none *core.NoEligibleTargetsError
	if msg.err != nil {
		m.target = nil
		if errors.As(msg.err, &none) {
			m.setStatus(msg.err.Error())
			return m.notify("No eligible targets", "warning")
		}
		m.setStatus("Target resolution failed")
		return m.notify(msg.err.Error(), "error")
	}

	if m.target != nil {
		if t, ok := m.resolved.Lookup(m.target.ID); ok {
			m.target = &t
			m.setStatus("Ready")
			return nil
		}
	}
	m.target = nil
	if last, ok := m.state.LastTarget(m.project.Dir); ok {
		if t, ok := m.resolved.Lookup(last.TargetID); ok {
			m.target = &t
		}
	}
	if m.target == nil {
		if t, ok := core.DefaultTarget(m.resolved); ok {
			m.target = &t
		}
	}
	m.setStatus("Ready")
	return nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeSelector:
		var cmd tea.Cmd
		var res *SelectorResult
		m.selector, cmd, res = m.selector.Update(msg)
		if res != nil {
			return tea.Batch(cmd, m.handleSelectorResult(*res))
		}
		return cmd

	case ModeForm:
		var cmd tea.Cmd
		var res *SelectorResult
		m.picker, cmd, res = m.picker.Update(msg)
		if res != nil {
			return tea.Batch(cmd, m.handleSelectorResult(*res))
		}
		return cmd

	case ModeWizard:
		var cmd tea.Cmd
		m.wizard, cmd = m.wizard.Update(msg)
		return cmd

	case ModeHelp:
		if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
			return m.quit()
		}
		m.mode = ModeNormal
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
	case key.Matches(msg, m.keys.Cancel):
		if m.running {
			return m.stop()
		}
	case key.Matches(msg, m.keys.Run):
		return m.startRun()
	case key.Matches(msg, m.keys.Stop):
		return m.stop()
	case key.Matches(msg, m.keys.Login):
		return m.startLogin()
	case key.Matches(msg, m.keys.Project):
		return m.openSelector(SelectorProject)
	case key.Matches(msg, m.keys.Target):
		return m.openSelector(SelectorTarget)
	case key.Matches(msg, m.keys.Signing):
		return m.openSelector(SelectorProfile)
	case key.Matches(msg, m.keys.Config):
		if m.running {
			return m.notify("Settings are locked while a build runs", "warning")
		}
		m.mode = ModeWizard
		m.wizard = newWizard(m.cfg, m.width)
		return m.wizard.Init()
	case key.Matches(msg, m.keys.Refresh):
		return loadProjectsCmd(m.cfg.Workspace)
	case key.Matches(msg, m.keys.ScrollUp):
		m.logs.ScrollUp(1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.logs.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.logs.ScrollUp(maxInt(1, m.logs.VisibleRows-1))
	case key.Matches(msg, m.keys.PageDown):
		m.logs.ScrollDown(maxInt(1, m.logs.VisibleRows-1))
	case key.Matches(msg, m.keys.ScrollTop):
		m.logs.GotoTop()
	case key.Matches(msg, m.keys.ScrollBottom):
		m.logs.GotoBottom()
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.ToggleFollow()
		if m.logs.AutoFollow {
			m.setStatus("Following output")
		} else {
			m.setStatus("Follow paused")
		}
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	if m.cancelFn != nil {
		m.cancelFn()
	}
	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}
	m.closeWatcher()
	return tea.Quit
}

func (m *Model) closeWatcher() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
}

func (m *Model) handleWatcherStarted(msg watcherStartedMsg) tea.Cmd {
	if msg.err != nil {
		logging.LogWarn("workspace_watch", msg.err.Error())
		return nil
	}
	if msg.ww.root != m.cfg.Workspace {
		msg.ww.Close()
		return nil
	}
	m.closeWatcher()
	m.watcher = msg.ww
	return waitForChange(m.watcher)
}

// ownManifestWrite reports whether msg only covers the launcher rewriting the
// guid of the project being run, during the run or just after it.
func (m Model) ownManifestWrite(msg workspaceChangedMsg) bool {
	if msg.structural || len(msg.manifests) == 0 || m.runDir == "" {
		return false
	}
	if !m.running && time.Since(m.runEnd) > 2*workspaceDebounce {
		return false
	}
	own := filepath.Clean(core.TiappPath(m.runDir))
	for _, name := range msg.manifests {
		if filepath.Clean(name) != own {
			return false
		}
	}
	return true
}

// selectorItems returns the items and current selection for kind.
func (m Model) selectorItems(kind SelectorType) ([]SelectorItem, string) {
	switch kind {
	case SelectorProject:
		cur := ""
		if m.project != nil {
			cur = m.project.Dir
		}
		return ProjectItems(m.projects), cur
	case SelectorTarget:
		cur := ""
		if m.target != nil {
			cur = m.target.ID
		}
		return TargetItems(m.resolved), cur
	case SelectorProfile:
		return SigningItems(core.ListSigning(m.inventory, m.cfg).Profiles)
	case SelectorCertificate:
		return SigningItems(core.ListSigning(m.inventory, m.cfg).Certificates)
	}
	return nil, ""
}

func (m *Model) openSelector(kind SelectorType) tea.Cmd {
	items, cur := m.selectorItems(kind)
	if len(items) == 0 {
		var what string
		switch kind {
		case SelectorProject:
			what = "No projects in the workspace"
		case SelectorTarget:
			what = "No eligible targets"
		case SelectorProfile:
			what = "No provisioning profiles"
		default:
			what = "No certificates"
		}
		return m.notify(what, "warning")
	}
	if m.cfg.Picker == "form" {
		m.mode = ModeForm
		m.picker = newFormPicker(kind, items, cur, m.width)
		return m.picker.Init()
	}
	m.mode = ModeSelector
	m.selector = NewSelector(kind, items, cur, m.width, m.styles)
	return m.selector.Init()
}

func (m *Model) handleSelectorResult(res SelectorResult) tea.Cmd {
	m.mode = ModeNormal
	if res.Aborted || res.Selected == nil {
		return nil
	}
	id := res.Selected.ID

	switch res.Kind {
	case SelectorProject:
		p, ok := core.FindProject(m.projects, id)
		if !ok {
			return nil
		}
		if m.project != nil && m.project.Dir == p.Dir {
			return nil
		}
		m.project = &p
		m.target = nil
		m.resolved = core.ResolvedTargets{}
		return m.resolve()

	case SelectorTarget:
		if t, ok := m.resolved.Lookup(id); ok {
			m.target = &t
			m.setStatus("Target: " + t.Name)
		}
		return nil

	case SelectorProfile:
		if err := m.cfg.Set("provisioning_profile", id); err != nil {
			return m.notify(err.Error(), "error")
		}
		// Chain straight into the certificate choice.
		return m.openSelector(SelectorCertificate)

	case SelectorCertificate:
		if err := m.cfg.Set("certificate", id); err != nil {
			return m.notify(err.Error(), "error")
		}
		if err := m.saveConfig(m.cfg); err != nil {
			return m.notify("Save failed: "+err.Error(), "error")
		}
		return m.notify("Saved signing identity", "success")
	}
	return nil
}

// startOp runs fn in the background, streaming its events into the console.
func (m *Model) startOp(name string, fn func(ctx context.Context, emit core.Emitter) (core.RunResult, error)) tea.Cmd {
	m.running = true
	m.runStart = time.Now()
	m.logs.Append(core.LogLine{Text: strings.Repeat("─", 41)})
	m.logs.Append(core.LogLine{Text: fmt.Sprintf("%s  %s", time.Now().Format("15:04:05"), strings.ToUpper(name)), Category: core.CategoryInfo})

	events := make(chan core.Event, 256)
	done := make(chan opDoneMsg, 1)
	stop := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFn = cancel
	m.eventCh = events
	m.doneCh = done
	m.stopCh = stop

	emitter := &chanEmitter{ch: events, stop: stop}
	go func() {
		res, err := fn(ctx, emitter)
		close(events)
		done <- opDoneMsg{op: name, result: res, err: err}
		close(done)
	}()
	return tea.Batch(waitForEvent(events, done, stop), m.spinner.Tick)
}

func (m *Model) startRun() tea.Cmd {
	if m.running {
		return m.notify(core.ErrBuildInFlight.Error(), "warning")
	}
	if m.project == nil {
		return m.notify("Select a project first", "warning")
	}
	if m.target == nil {
		return m.notify("No eligible target to run on", "warning")
	}
	inv, err := core.BuildInvocation(m.cfg, m.project.Dir, *m.target)
	if err != nil {
		return m.notify(err.Error(), "error")
	}
	opts := core.RunOptionsFromConfig(m.cfg)
	launcher := m.launcher
	m.runDir = m.project.Dir
	m.statusBar.Stage = m.target.Name
	return m.startOp("run", func(ctx context.Context, emit core.Emitter) (core.RunResult, error) {
		return launcher.Run(ctx, inv, opts, emit)
	})
}

func (m *Model) startLogin() tea.Cmd {
	if m.running {
		return m.notify(core.ErrBuildInFlight.Error(), "warning")
	}
	cfg := m.cfg
	spawn := m.launcher.Spawn
	m.runDir = ""
	m.statusBar.Stage = "login"
	return m.startOp("login", func(ctx context.Context, emit core.Emitter) (core.RunResult, error) {
		return core.RunResult{}, core.Login(ctx, cfg, spawn, emit)
	})
}

func (m *Model) stop() tea.Cmd {
	if !m.running || m.cancelFn == nil {
		return nil
	}
	m.cancelFn()
	m.setStatus("Stopping…")
	return nil
}

func (m *Model) handleEvent(ev core.Event) {
	if cat, ok := core.LineCategory(ev); ok {
		m.logs.Append(core.LogLine{Text: ev.Msg, Category: cat})
		return
	}
	switch ev.Type {
	case "status":
		m.setStatus(ev.Msg)
		m.logs.Append(core.LogLine{Text: ev.Msg, Category: core.CategoryInfo})
	case "log":
		m.logs.Append(core.LogLine{Text: ev.Msg})
	case "warning":
		m.logs.Append(core.LogLine{Text: "warning: " + ev.Msg, Category: core.CategoryWarn})
	case "error":
		if ev.Err == nil {
			break
		}
		m.logs.Append(core.LogLine{Text: fmt.Sprintf("error[%s]: %s", ev.Err.Code, ev.Err.Message), Category: core.CategoryError})
		if ev.Err.Suggestion != "" {
			m.logs.Append(core.LogLine{Text: "  hint: " + ev.Err.Suggestion})
		}
	}
}

func (m *Model) handleOpDone(msg opDoneMsg) tea.Cmd {
	m.running = false
	m.runEnd = time.Now()
	m.cancelFn = nil
	m.eventCh = nil
	m.doneCh = nil
	m.stopCh = nil
	m.statusBar.Stage = ""

	elapsed := time.Since(m.runStart).Round(100 * time.Millisecond)
	m.statusBar.HasLastResult = true
	m.statusBar.LastResultSuccess = msg.err == nil
	m.statusBar.LastResultTime = elapsed.String()

	cancelled := errors.Is(msg.err, context.Canceled)
	if msg.op == "run" && !cancelled && !errors.Is(msg.err, core.ErrBuildInFlight) && m.project != nil && m.target != nil {
		m.state.AddRecentRun(core.RecentRun{
			Project:    m.project.Name,
			ProjectDir: m.project.Dir,
			TargetID:   m.target.ID,
			TargetName: m.target.Name,
			Simulator:  m.target.Simulator,
			UsedAt:     time.Now().UTC().Format(time.RFC3339),
		})
		if err := m.saveState(m.state); err != nil {
			logging.LogWarn("state", err.Error())
		}
	}

	switch {
	case cancelled:
		m.setStatus("Stopped")
		return m.notify(strings.ToUpper(msg.op)+" stopped", "warning")
	case msg.err != nil:
		m.setStatus(msg.err.Error())
		return m.notify(strings.ToUpper(msg.op)+" failed", "error")
	default:
		m.setStatus(strings.ToUpper(msg.op) + " finished")
		return m.notify(strings.ToUpper(msg.op)+" finished in "+elapsed.String(), "success")
	}
}

// chanEmitter forwards events to the UI. Emit waits for room in the buffer so no
// line is lost; it only gives up once the UI has stopped listening.
type chanEmitter struct {
	ch   chan<- core.Event
	stop <-chan struct{}
}

func (e *chanEmitter) Emit(ev core.Event) {
	select {
	case <-e.stop:
		return
	default:
	}
	select {
	case e.ch <- ev:
	case <-e.stop:
	}
}

// waitForEvent delivers the next event. Once ch is closed and drained it delivers
// the op's result from done, so opDoneMsg always follows the last event.
func waitForEvent(ch <-chan core.Event, done <-chan opDoneMsg, stop <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-ch:
			if ok {
				return eventMsg(ev)
			}
		case <-stop:
			return nil
		}
		select {
		case msg, ok := <-done:
			if !ok {
				return nil
			}
			return msg
		case <-stop:
			return nil
		}
	}
}

// =============================================================================
// Views
// =============================================================================

func (m *Model) updateLogSize() {
	// status bar + border, hints + border, toast row
	rows := m.height - 5
	m.logs.SetSize(maxInt(0, m.width-2), maxInt(1, rows))
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	switch m.mode {
	case ModeHelp:
		return m.helpOverlayView()
	case ModeWizard:
		return m.wizardView()
	case ModeSelector:
		return RenderCenteredPopup(m.selector.View(), m.width, m.height)
	case ModeForm:
		return RenderCenteredPopup(m.picker.View(m.styles), m.width, m.height)
	}
	return m.mainView()
}

func (m *Model) syncStatusBar() {
	sb := &m.statusBar
	sb.ProjectName, sb.GitBranch = "", ""
	if m.project != nil {
		sb.ProjectName = m.project.Name
		sb.GitBranch = m.project.Branch
	}
	sb.TargetName, sb.TargetOS, sb.Simulator = "", "", false
	if m.target != nil {
		sb.TargetName = m.target.Name
		sb.TargetOS = m.target.OSVersion
		sb.Simulator = m.target.Simulator
	}
	sb.Running = m.running
	if !m.running {
		sb.ErrorCount, sb.WarningCount = m.logs.Counts()
	}
}

func (m Model) mainView() string {
	m.syncStatusBar()
	top := m.styles.StatusBar.Container.Width(m.width).Render(m.statusBar.View(m.width-2, m.styles))

	var content string
	if len(m.logs.Lines) == 0 {
		content = m.emptyStateView()
	} else {
		content = lipgloss.NewStyle().Padding(0, 1).Height(m.logs.VisibleRows).Render(m.logs.View(m.styles))
	}

	status := lipgloss.NewStyle().Foreground(m.styles.Colors.TextMuted).Padding(0, 1).Render(m.statusMsg)
	if t := m.toast.View(m.styles); t != "" {
		status = t
	}
	hints := m.styles.HintsBar.Container.Width(m.width).Render(m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, top, content, status, hints)
}

func (m Model) emptyStateView() string {
	s := m.styles
	icon := lipgloss.NewStyle().Foreground(s.Colors.TextSubtle).MarginBottom(1)
	msg := lipgloss.NewStyle().Foreground(s.Colors.TextMuted).MarginBottom(1)
	hint := lipgloss.NewStyle().Foreground(s.Colors.TextSubtle)

	var lines []string
	switch {
	case m.loadErr != "":
		lines = append(lines, icon.Render(s.Icons.Warning), msg.Render(m.loadErr), hint.Render("c settings  ^r refresh"))
	case m.resolving || m.projects == nil:
		lines = append(lines, icon.Render(m.spinner.View()), msg.Render(m.statusMsg))
	case m.target == nil:
		lines = append(lines, icon.Render(s.Icons.Warning), msg.Render("No eligible targets"), hint.Render("p project  ^r refresh"))
	default:
		lines = append(lines, icon.Render(s.Icons.Idle), msg.Render("Ready to launch"), hint.Render("r run  t target  s signing"))
	}
	return lipgloss.Place(m.width, m.logs.VisibleRows, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m Model) helpOverlayView() string {
	h := m.help
	h.ShowAll = true
	width := minInt(maxInt(m.width*55/100, 50), m.width-2)
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Popup.Title.Render("Keys"),
		"",
		h.View(m.keys),
		"",
		m.styles.Popup.Meta.Render("press any key to close"),
	)
	return RenderCenteredPopup(m.styles.Popup.Container.Width(width).Render(body), m.width, m.height)
}

func (m Model) wizardView() string {
	m.syncStatusBar()
	top := m.styles.StatusBar.Container.Width(m.width).Render(m.statusBar.View(m.width-2, m.styles))
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		m.styles.Popup.Container.Width(m.width-4).Render(m.wizard.View()),
	)
}
