package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/tilaunch/tilaunch/internal/core"
	"github.com/tilaunch/tilaunch/internal/util"
)

type wizardDoneMsg struct {
	cfg     core.Config
	aborted bool
	err     error
}

// ConfigValues holds the editable settings while the config form runs.
type ConfigValues struct {
	Workspace string
	MinVer    string
	LogLevel  string
	Login     string
	Password  string
	GUID      string
	Restore   string
	Picker    string
}

func configValuesOf(cfg core.Config) *ConfigValues {
	return &ConfigValues{
		Workspace: cfg.Workspace,
		MinVer:    cfg.DefaultMinIOSVersion,
		LogLevel:  cfg.LogLevel,
		Login:     cfg.Login,
		Password:  cfg.Password,
		GUID:      cfg.GUID,
		Restore:   strconv.Itoa(cfg.GUIDRestoreSeconds),
		Picker:    cfg.Picker,
	}
}

// Apply writes v onto a copy of cfg through Config.Set. cfg is returned unchanged
// on error.
func (v ConfigValues) Apply(cfg core.Config) (core.Config, error) {
	out := cfg
	for _, kv := range [][2]string{
		{"workspace", v.Workspace},
		{"default_min_ios_version", v.MinVer},
		{"log_level", v.LogLevel},
		{"login", v.Login},
		{"password", v.Password},
		{"guid", v.GUID},
		{"guid_restore_seconds", v.Restore},
		{"picker", v.Picker},
	} {
		if err := out.Set(kv[0], kv[1]); err != nil {
			return cfg, err
		}
	}
	return out, nil
}

// NewConfigForm builds the settings form for cfg. Inputs are validated through
// Config.Set so the form rejects what `config set` would.
func NewConfigForm(cfg core.Config) (*huh.Form, *ConfigValues) {
	v := configValuesOf(cfg)

	check := func(key string) func(string) error {
		return func(s string) error {
			trial := cfg
			return trial.Set(key, s)
		}
	}

	levelOpts := make([]huh.Option[string], 0, len(core.LogLevels))
	for _, l := range core.LogLevels {
		levelOpts = append(levelOpts, huh.NewOption(l, l))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Workspace").
				Description("Directory holding your Titanium projects").
				Value(&v.Workspace).
				Validate(func(s string) error {
					if !util.IsDir(s) {
						return fmt.Errorf("not a directory: %s", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Default minimum iOS version").
				Value(&v.MinVer).
				Validate(check("default_min_ios_version")),
			huh.NewSelect[string]().
				Title("Build log level").
				Options(levelOpts...).
				Value(&v.LogLevel),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Appcelerator login").
				Description("Used for device builds and `tilaunch login`; leave empty to skip").
				Value(&v.Login),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.Password),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Launch guid").
				Description("Written into tiapp.xml while a build starts").
				Value(&v.GUID).
				Validate(check("guid")),
			huh.NewInput().
				Title("Restore tiapp.xml after (seconds)").
				Value(&v.Restore).
				Validate(check("guid_restore_seconds")),
			huh.NewSelect[string]().
				Title("Picker").
				Options(
					huh.NewOption("Fuzzy list", "fuzzy"),
					huh.NewOption("Form", "form"),
				).
				Value(&v.Picker),
		),
	)
	return form, v
}

// RunConfigWizard runs the settings form standalone, outside the TUI.
func RunConfigWizard(cfg core.Config) (core.Config, error) {
	form, v := NewConfigForm(cfg)
	if err := form.Run(); err != nil {
		return cfg, err
	}
	return v.Apply(cfg)
}

// wizardModel embeds the settings form in the TUI.
type wizardModel struct {
	cfg    core.Config
	values *ConfigValues
	form   *huh.Form
}

func newWizard(cfg core.Config, width int) wizardModel {
	form, v := NewConfigForm(cfg)
	form = form.WithShowHelp(true)
	if width > 0 {
		form = form.WithWidth(width - 6)
	}
	return wizardModel{cfg: cfg, values: v, form: form}
}

func (w wizardModel) Init() tea.Cmd {
	return w.form.Init()
}

func (w wizardModel) Update(msg tea.Msg) (wizardModel, tea.Cmd) {
	if w.form.State != huh.StateNormal {
		return w, nil
	}
	m, cmd := w.form.Update(msg)
	if fm, ok := m.(*huh.Form); ok {
		w.form = fm
	}

	switch w.form.State {
	case huh.StateCompleted:
		cfg, err := w.values.Apply(w.cfg)
		return w, tea.Batch(cmd, func() tea.Msg { return wizardDoneMsg{cfg: cfg, err: err} })
	case huh.StateAborted:
		return w, tea.Batch(cmd, func() tea.Msg { return wizardDoneMsg{aborted: true} })
	default:
		return w, cmd
	}
}

func (w wizardModel) View() string {
	return w.form.View()
}
