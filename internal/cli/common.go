package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tilaunch/tilaunch/internal/core"
	"github.com/tilaunch/tilaunch/internal/util"
)

type GlobalFlags struct {
	JSON      bool
	Config    string
	Workspace string
	Inventory string
	Verbose   bool
	NoColor   bool
}

type AppContext struct {
	ConfigPath string
	Config     core.Config
	Emitter    core.Emitter
	Flags      GlobalFlags
}

func NewAppContext(flags GlobalFlags) (AppContext, error) {
	cfg, err := core.LoadConfig(flags.Config)
	if err != nil {
		return AppContext{}, err
	}
	if flags.Workspace != "" {
		abs, err := filepath.Abs(flags.Workspace)
		if err != nil {
			return AppContext{}, err
		}
		cfg.Workspace = abs
	}
	emit := newEmitter(flags, cfg)
	cfgPath := flags.Config
	if cfgPath == "" {
		cfgPath, err = core.ConfigPath()
		if err != nil {
			return AppContext{}, err
		}
	}
	return AppContext{
		ConfigPath: cfgPath,
		Config:     cfg,
		Emitter:    emit,
		Flags:      flags,
	}, nil
}

func newEmitter(flags GlobalFlags, cfg core.Config) core.Emitter {
	switch {
	case flags.JSON:
		return core.NewNDJSONEmitter(os.Stdout, core.EventSchemaVersion)
	case flags.NoColor:
		return core.NewTextEmitter(os.Stdout)
	default:
		return NewConsoleEmitter(os.Stdout, cfg.ConsoleColors)
	}
}

// InventoryProvider picks the saved inventory file when --inventory is set, `ti info`
// otherwise, plus usbmux devices when enabled.
func (ac AppContext) InventoryProvider() core.InventoryProvider {
	var base core.InventoryProvider = core.TiInfoProvider{Emit: ac.Emitter}
	if ac.Flags.Inventory != "" {
		base = core.FileInventoryProvider{Path: ac.Flags.Inventory}
	}
	if !ac.Config.UsbmuxDevices {
		return base
	}
	return core.MergedProvider{
		Base:    base,
		Devices: []core.DeviceSource{core.UsbmuxDevices{}},
		Emit:    ac.Emitter,
	}
}

// ResolveProject maps a project name or path to its directory. Without an argument
// the project enclosing the working directory is used.
func (ac AppContext) ResolveProject(arg string) (core.Project, error) {
	if arg == "" {
		wd, err := os.Getwd()
		if err != nil {
			return core.Project{}, err
		}
		root, ok, err := util.FindProjectRoot(wd, core.TiappFile)
		if err != nil {
			return core.Project{}, err
		}
		if !ok {
			return core.Project{}, ExitError{Code: 2, Err: errors.New("not inside a Titanium project; pass a project name or directory")}
		}
		return projectAt(root), nil
	}
	if util.IsFile(core.TiappPath(arg)) {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return core.Project{}, err
		}
		return projectAt(abs), nil
	}
	if ac.Config.Workspace != "" {
		dir := filepath.Join(ac.Config.Workspace, arg)
		if util.IsFile(core.TiappPath(dir)) {
			return projectAt(dir), nil
		}
	}
	return core.Project{}, ExitError{Code: 2, Err: fmt.Errorf("no project %q in workspace %s", arg, ac.Config.Workspace)}
}

func projectAt(dir string) core.Project {
	name := filepath.Base(dir)
	branch := core.GitBranch(dir)
	return core.Project{Name: name, Dir: dir, Branch: branch, Label: core.ProjectLabel(name, branch)}
}

// resolveForProject reads the project manifest and the inventory, then resolves.
func resolveForProject(ctx context.Context, ac AppContext, project core.Project) (core.ResolvedTargets, error) {
	desc, err := core.ReadProjectDescriptor(project.Dir)
	if err != nil {
		return core.ResolvedTargets{}, err
	}
	ac.Emitter.Emit(core.Status("targets", "Querying the Titanium toolchain…", nil))
	inv, err := ac.InventoryProvider().Inventory(ctx)
	if err != nil {
		return core.ResolvedTargets{}, err
	}
	resolved, err := core.ResolveTargets(desc, inv, ac.Config.DefaultMinIOSVersion)
	if err != nil {
		return resolved, err
	}
	return resolved, resolved.Require(project.Name)
}

func PrintFatal(err error) {
	var ee ExitError
	if errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, ee.Error())
		os.Exit(ee.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "command failed"
}

func (e ExitError) Unwrap() error { return e.Err }

// exitErrorFor keeps the build's own exit code for invocation failures.
func exitErrorFor(err error) error {
	var ie *core.InvocationError
	if errors.As(err, &ie) && ie.ExitCode > 0 {
		return ExitError{Code: ie.ExitCode, Err: err}
	}
	var aerr *core.AssertionError
	var missing *core.MissingDataError
	if errors.As(err, &aerr) || errors.As(err, &missing) {
		return ExitError{Code: 2, Err: err}
	}
	var empty *core.NoEligibleTargetsError
	if errors.As(err, &empty) {
		return ExitError{Code: 3, Err: err}
	}
	return err
}
