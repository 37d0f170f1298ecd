package core

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tilaunch/tilaunch/internal/logging"
)

// EndOfConsole is printed after a build exits with code 0.
const EndOfConsole = "**** end of console ****"

const redacted = "********"

// Invocation is a ready-to-spawn build command for one project and one target.
type Invocation struct {
	Command    string   `json:"command" yaml:"command"`
	Args       []string `json:"-" yaml:"-"`
	ProjectDir string   `json:"projectDir" yaml:"projectDir"`
	Target     Target   `json:"target" yaml:"target"`
}

// DisplayArgs is Args with the password masked.
func (inv Invocation) DisplayArgs() []string {
	out := make([]string, len(inv.Args))
	copy(out, inv.Args)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == "--password" && out[i+1] != "" {
			out[i+1] = redacted
		}
	}
	return out
}

func (inv Invocation) String() string {
	return formatCmd(inv.Command, inv.DisplayArgs())
}

// SelectTarget maps an id picked by the user back to its resolved target.
func SelectTarget(resolved ResolvedTargets, id string) (Target, error) {
	if err := Assert(!resolved.Empty(), "no simulator or device can run this project"); err != nil {
		return Target{}, err
	}
	t, ok := resolved.Lookup(id)
	if err := Assert(ok, "no simulator or device matches the selection %q", id); err != nil {
		return Target{}, err
	}
	return t, nil
}

// DefaultTarget is the first simulator, or the first device when there is no simulator.
func DefaultTarget(resolved ResolvedTargets) (Target, bool) {
	if sims := resolved.SortedSimulators(); len(sims) > 0 {
		return sims[0], true
	}
	if devs := resolved.SortedDevices(); len(devs) > 0 {
		return devs[0], true
	}
	return Target{}, false
}

// BuildInvocation builds `appc run` for a device and `ti build` for a simulator.
func BuildInvocation(cfg Config, projectDir string, target Target) (Invocation, error) {
	logLevel := cfg.LogLevel
	if logLevel == "" {
		logLevel = DefaultConfig().LogLevel
	}
	inv := Invocation{ProjectDir: projectDir, Target: target}

	if !target.Simulator {
		if err := Assert(cfg.Certificate != "", "no certificate configured (config key certificate)"); err != nil {
			return Invocation{}, err
		}
		if err := Assert(cfg.ProvisioningProfile != "", "no provisioning profile configured (config key provisioning_profile)"); err != nil {
			return Invocation{}, err
		}
		inv.Command = "appc"
		inv.Args = []string{
			"run",
			"-p", DevicePlatformType,
			"-C", target.ID,
			"-T", "device",
			"-d", projectDir,
			"--log-level", logLevel,
		}
		if cfg.SkipJSMinify {
			inv.Args = append(inv.Args, "--skip-js-minify")
		}
		inv.Args = append(inv.Args,
			"-V", cfg.Certificate,
			"-P", cfg.ProvisioningProfile,
		)
		if cfg.Login != "" {
			inv.Args = append(inv.Args, "--username", cfg.Login, "--password", cfg.Password)
		}
		return inv, nil
	}

	platform := target.PlatformType
	if platform == "" {
		platform = DevicePlatformType
	}
	inv.Command = "ti"
	inv.Args = []string{
		"build",
		"-p", platform,
		"-C", target.ID,
		"-T", "simulator",
		"-d", projectDir,
		"--log-level", logLevel,
	}
	if cfg.SimFocus {
		inv.Args = append(inv.Args, "--sim-focus")
	}
	if cfg.TiSDK != "" {
		inv.Args = append(inv.Args, "--sdk", cfg.TiSDK)
	}
	return inv, nil
}

type RunOptions struct {
	// GUID replaces the tiapp.xml guid for the duration of the launch when set.
	GUID        string
	GUIDRestore time.Duration
	DryRun      bool
}

// RunOptionsFromConfig reads the launch settings of cfg.
func RunOptionsFromConfig(cfg Config) RunOptions {
	secs := cfg.GUIDRestoreSeconds
	if secs <= 0 {
		secs = DefaultConfig().GUIDRestoreSeconds
	}
	return RunOptions{GUID: cfg.GUID, GUIDRestore: time.Duration(secs) * time.Second}
}

type RunResult struct {
	Command    string         `json:"command"`
	ExitCode   int            `json:"exitCode"`
	DurationMs int64          `json:"durationMs"`
	Target     Target         `json:"target"`
	App        *AppBundleInfo `json:"app,omitempty"`
}

// Launcher runs one build at a time.
type Launcher struct {
	mu      sync.Mutex
	running bool

	// Spawn defaults to RunStreaming.
	Spawn func(ctx context.Context, spec CmdSpec) (CmdResult, error)
}

func NewLauncher() *Launcher {
	return &Launcher{Spawn: RunStreaming}
}

func (l *Launcher) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Launcher) acquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return false
	}
	l.running = true
	return true
}

func (l *Launcher) release() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
}

// Run spawns inv and streams its classified output to emit. It returns
// ErrBuildInFlight while another Run is active, and an *InvocationError when the
// command cannot start or exits non-zero.
func (l *Launcher) Run(ctx context.Context, inv Invocation, opts RunOptions, emit Emitter) (RunResult, error) {
	if !l.acquire() {
		emitMaybe(emit, Err("run", ErrorObject{
			Code:    "BUILD_IN_FLIGHT",
			Message: ErrBuildInFlight.Error(),
		}))
		return RunResult{}, ErrBuildInFlight
	}
	defer l.release()

	out := RunResult{Command: inv.Command, Target: inv.Target}
	emitMaybe(emit, Status("run", fmt.Sprintf("Launching %s on %s", filepath.Base(inv.ProjectDir), targetLabel(inv.Target)), map[string]any{
		"command": inv.String(),
		"target":  inv.Target,
	}))
	if opts.DryRun {
		emitMaybe(emit, Log("run", "Dry run: "+inv.String()))
		emitMaybe(emit, Result("run", true, out))
		return out, nil
	}

	if opts.GUID != "" {
		restore, err := SwapGUID(TiappPath(inv.ProjectDir), opts.GUID)
		if err != nil {
			emitMaybe(emit, Warn("run", fmt.Sprintf("Could not set guid in %s: %v", TiappFile, err)))
		} else {
			var once sync.Once
			doRestore := func() {
				once.Do(func() {
					if err := restore(); err != nil {
						logging.LogError("guid_restore", err.Error())
						emitMaybe(emit, Warn("run", fmt.Sprintf("Could not restore %s: %v", TiappFile, err)))
						return
					}
					logging.LogDebug("guid_restore", "Restored "+TiappPath(inv.ProjectDir))
				})
			}
			timer := time.AfterFunc(opts.GUIDRestore, doRestore)
			defer func() {
				timer.Stop()
				doRestore()
			}()
		}
	}

	spawn := l.Spawn
	if spawn == nil {
		spawn = RunStreaming
	}
	logging.LogInfo("run", inv.String())
	res, err := spawn(ctx, CmdSpec{
		Path: inv.Command,
		Args: inv.Args,
		Dir:  inv.ProjectDir,
		StdoutLine: func(s string) {
			emitMaybe(emit, LogLineEvent("run", ClassifyLine(s), "stdout"))
		},
		StderrLine: func(s string) {
			emitMaybe(emit, LogLineEvent("run", ClassifyLine(s), "stderr"))
		},
	})
	out.ExitCode = res.ExitCode
	out.DurationMs = res.Duration.Milliseconds()

	if err != nil && ctx.Err() != nil {
		emitMaybe(emit, Warn("run", "Build cancelled"))
		emitMaybe(emit, Result("run", false, out))
		return out, ctx.Err()
	}
	if err != nil || res.ExitCode != 0 {
		ie := &InvocationError{Command: inv.Command, ExitCode: res.ExitCode}
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			ie.Err = err
			if ie.ExitCode == 0 {
				ie.ExitCode = 1
				out.ExitCode = 1
			}
		}
		emitMaybe(emit, Err("run", ErrorObject{
			Code:       "INVOCATION_FAILED",
			Message:    ie.Error(),
			Detail:     inv.String(),
			Suggestion: invocationHint(inv),
		}))
		emitMaybe(emit, Result("run", false, out))
		return out, ie
	}

	emitMaybe(emit, Log("run", EndOfConsole))
	if appPath, ok := FindBuiltApp(inv.ProjectDir, inv.Target.Simulator); ok {
		if info, err := ReadAppBundleInfo(appPath); err == nil {
			out.App = &info
			emitMaybe(emit, Status("run", fmt.Sprintf("Built %s %s (%s)", info.BundleID, info.Version, info.BuildVersion), info))
		} else {
			logging.LogWarn("app_info", err.Error())
		}
	}
	emitMaybe(emit, Result("run", true, out))
	return out, nil
}

func invocationHint(inv Invocation) string {
	if inv.Target.Simulator {
		return "Check the Titanium SDK with `ti sdk list` and the log above."
	}
	return "Check the certificate, provisioning profile and `tilaunch login`."
}

func targetLabel(t Target) string {
	kind := "device"
	if t.Simulator {
		kind = "simulator"
	}
	if t.OSVersion != "" {
		return fmt.Sprintf("%s (%s %s)", t.Name, kind, t.OSVersion)
	}
	return fmt.Sprintf("%s (%s)", t.Name, kind)
}

func formatCmd(cmd string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, cmd)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			parts = append(parts, fmt.Sprintf("%q", a))
			continue
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
