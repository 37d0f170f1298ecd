package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Msg)
	}
	return out
}

func (r *recorder) ofType(typ string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

var simTarget = Target{ID: "SIM-1", Simulator: true, PlatformType: "iphone", OSVersion: "13.0", Name: "iPhone 11"}
var devTarget = Target{ID: "DEV-1", PlatformType: DevicePlatformType, OSVersion: "14.2", Name: "Jane's iPhone", Family: "iphone"}

func TestBuildInvocationSimulator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "trace"
	cfg.TiSDK = "9.3.2.GA"

	inv, err := BuildInvocation(cfg, "/w/shop", simTarget)
	require.NoError(t, err)
	assert.Equal(t, "ti", inv.Command)
	assert.Equal(t, []string{
		"build", "-p", "iphone", "-C", "SIM-1", "-T", "simulator", "-d", "/w/shop",
		"--log-level", "trace", "--sim-focus", "--sdk", "9.3.2.GA",
	}, inv.Args)

	cfg.SimFocus = false
	cfg.TiSDK = ""
	noType := simTarget
	noType.PlatformType = ""
	inv, err = BuildInvocation(cfg, "/w/shop", noType)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"build", "-p", "ios", "-C", "SIM-1", "-T", "simulator", "-d", "/w/shop", "--log-level", "trace",
	}, inv.Args)
}

func TestBuildInvocationDevice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Certificate = "Jane Doe (ABCDE12345)"
	cfg.ProvisioningProfile = "pp-uuid"
	cfg.Login = "jane@example.com"
	cfg.Password = "hunter2"

	inv, err := BuildInvocation(cfg, "/w/shop", devTarget)
	require.NoError(t, err)
	assert.Equal(t, "appc", inv.Command)
	assert.Equal(t, []string{
		"run", "-p", "ios", "-C", "DEV-1", "-T", "device", "-d", "/w/shop",
		"--log-level", "info", "--skip-js-minify",
		"-V", "Jane Doe (ABCDE12345)", "-P", "pp-uuid",
		"--username", "jane@example.com", "--password", "hunter2",
	}, inv.Args)

	display := inv.String()
	assert.NotContains(t, display, "hunter2")
	assert.Contains(t, display, `"Jane Doe (ABCDE12345)"`)
	assert.Equal(t, "hunter2", inv.Args[len(inv.Args)-1], "DisplayArgs must not alter Args")
}

func TestBuildInvocationDeviceNeedsSigning(t *testing.T) {
	_, err := BuildInvocation(DefaultConfig(), "/w/shop", devTarget)
	var aerr *AssertionError
	require.True(t, errors.As(err, &aerr))
	assert.Contains(t, aerr.Msg, "certificate")
}

func TestSelectTarget(t *testing.T) {
	resolved := ResolvedTargets{
		Simulators: map[string]Target{"SIM-1": simTarget},
		Devices:    map[string]Target{"DEV-1": devTarget},
	}
	got, err := SelectTarget(resolved, "DEV-1")
	require.NoError(t, err)
	assert.False(t, got.Simulator)

	var aerr *AssertionError
	_, err = SelectTarget(resolved, "missing")
	require.True(t, errors.As(err, &aerr))
	_, err = SelectTarget(ResolvedTargets{}, "SIM-1")
	require.True(t, errors.As(err, &aerr))

	def, ok := DefaultTarget(resolved)
	require.True(t, ok)
	assert.Equal(t, "SIM-1", def.ID)
	def, ok = DefaultTarget(ResolvedTargets{Devices: resolved.Devices})
	require.True(t, ok)
	assert.Equal(t, "DEV-1", def.ID)
}

func TestLauncherRunClassifiesLines(t *testing.T) {
	project := t.TempDir()
	writeTiapp(t, project, sampleTiapp)
	appPath := filepath.Join(project, "build", "iphone", "build", "Products", "Debug-iphonesimulator", "Shop.app")
	writeInfoPlist(t, appPath, map[string]any{"CFBundleIdentifier": "com.example.shop", "CFBundleShortVersionString": "2.3.0"})

	var gotSpec CmdSpec
	l := &Launcher{Spawn: func(ctx context.Context, spec CmdSpec) (CmdResult, error) {
		gotSpec = spec
		spec.StdoutLine("[INFO] Building")
		spec.StderrLine("[WARN] deprecated")
		spec.StdoutLine("plain line")
		return CmdResult{ExitCode: 0}, nil
	}}
	inv, err := BuildInvocation(DefaultConfig(), project, simTarget)
	require.NoError(t, err)

	rec := &recorder{}
	res, err := l.Run(context.Background(), inv, RunOptions{}, rec)
	require.NoError(t, err)
	assert.Equal(t, project, gotSpec.Dir)
	assert.Equal(t, "ti", gotSpec.Path)
	require.NotNil(t, res.App)
	assert.Equal(t, "com.example.shop", res.App.BundleID)

	var cats []Category
	for _, ev := range rec.ofType("log") {
		if c, ok := LineCategory(ev); ok {
			cats = append(cats, c)
		}
	}
	assert.Equal(t, []Category{CategoryInfo, CategoryWarn, CategoryNormal}, cats)
	assert.Contains(t, rec.messages(), EndOfConsole)

	results := rec.ofType("result")
	require.Len(t, results, 1)
	assert.Equal(t, "success", results[0].Data.(map[string]any)["status"])
	assert.False(t, l.Running())
}

func TestLauncherRunNonZeroExit(t *testing.T) {
	l := &Launcher{Spawn: func(ctx context.Context, spec CmdSpec) (CmdResult, error) {
		spec.StdoutLine("[ERROR] Build failed")
		return CmdResult{ExitCode: 65}, errors.New("exit status 65")
	}}
	inv, err := BuildInvocation(DefaultConfig(), t.TempDir(), simTarget)
	require.NoError(t, err)

	rec := &recorder{}
	res, err := l.Run(context.Background(), inv, RunOptions{}, rec)
	var ie *InvocationError
	require.True(t, errors.As(err, &ie), "err = %v", err)
	assert.Equal(t, 65, ie.ExitCode)
	assert.Equal(t, 65, res.ExitCode)
	assert.NotContains(t, rec.messages(), EndOfConsole)

	errs := rec.ofType("error")
	require.Len(t, errs, 1)
	assert.Equal(t, "INVOCATION_FAILED", errs[0].Err.Code)
}

func TestLauncherRunStartFailure(t *testing.T) {
	l := NewLauncher()
	inv := Invocation{Command: filepath.Join(t.TempDir(), "no-such-ti"), ProjectDir: t.TempDir(), Target: simTarget}

	_, err := l.Run(context.Background(), inv, RunOptions{}, nil)
	var ie *InvocationError
	require.True(t, errors.As(err, &ie), "err = %v", err)
	assert.NotNil(t, ie.Err)
	assert.NotZero(t, ie.ExitCode)
}

func TestLauncherRejectsSecondRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	l := &Launcher{Spawn: func(ctx context.Context, spec CmdSpec) (CmdResult, error) {
		close(started)
		<-release
		return CmdResult{}, nil
	}}
	inv := Invocation{Command: "ti", ProjectDir: t.TempDir(), Target: simTarget}

	done := make(chan error, 1)
	go func() {
		_, err := l.Run(context.Background(), inv, RunOptions{}, nil)
		done <- err
	}()
	<-started
	require.True(t, l.Running())

	_, err := l.Run(context.Background(), inv, RunOptions{}, nil)
	require.ErrorIs(t, err, ErrBuildInFlight)

	close(release)
	require.NoError(t, <-done)

	_, err = l.Run(context.Background(), inv, RunOptions{DryRun: true}, nil)
	require.NoError(t, err)
}

func TestLauncherSwapsAndRestoresGUID(t *testing.T) {
	project := t.TempDir()
	path := writeTiapp(t, project, sampleTiapp)
	newGUID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	var during string
	l := &Launcher{Spawn: func(ctx context.Context, spec CmdSpec) (CmdResult, error) {
		b, _ := os.ReadFile(path)
		during = string(b)
		return CmdResult{}, nil
	}}
	inv := Invocation{Command: "ti", ProjectDir: project, Target: simTarget}
	_, err := l.Run(context.Background(), inv, RunOptions{GUID: newGUID, GUIDRestore: time.Hour}, nil)
	require.NoError(t, err)

	assert.True(t, strings.Contains(during, newGUID), "guid was not swapped during the build")
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleTiapp, string(after), "tiapp.xml not restored at exit")
}

func TestLauncherRestoresGUIDAfterDelay(t *testing.T) {
	project := t.TempDir()
	path := writeTiapp(t, project, sampleTiapp)

	restored := make(chan struct{})
	l := &Launcher{Spawn: func(ctx context.Context, spec CmdSpec) (CmdResult, error) {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			b, _ := os.ReadFile(path)
			if string(b) == sampleTiapp {
				close(restored)
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		return CmdResult{}, nil
	}}
	inv := Invocation{Command: "ti", ProjectDir: project, Target: simTarget}
	_, err := l.Run(context.Background(), inv, RunOptions{GUID: "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", GUIDRestore: 20 * time.Millisecond}, nil)
	require.NoError(t, err)

	select {
	case <-restored:
	default:
		t.Fatalf("tiapp.xml was not restored while the build was still running")
	}
}

func TestLauncherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Launcher{Spawn: func(ctx context.Context, spec CmdSpec) (CmdResult, error) {
		cancel()
		return CmdResult{ExitCode: 130}, ctx.Err()
	}}
	inv := Invocation{Command: "ti", ProjectDir: t.TempDir(), Target: simTarget}
	rec := &recorder{}
	_, err := l.Run(ctx, inv, RunOptions{}, rec)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rec.ofType("warning"), 1)
}

func TestRunOptionsFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GUID = "g"
	cfg.GUIDRestoreSeconds = 0
	opts := RunOptionsFromConfig(cfg)
	assert.Equal(t, 10*time.Second, opts.GUIDRestore)
	assert.Equal(t, "g", opts.GUID)
}

func TestLoginInvocation(t *testing.T) {
	_, err := LoginInvocation(DefaultConfig())
	require.Error(t, err)

	cfg := DefaultConfig()
	cfg.Login = "jane@example.com"
	cfg.Password = "pw"
	inv, err := LoginInvocation(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "--username", "jane@example.com", "--password", "pw"}, inv.Args)

	var called bool
	err = Login(context.Background(), cfg, func(ctx context.Context, spec CmdSpec) (CmdResult, error) {
		called = true
		spec.StdoutLine("[INFO] Login successful")
		return CmdResult{}, nil
	}, nil)
	require.NoError(t, err)
	assert.True(t, called)
}
