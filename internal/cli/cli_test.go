package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilaunch/tilaunch/internal/core"
)

const testTiapp = `<?xml version="1.0" encoding="UTF-8"?>
<ti:app xmlns:ti="http://ti.appcelerator.org">
    <id>com.example.shop</id>
    <name>Shop</name>
    <guid>11111111-2222-3333-4444-555555555555</guid>
    <deployment-targets>
        <target device="iphone">true</target>
        <target device="ipad">false</target>
    </deployment-targets>
    <ios>
        <min-ios-ver>10.0</min-ios-ver>
    </ios>
</ti:app>
`

const testInventory = `{
  "ios": {
    "simulators": {
      "ios": {
        "12.4": [{"udid": "SIM-1", "name": "iPhone 8", "version": "12.4", "type": "iphone", "family": "iphone"}],
        "13.0": [{"udid": "SIM-2", "name": "iPad Air", "version": "13.0", "type": "ipad", "family": "ipad"}]
      }
    },
    "devices": [{"udid": "DEV-1", "name": "Test iPhone", "deviceClass": "iPhone", "productVersion": "13.3"}]
  }
}`

type recorder struct {
	events []core.Event
}

func (r *recorder) Emit(ev core.Event) { r.events = append(r.events, ev) }

func writeWorkspace(t *testing.T) (workspace, inventory string) {
	t.Helper()
	workspace = t.TempDir()
	dir := filepath.Join(workspace, "shop")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, core.TiappFile), []byte(testTiapp), 0o644))
	inventory = filepath.Join(t.TempDir(), "ti-info.json")
	require.NoError(t, os.WriteFile(inventory, []byte(testInventory), 0o644))
	return workspace, inventory
}

func testContext(workspace, inventory string, emit core.Emitter) AppContext {
	cfg := core.DefaultConfig()
	cfg.Workspace = workspace
	return AppContext{
		Config:  cfg,
		Emitter: emit,
		Flags:   GlobalFlags{Inventory: inventory, Workspace: workspace},
	}
}

func TestResolveProjectByNameAndPath(t *testing.T) {
	workspace, inventory := writeWorkspace(t)
	ac := testContext(workspace, inventory, &recorder{})

	p, err := ac.ResolveProject("shop")
	require.NoError(t, err)
	assert.Equal(t, "shop", p.Name)
	assert.Equal(t, filepath.Join(workspace, "shop"), p.Dir)

	p, err = ac.ResolveProject(filepath.Join(workspace, "shop"))
	require.NoError(t, err)
	assert.Equal(t, "shop", p.Name)

	_, err = ac.ResolveProject("nope")
	var ee ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.Code)
}

func TestResolveForProjectUsesInventoryFile(t *testing.T) {
	workspace, inventory := writeWorkspace(t)
	rec := &recorder{}
	ac := testContext(workspace, inventory, rec)

	p, err := ac.ResolveProject("shop")
	require.NoError(t, err)
	resolved, err := resolveForProject(context.Background(), ac, p)
	require.NoError(t, err)

	assert.Contains(t, resolved.Simulators, "SIM-1")
	assert.NotContains(t, resolved.Simulators, "SIM-2")
	assert.Contains(t, resolved.Devices, "DEV-1")
	assert.NotEmpty(t, rec.events)
}

func TestResolveForProjectReportsEmptyResolution(t *testing.T) {
	workspace, _ := writeWorkspace(t)
	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0o644))
	ac := testContext(workspace, empty, &recorder{})

	p, err := ac.ResolveProject("shop")
	require.NoError(t, err)
	_, err = resolveForProject(context.Background(), ac, p)
	var none *core.NoEligibleTargetsError
	require.True(t, errors.As(err, &none), "err = %v", err)

	var ee ExitError
	require.True(t, errors.As(exitErrorFor(err), &ee))
	assert.Equal(t, 3, ee.Code)
}

func TestPickTarget(t *testing.T) {
	resolved := core.ResolvedTargets{
		Simulators: map[string]core.Target{
			"SIM-1": {ID: "SIM-1", Simulator: true, Name: "iPhone 8", Version: core.Version{12, 4}},
			"SIM-2": {ID: "SIM-2", Simulator: true, Name: "iPhone 11", Version: core.Version{13, 0}},
		},
		Devices: map[string]core.Target{
			"DEV-1": {ID: "DEV-1", Name: "Test iPhone", Version: core.Version{13, 3}},
		},
	}

	got, err := pickTarget(resolved, core.State{}, "/p", "DEV-1")
	require.NoError(t, err)
	assert.Equal(t, "DEV-1", got.ID)

	_, err = pickTarget(resolved, core.State{}, "/p", "missing")
	var aerr *core.AssertionError
	assert.True(t, errors.As(err, &aerr))

	st := core.State{}
	st.AddRecentRun(core.RecentRun{ProjectDir: "/p", TargetID: "SIM-1", Simulator: true})
	got, err = pickTarget(resolved, st, "/p", "")
	require.NoError(t, err)
	assert.Equal(t, "SIM-1", got.ID)

	// A remembered target that is no longer eligible falls back to the default.
	st = core.State{}
	st.AddRecentRun(core.RecentRun{ProjectDir: "/p", TargetID: "GONE"})
	got, err = pickTarget(resolved, st, "/p", "")
	require.NoError(t, err)
	assert.Equal(t, "SIM-2", got.ID)

	_, err = pickTarget(core.ResolvedTargets{}, core.State{}, "/p", "")
	assert.True(t, errors.As(err, &aerr))
}

func TestExitErrorFor(t *testing.T) {
	var ee ExitError

	err := exitErrorFor(&core.InvocationError{Command: "ti", ExitCode: 65})
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 65, ee.Code)

	err = exitErrorFor(core.Assert(false, "nope"))
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.Code)

	plain := errors.New("boom")
	assert.Same(t, plain, exitErrorFor(plain))
	assert.NoError(t, exitErrorFor(nil))
}

func TestPrintDataFormats(t *testing.T) {
	data := []core.Project{{Name: "shop", Dir: "/w/shop", Label: "shop [main]", Branch: "main"}}
	for _, tc := range []struct {
		format string
		want   string
	}{
		{formatText, "shop [main]\n"},
		{formatJSON, `"label": "shop [main]"`},
		{formatYAML, "label: shop [main]"},
	} {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			cmd := &cobra.Command{Use: "projects"}
			cmd.SetOut(&buf)
			err := printData(cmd, AppContext{}, tc.format, "project_list", data, func(w io.Writer) {
				for _, p := range data {
					w.Write([]byte(p.Label + "\n"))
				}
			})
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tc.want)
		})
	}

	cmd := &cobra.Command{Use: "projects"}
	cmd.SetOut(&bytes.Buffer{})
	err := printData(cmd, AppContext{}, "xml", "project_list", data, nil)
	var ee ExitError
	require.True(t, errors.As(err, &ee))
}

func TestPrintDataJSONFlagEmitsEvent(t *testing.T) {
	rec := &recorder{}
	cmd := &cobra.Command{Use: "targets"}
	ac := AppContext{Emitter: rec, Flags: GlobalFlags{JSON: true}}
	require.NoError(t, printData(cmd, ac, formatYAML, "target_list", map[string]int{"n": 1}, nil))
	require.Len(t, rec.events, 1)
	assert.Equal(t, "target_list", rec.events[0].Type)
	assert.Equal(t, "targets", rec.events[0].Cmd)
}

func TestConsoleEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewConsoleEmitter(&buf, core.DefaultConfig().ConsoleColors)
	e.Emit(core.LogLineEvent("run", core.ClassifyLine("[WARN] slow"), "stdout"))
	e.Emit(core.Warn("run", "careful"))
	e.Emit(core.Err("run", core.ErrorObject{Code: "INVOCATION_FAILED", Message: "ti exited with code 1", Suggestion: "check the log"}))
	e.Emit(core.Result("run", false, nil))

	out := buf.String()
	assert.Contains(t, out, "[WARN] slow")
	assert.Contains(t, out, "warning: careful")
	assert.Contains(t, out, "error[INVOCATION_FAILED]: ti exited with code 1")
	assert.Contains(t, out, "hint: check the log")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestWriteTargetTable(t *testing.T) {
	resolved := core.ResolvedTargets{
		Simulators: map[string]core.Target{
			"SIM-1": {ID: "SIM-1", Simulator: true, Name: "iPhone 8", OSVersion: "12.4", Version: core.Version{12, 4}, Family: "iphone"},
		},
		Devices: map[string]core.Target{
			"DEV-1": {ID: "DEV-1", Name: "Test iPhone", OSVersion: "13.3", Version: core.Version{13, 3}, Family: "iphone"},
		},
	}
	var buf bytes.Buffer
	writeTargetTable(&buf, resolved)
	out := buf.String()

	for _, want := range []string{"KIND", "UDID", "iPhone 8", "SIM-1", "Test iPhone", "DEV-1"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "simulator"), strings.Index(out, "device"))
	assert.NotContains(t, out, "│")
	assert.Equal(t, 3, strings.Count(strings.TrimRight(out, "\n"), "\n")+1)
}

func TestNewEmitterFollowsFlags(t *testing.T) {
	cfg := core.DefaultConfig()
	assert.IsType(t, &core.NDJSONEmitter{}, newEmitter(GlobalFlags{JSON: true, NoColor: true}, cfg))
	assert.IsType(t, &core.TextEmitter{}, newEmitter(GlobalFlags{NoColor: true}, cfg))
	assert.IsType(t, &ConsoleEmitter{}, newEmitter(GlobalFlags{}, cfg))
}

func TestClassifyStream(t *testing.T) {
	rec := &recorder{}
	in := strings.NewReader("[INFO] start\r\nplain\n\n[ERROR] failed\n")
	require.NoError(t, classifyStream(in, rec))

	require.Len(t, rec.events, 4)
	want := []core.Category{core.CategoryInfo, core.CategoryNormal, core.CategoryNormal, core.CategoryError}
	for i, ev := range rec.events {
		c, ok := core.LineCategory(ev)
		require.True(t, ok)
		assert.Equal(t, want[i], c, "line %d", i)
	}
	assert.Equal(t, "[INFO] start", rec.events[0].Msg)
}

func TestRedactedSettings(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Password = "secret"
	assert.Equal(t, "********", redactedSettings(cfg)["password"])
	assert.Equal(t, "secret", cfg.Password)

	cfg.Password = ""
	assert.Equal(t, "", redactedSettings(cfg)["password"])
}
