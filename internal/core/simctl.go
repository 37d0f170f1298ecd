package core

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
)

type SimDevice struct {
	State       string `json:"state"`
	IsAvailable bool   `json:"isAvailable"`
	Name        string `json:"name"`
	UDID        string `json:"udid"`
	// Runtime is filled from the map key of `simctl list`.
	Runtime string `json:"-"`
}

type simctlListJSON struct {
	Devices map[string][]SimDevice `json:"devices"`
}

// ParseBootedSimulators reads `simctl list devices --json` output and returns the
// booted devices, sorted by name.
func ParseBootedSimulators(data []byte) ([]SimDevice, error) {
	var parsed simctlListJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	var out []SimDevice
	for runtime, devs := range parsed.Devices {
		for _, d := range devs {
			if d.State != "Booted" {
				continue
			}
			d.Runtime = runtime
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// BootedSimulators asks simctl for the running simulators.
func BootedSimulators(ctx context.Context) ([]SimDevice, error) {
	var out strings.Builder
	_, err := RunStreaming(ctx, CmdSpec{
		Path: "xcrun",
		Args: []string{"simctl", "list", "devices", "booted", "--json"},
		StdoutLine: func(s string) {
			out.WriteString(s)
			out.WriteString("\n")
		},
	})
	if err != nil {
		return nil, err
	}
	return ParseBootedSimulators([]byte(out.String()))
}

// SimLogStreamSpec streams the unified log of simulator udid, each line classified
// and emitted under cmd.
func SimLogStreamSpec(udid, predicate, cmd string, emit Emitter) CmdSpec {
	args := []string{"simctl", "spawn", udid, "log", "stream", "--style", "compact"}
	if predicate != "" {
		args = append(args, "--predicate", predicate)
	}
	return CmdSpec{
		Path:       "xcrun",
		Args:       args,
		StdoutLine: func(s string) { emitMaybe(emit, LogLineEvent(cmd, ClassifyLine(s), "stdout")) },
		StderrLine: func(s string) { emitMaybe(emit, LogLineEvent(cmd, ClassifyLine(s), "stderr")) },
	}
}
