package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tilaunch/tilaunch/internal/util"
)

type DoctorCheck struct {
	Name   string `json:"name" yaml:"name"`
	OK     bool   `json:"ok" yaml:"ok"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Hint   string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

type DoctorReport struct {
	Checks []DoctorCheck `json:"checks" yaml:"checks"`
}

func (r DoctorReport) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Doctor checks the tools and files a launch depends on.
func Doctor(ctx context.Context, cfg Config, configPath string, emit Emitter) DoctorReport {
	rep := DoctorReport{Checks: []DoctorCheck{}}

	check := func(name string, fn func() (string, error), hint string) {
		emitMaybe(emit, Status("doctor", name, nil))
		out, err := fn()
		if err != nil {
			rep.Checks = append(rep.Checks, DoctorCheck{Name: name, OK: false, Detail: err.Error(), Hint: hint})
			emitMaybe(emit, Warn("doctor", fmt.Sprintf("%s: %v", name, err)))
			return
		}
		rep.Checks = append(rep.Checks, DoctorCheck{Name: name, OK: true, Detail: out})
	}

	toolVersion := func(tool string, args ...string) func() (string, error) {
		return func() (string, error) {
			if _, err := exec.LookPath(tool); err != nil {
				return "", err
			}
			var b strings.Builder
			_, err := RunStreaming(ctx, CmdSpec{
				Path:       tool,
				Args:       args,
				StdoutLine: func(s string) { b.WriteString(s + "\n") },
			})
			return strings.TrimSpace(b.String()), err
		}
	}

	check("ti available", toolVersion("ti", "--version", "--no-banner"), "Install the Titanium CLI: npm install -g titanium.")
	check("appc available", toolVersion("appc", "--version"), "Install the Appcelerator CLI to run on devices.")
	check("git available", toolVersion("git", "--version"), "Install git to show project branches.")

	check("workspace", func() (string, error) {
		if cfg.Workspace == "" {
			return "", fmt.Errorf("workspace is not set")
		}
		if !util.IsDir(cfg.Workspace) {
			return "", fmt.Errorf("workspace does not exist: %s", cfg.Workspace)
		}
		names, err := util.ListDirsContaining(cfg.Workspace, TiappFile)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (%d projects)", cfg.Workspace, len(names)), nil
	}, "Run `tilaunch config set workspace <dir>`.")

	check("config file", func() (string, error) {
		if _, err := os.Stat(configPath); err != nil {
			return "", err
		}
		return configPath, nil
	}, "Run `tilaunch config init` to create the config file.")

	return rep
}
