package tui

import (
	"testing"

	"github.com/tilaunch/tilaunch/internal/core"
)

func TestConfigValuesApply(t *testing.T) {
	cfg := core.DefaultConfig()
	v := configValuesOf(cfg)
	v.LogLevel = "trace"
	v.Restore = "30"
	v.Picker = "form"

	out, err := v.Apply(cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.LogLevel != "trace" || out.GUIDRestoreSeconds != 30 || out.Picker != "form" {
		t.Fatalf("applied = %+v", out)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("input config modified")
	}
}

func TestConfigValuesApplyRejectsInvalid(t *testing.T) {
	cfg := core.DefaultConfig()
	v := configValuesOf(cfg)
	v.GUID = "not-a-uuid"
	out, err := v.Apply(cfg)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if out.GUID != cfg.GUID {
		t.Fatalf("config changed on error")
	}
}

func TestNewWizardStartsInForm(t *testing.T) {
	w := newWizard(core.DefaultConfig(), 100)
	if w.form == nil || w.values == nil {
		t.Fatalf("wizard not initialised")
	}
	if w.values.MinVer != "12.0" {
		t.Fatalf("min version = %q", w.values.MinVer)
	}
}
