package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// TiSimulator is one entry of `ti info` ios.simulators.ios.<version>.
type TiSimulator struct {
	UDID       string `json:"udid"`
	Name       string `json:"name"`
	Version    string `json:"version"`
	Type       string `json:"type"`
	Family     string `json:"family"`
	DeviceName string `json:"deviceName"`
	DeviceDir  string `json:"deviceDir"`
}

// TiDevice is one entry of `ti info` ios.devices.
type TiDevice struct {
	UDID           string `json:"udid"`
	Name           string `json:"name"`
	DeviceClass    string `json:"deviceClass"`
	ProductVersion string `json:"productVersion"`
	ProductType    string `json:"productType,omitempty"`
}

type ProvisioningProfile struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	AppPrefix      string `json:"appPrefix,omitempty"`
	ExpirationDate string `json:"expirationDate"`
	Expired        bool   `json:"expired"`
}

type ProvisioningProfiles struct {
	Development  []ProvisioningProfile `json:"development"`
	Adhoc        []ProvisioningProfile `json:"adhoc"`
	Distribution []ProvisioningProfile `json:"distribution"`
}

type Certificate struct {
	Name    string `json:"name"`
	Expired bool   `json:"expired"`
	Invalid bool   `json:"invalid,omitempty"`
}

// Inventory is what the toolchain knows about the host: simulators grouped by OS
// version, attached devices and signing material.
type Inventory struct {
	Simulators   map[string][]TiSimulator
	Devices      []TiDevice
	Provisioning ProvisioningProfiles
	// Keychains maps keychain path -> certificate type -> certificates.
	Keychains map[string]map[string][]Certificate
}

type tiInfoJSON struct {
	IOS struct {
		Simulators struct {
			IOS map[string][]TiSimulator `json:"ios"`
		} `json:"simulators"`
		Devices      []TiDevice           `json:"devices"`
		Provisioning ProvisioningProfiles `json:"provisioning"`
		Certs        struct {
			Keychains map[string]map[string][]Certificate `json:"keychains"`
		} `json:"certs"`
	} `json:"ios"`
}

// ParseInventory decodes `ti info -t ios -o json` output.
func ParseInventory(b []byte) (Inventory, error) {
	var parsed tiInfoJSON
	if err := json.Unmarshal(b, &parsed); err != nil {
		return Inventory{}, fmt.Errorf("parse ti info: %w", err)
	}
	inv := Inventory{
		Simulators:   parsed.IOS.Simulators.IOS,
		Devices:      parsed.IOS.Devices,
		Provisioning: parsed.IOS.Provisioning,
		Keychains:    parsed.IOS.Certs.Keychains,
	}
	if inv.Simulators == nil {
		inv.Simulators = map[string][]TiSimulator{}
	}
	return inv, nil
}

// InventoryProvider produces a fresh platform inventory.
type InventoryProvider interface {
	Inventory(ctx context.Context) (Inventory, error)
}

// TiInfoProvider asks the Titanium CLI.
type TiInfoProvider struct {
	Path string // defaults to "ti"
	Emit Emitter
}

func (p TiInfoProvider) Inventory(ctx context.Context) (Inventory, error) {
	path := p.Path
	if path == "" {
		path = "ti"
	}
	var out strings.Builder
	var errOut strings.Builder
	_, err := RunStreaming(ctx, CmdSpec{
		Path: path,
		Args: []string{"info", "-t", "ios", "-o", "json", "--no-banner"},
		StdoutLine: func(s string) {
			out.WriteString(s)
			out.WriteString("\n")
		},
		StderrLine: func(s string) {
			errOut.WriteString(s)
			errOut.WriteString("\n")
			emitMaybe(p.Emit, Log("inventory", s))
		},
	})
	if err != nil {
		if detail := strings.TrimSpace(errOut.String()); detail != "" {
			return Inventory{}, fmt.Errorf("%s info: %w: %s", path, err, detail)
		}
		return Inventory{}, fmt.Errorf("%s info: %w", path, err)
	}
	return ParseInventory([]byte(out.String()))
}

// FileInventoryProvider reads a saved `ti info` JSON document.
type FileInventoryProvider struct {
	Path string
}

func (p FileInventoryProvider) Inventory(ctx context.Context) (Inventory, error) {
	if err := ctx.Err(); err != nil {
		return Inventory{}, err
	}
	b, err := os.ReadFile(p.Path)
	if err != nil {
		return Inventory{}, fmt.Errorf("read inventory: %w", err)
	}
	return ParseInventory(b)
}

// MergedProvider adds extra device sources to a base inventory. Extra sources are
// best-effort: their failures are reported as warnings.
type MergedProvider struct {
	Base    InventoryProvider
	Devices []DeviceSource
	Emit    Emitter
}

// DeviceSource lists attached devices outside of the Titanium CLI.
type DeviceSource interface {
	Name() string
	Devices(ctx context.Context) ([]TiDevice, error)
}

func (p MergedProvider) Inventory(ctx context.Context) (Inventory, error) {
	inv, err := p.Base.Inventory(ctx)
	if err != nil {
		return inv, err
	}
	for _, src := range p.Devices {
		devs, err := src.Devices(ctx)
		if err != nil {
			emitMaybe(p.Emit, Warn("inventory", fmt.Sprintf("%s: %v", src.Name(), err)))
			continue
		}
		inv.Devices = mergeDevices(inv.Devices, devs)
	}
	return inv, nil
}

func mergeDevices(base, extra []TiDevice) []TiDevice {
	seen := make(map[string]bool, len(base))
	for _, d := range base {
		seen[d.UDID] = true
	}
	out := base
	for _, d := range extra {
		if d.UDID == "" || seen[d.UDID] {
			continue
		}
		seen[d.UDID] = true
		out = append(out, d)
	}
	return out
}
