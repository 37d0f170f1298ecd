package core

import (
	"sort"
	"strings"
)

// ProjectDescriptor is the part of tiapp.xml that decides which targets can run a project.
type ProjectDescriptor struct {
	Name string

	// MinOSVersion is <ios><min-ios-ver> as written, possibly not a number.
	MinOSVersion    string
	HasMinOSVersion bool

	// Families maps a lower-cased device family to whether it is a deployment target.
	// nil means <deployment-targets> is absent.
	Families map[string]bool
}

// Target is a simulator or a physical device able to run a project.
type Target struct {
	ID            string  `json:"udid" yaml:"udid"`
	Simulator     bool    `json:"simulator" yaml:"simulator"`
	PlatformType  string  `json:"type" yaml:"type"`
	OSVersion     string  `json:"version" yaml:"version"`
	Version       Version `json:"-" yaml:"-"`
	Family        string  `json:"family" yaml:"family"`
	Name          string  `json:"name" yaml:"name"`
	DeviceName    string  `json:"deviceName,omitempty" yaml:"deviceName,omitempty"`
	HostDirectory string  `json:"deviceDir,omitempty" yaml:"deviceDir,omitempty"`
}

// ResolvedTargets holds the eligible simulators and devices, each keyed by udid.
type ResolvedTargets struct {
	Simulators map[string]Target `json:"simulators" yaml:"simulators"`
	Devices    map[string]Target `json:"devices" yaml:"devices"`
}

func (r ResolvedTargets) Empty() bool {
	return len(r.Simulators) == 0 && len(r.Devices) == 0
}

// Require returns a *NoEligibleTargetsError naming project when r is empty.
func (r ResolvedTargets) Require(project string) error {
	if r.Empty() {
		return &NoEligibleTargetsError{Project: project}
	}
	return nil
}

// Lookup maps a selected id back to its target; devices win on a collision.
func (r ResolvedTargets) Lookup(id string) (Target, bool) {
	if t, ok := r.Devices[id]; ok {
		return t, true
	}
	t, ok := r.Simulators[id]
	return t, ok
}

// SortedDevices and SortedSimulators order targets newest OS first, then by name.
func (r ResolvedTargets) SortedDevices() []Target { return sortTargets(r.Devices) }

func (r ResolvedTargets) SortedSimulators() []Target { return sortTargets(r.Simulators) }

func sortTargets(m map[string]Target) []Target {
	out := make([]Target, 0, len(m))
	for _, t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Version.Compare(out[j].Version); c != 0 {
			return c > 0
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// EffectiveMinVersion picks the declared minimum when it parses, the configured default
// otherwise. ok is false when neither parses, meaning no threshold applies.
func EffectiveMinVersion(declared, fallback string) (Version, bool) {
	if v, ok := ParseVersion(declared); ok {
		return v, true
	}
	return ParseVersion(fallback)
}

// ResolveTargets computes the simulators and devices eligible for desc.
func ResolveTargets(desc ProjectDescriptor, inv Inventory, defaultMin string) (ResolvedTargets, error) {
	if desc.Families == nil {
		return ResolvedTargets{}, &MissingDataError{Project: desc.Name, Field: "deployment-targets"}
	}
	if !desc.HasMinOSVersion {
		return ResolvedTargets{}, &MissingDataError{Project: desc.Name, Field: "ios/min-ios-ver"}
	}

	minVer, hasMin := EffectiveMinVersion(desc.MinOSVersion, defaultMin)
	// A version that does not parse cannot be shown to be below the minimum,
	// so it is kept.
	eligible := func(v Version, ok bool) bool {
		if !hasMin || !ok {
			return true
		}
		return !v.Less(minVer)
	}

	out := ResolvedTargets{
		Simulators: map[string]Target{},
		Devices:    map[string]Target{},
	}

	for groupVersion, sims := range inv.Simulators {
		gv, ok := ParseVersion(groupVersion)
		if !eligible(gv, ok) {
			continue
		}
		for _, sim := range sims {
			family := strings.ToLower(sim.Family)
			if !desc.Families[family] {
				continue
			}
			v, ok := ParseVersion(sim.Version)
			if !ok {
				v = gv
			}
			out.Simulators[sim.UDID] = Target{
				ID:            sim.UDID,
				Simulator:     true,
				PlatformType:  sim.Type,
				OSVersion:     sim.Version,
				Version:       v,
				Family:        family,
				Name:          sim.Name,
				DeviceName:    sim.DeviceName,
				HostDirectory: sim.DeviceDir,
			}
		}
	}

	// iPod touch devices run iPhone builds.
	families := make(map[string]bool, len(desc.Families)+1)
	for k, v := range desc.Families {
		families[k] = v
	}
	families["ipod"] = desc.Families["iphone"]

	for _, dev := range inv.Devices {
		family := strings.ToLower(dev.DeviceClass)
		if !families[family] {
			continue
		}
		v, ok := ParseVersion(dev.ProductVersion)
		if !eligible(v, ok) {
			continue
		}
		out.Devices[dev.UDID] = Target{
			ID:           dev.UDID,
			PlatformType: DevicePlatformType,
			OSVersion:    dev.ProductVersion,
			Version:      v,
			Family:       family,
			Name:         dev.Name,
			DeviceName:   dev.Name,
		}
	}

	return out, nil
}

// DevicePlatformType is the -p value used for every physical device.
const DevicePlatformType = "ios"
