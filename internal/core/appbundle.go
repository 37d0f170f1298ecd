package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

type AppBundleInfo struct {
	Path         string `json:"path" yaml:"path"`
	BundleID     string `json:"bundleId" yaml:"bundleId"`
	DisplayName  string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	BundleName   string `json:"bundleName,omitempty" yaml:"bundleName,omitempty"`
	Executable   string `json:"executable,omitempty" yaml:"executable,omitempty"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
	BuildVersion string `json:"buildVersion,omitempty" yaml:"buildVersion,omitempty"`
	MinOSVersion string `json:"minimumOSVersion,omitempty" yaml:"minimumOSVersion,omitempty"`
	Families     []int  `json:"deviceFamilies,omitempty" yaml:"deviceFamilies,omitempty"`
}

func ReadAppBundleInfo(appPath string) (AppBundleInfo, error) {
	infoPlist := filepath.Join(appPath, "Info.plist")
	b, err := os.ReadFile(infoPlist)
	if err != nil {
		return AppBundleInfo{}, fmt.Errorf("read Info.plist: %w", err)
	}
	var m map[string]any
	_, err = plist.Unmarshal(b, &m)
	if err != nil {
		return AppBundleInfo{}, fmt.Errorf("parse Info.plist: %w", err)
	}
	get := func(key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	var families []int
	if raw, ok := m["UIDeviceFamily"].([]any); ok {
		for _, v := range raw {
			switch n := v.(type) {
			case uint64:
				families = append(families, int(n))
			case int64:
				families = append(families, int(n))
			}
		}
	}
	return AppBundleInfo{
		Path:         appPath,
		BundleID:     get("CFBundleIdentifier"),
		DisplayName:  get("CFBundleDisplayName"),
		BundleName:   get("CFBundleName"),
		Executable:   get("CFBundleExecutable"),
		Version:      get("CFBundleShortVersionString"),
		BuildVersion: get("CFBundleVersion"),
		MinOSVersion: get("MinimumOSVersion"),
		Families:     families,
	}, nil
}

// FindBuiltApp returns the most recent .app produced by a Titanium iOS build of
// projectDir for the simulator or device SDK. ok is false when there is none.
func FindBuiltApp(projectDir string, simulator bool) (string, bool) {
	suffix := "-iphoneos"
	if simulator {
		suffix = "-iphonesimulator"
	}
	matches, err := filepath.Glob(filepath.Join(projectDir, "build", "iphone", "build", "Products", "*", "*.app"))
	if err != nil {
		return "", false
	}
	var best string
	var bestMod int64
	for _, m := range matches {
		if !strings.HasSuffix(filepath.Base(filepath.Dir(m)), suffix) {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		if mod := info.ModTime().UnixNano(); best == "" || mod > bestMod {
			best, bestMod = m, mod
		}
	}
	return best, best != ""
}
