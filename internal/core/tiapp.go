package core

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const TiappFile = "tiapp.xml"

// Tiapp is the subset of tiapp.xml read by tilaunch.
type Tiapp struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	GUID       string `json:"guid,omitempty" yaml:"guid,omitempty"`
	SDKVersion string `json:"sdkVersion,omitempty" yaml:"sdkVersion,omitempty"`

	Descriptor ProjectDescriptor `json:"-" yaml:"-"`
}

type tiappXML struct {
	ID         string `xml:"id"`
	Name       string `xml:"name"`
	Version    string `xml:"version"`
	GUID       string `xml:"guid"`
	SDKVersion string `xml:"sdk-version"`

	DeploymentTargets *struct {
		Targets []struct {
			Device string `xml:"device,attr"`
			Value  string `xml:",chardata"`
		} `xml:"target"`
	} `xml:"deployment-targets"`

	IOS *struct {
		MinIOSVer *string `xml:"min-ios-ver"`
	} `xml:"ios"`
}

func TiappPath(projectDir string) string {
	return filepath.Join(projectDir, TiappFile)
}

// ParseTiapp decodes a tiapp.xml document. Deployment target flags become real
// booleans here: only the literal text "true" enables a family.
func ParseTiapp(b []byte) (Tiapp, error) {
	var x tiappXML
	if err := xml.Unmarshal(b, &x); err != nil {
		return Tiapp{}, fmt.Errorf("parse %s: %w", TiappFile, err)
	}
	t := Tiapp{
		ID:         strings.TrimSpace(x.ID),
		Name:       strings.TrimSpace(x.Name),
		Version:    strings.TrimSpace(x.Version),
		GUID:       strings.TrimSpace(x.GUID),
		SDKVersion: strings.TrimSpace(x.SDKVersion),
	}
	t.Descriptor.Name = t.Name
	if x.DeploymentTargets != nil {
		t.Descriptor.Families = make(map[string]bool, len(x.DeploymentTargets.Targets))
		for _, target := range x.DeploymentTargets.Targets {
			family := strings.ToLower(strings.TrimSpace(target.Device))
			if family == "" {
				continue
			}
			t.Descriptor.Families[family] = strings.TrimSpace(target.Value) == "true"
		}
	}
	if x.IOS != nil && x.IOS.MinIOSVer != nil {
		t.Descriptor.MinOSVersion = strings.TrimSpace(*x.IOS.MinIOSVer)
		t.Descriptor.HasMinOSVersion = true
	}
	return t, nil
}

// ReadTiapp reads tiapp.xml from a project directory.
func ReadTiapp(projectDir string) (Tiapp, error) {
	b, err := os.ReadFile(TiappPath(projectDir))
	if err != nil {
		return Tiapp{}, fmt.Errorf("read project manifest: %w", err)
	}
	t, err := ParseTiapp(b)
	if err != nil {
		return Tiapp{}, err
	}
	if t.Descriptor.Name == "" {
		t.Descriptor.Name = filepath.Base(projectDir)
	}
	return t, nil
}

// ReadProjectDescriptor returns the resolution inputs of a project.
func ReadProjectDescriptor(projectDir string) (ProjectDescriptor, error) {
	t, err := ReadTiapp(projectDir)
	if err != nil {
		return ProjectDescriptor{}, err
	}
	return t.Descriptor, nil
}

var guidElementRE = regexp.MustCompile(`(?i)<guid>.{36}</guid>`)

// SwapGUID replaces every 36 character <guid> element of the manifest with guid and
// returns a function writing the original bytes back.
func SwapGUID(path, guid string) (restore func() error, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	replacement := []byte("<guid>" + guid + "</guid>")
	modified := guidElementRE.ReplaceAllLiteral(original, replacement)
	restore = func() error {
		return os.WriteFile(path, original, info.Mode().Perm())
	}
	if bytes.Equal(modified, original) {
		return restore, nil
	}
	if err := os.WriteFile(path, modified, info.Mode().Perm()); err != nil {
		return nil, err
	}
	return restore, nil
}
