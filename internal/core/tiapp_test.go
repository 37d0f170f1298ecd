package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTiapp = `<?xml version="1.0" encoding="UTF-8"?>
<ti:app xmlns:ti="http://ti.appcelerator.org">
    <id>com.example.shop</id>
    <name>Shop</name>
    <version>2.3.0</version>
    <guid>11111111-2222-3333-4444-555555555555</guid>
    <sdk-version>9.3.2.GA</sdk-version>
    <deployment-targets>
        <target device="iphone">true</target>
        <target device="ipad">false</target>
        <target device="android">TRUE</target>
        <target device="mobileweb"> true </target>
    </deployment-targets>
    <ios>
        <min-ios-ver>10.0</min-ios-ver>
    </ios>
</ti:app>
`

func writeTiapp(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, TiappFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write tiapp: %v", err)
	}
	return path
}

func TestParseTiapp(t *testing.T) {
	ta, err := ParseTiapp([]byte(sampleTiapp))
	if err != nil {
		t.Fatalf("ParseTiapp: %v", err)
	}
	if ta.ID != "com.example.shop" || ta.Name != "Shop" || ta.SDKVersion != "9.3.2.GA" {
		t.Fatalf("unexpected app fields %+v", ta)
	}
	d := ta.Descriptor
	if !d.HasMinOSVersion || d.MinOSVersion != "10.0" {
		t.Fatalf("min version = %q (%v)", d.MinOSVersion, d.HasMinOSVersion)
	}
	want := map[string]bool{"iphone": true, "ipad": false, "android": false, "mobileweb": true}
	for k, v := range want {
		if got, ok := d.Families[k]; !ok || got != v {
			t.Fatalf("Families[%s] = %v (present %v), want %v", k, got, ok, v)
		}
	}
}

func TestParseTiappMissingStructures(t *testing.T) {
	ta, err := ParseTiapp([]byte(`<ti:app xmlns:ti="http://ti.appcelerator.org"><name>Bare</name></ti:app>`))
	if err != nil {
		t.Fatalf("ParseTiapp: %v", err)
	}
	if ta.Descriptor.Families != nil {
		t.Fatalf("families should be nil without deployment-targets")
	}
	if ta.Descriptor.HasMinOSVersion {
		t.Fatalf("min version should be absent")
	}

	ta, err = ParseTiapp([]byte(`<ti:app><ios><min-ios-ver>abc</min-ios-ver></ios><deployment-targets/></ti:app>`))
	if err != nil {
		t.Fatalf("ParseTiapp: %v", err)
	}
	if !ta.Descriptor.HasMinOSVersion || ta.Descriptor.MinOSVersion != "abc" {
		t.Fatalf("declared value should be kept as written: %+v", ta.Descriptor)
	}
	if ta.Descriptor.Families == nil || len(ta.Descriptor.Families) != 0 {
		t.Fatalf("empty deployment-targets should give an empty map")
	}
}

func TestReadProjectDescriptorErrors(t *testing.T) {
	if _, err := ReadProjectDescriptor(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
	dir := t.TempDir()
	writeTiapp(t, dir, "<ti:app><name>")
	if _, err := ReadProjectDescriptor(dir); err == nil {
		t.Fatalf("expected error for malformed manifest")
	}
}

func TestReadTiappFallsBackToDirName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nameless")
	writeTiapp(t, dir, `<ti:app><deployment-targets/></ti:app>`)
	d, err := ReadProjectDescriptor(dir)
	if err != nil {
		t.Fatalf("ReadProjectDescriptor: %v", err)
	}
	if d.Name != "nameless" {
		t.Fatalf("Name = %q", d.Name)
	}
}

func TestSwapGUIDAndRestore(t *testing.T) {
	path := writeTiapp(t, t.TempDir(), sampleTiapp)
	newGUID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	restore, err := SwapGUID(path, newGUID)
	if err != nil {
		t.Fatalf("SwapGUID: %v", err)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "<guid>"+newGUID+"</guid>") {
		t.Fatalf("guid not swapped:\n%s", b)
	}
	if strings.Contains(string(b), "11111111-2222") {
		t.Fatalf("old guid still present")
	}

	if err := restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	b, _ = os.ReadFile(path)
	if string(b) != sampleTiapp {
		t.Fatalf("restore did not bring back the original")
	}
}

func TestSwapGUIDIgnoresShortGUID(t *testing.T) {
	content := `<ti:app><guid>short</guid></ti:app>`
	path := writeTiapp(t, t.TempDir(), content)
	if _, err := SwapGUID(path, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"); err != nil {
		t.Fatalf("SwapGUID: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != content {
		t.Fatalf("manifest changed: %s", b)
	}
}
