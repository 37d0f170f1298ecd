package core

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"10.0", "10.0", true},
		{" 12.1.2 ", "12.1.2", true},
		{"9", "9", true},
		{"", "", false},
		{"ten", "", false},
		{"10.", "", false},
		{"1..2", "", false},
		{"10.0-beta", "", false},
		{"-1", "", false},
	}
	for _, tc := range tests {
		v, ok := ParseVersion(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseVersion(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
		if ok && v.String() != tc.want {
			t.Fatalf("ParseVersion(%q) = %s, want %s", tc.in, v, tc.want)
		}
	}
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"10.0", "9.3", 1},
		{"9.10", "9.9", 1},
		{"11", "11.0.0", 0},
		{"12.0", "12.0.1", -1},
		{"8.4", "10", -1},
	}
	for _, tc := range tests {
		a, _ := ParseVersion(tc.a)
		b, _ := ParseVersion(tc.b)
		if got := a.Compare(b); got != tc.want {
			t.Fatalf("%s vs %s = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEffectiveMinVersion(t *testing.T) {
	v, ok := EffectiveMinVersion("10.0", "8.0")
	if !ok || v.String() != "10.0" {
		t.Fatalf("declared minimum ignored: %v %v", v, ok)
	}
	v, ok = EffectiveMinVersion("abc", "8.0")
	if !ok || v.String() != "8.0" {
		t.Fatalf("default not used: %v %v", v, ok)
	}
	if _, ok := EffectiveMinVersion("abc", ""); ok {
		t.Fatalf("expected no threshold")
	}
}
