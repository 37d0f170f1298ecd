package core

import (
	"fmt"
	"sort"
	"time"
)

// SigningOption is one selectable provisioning profile or certificate.
type SigningOption struct {
	Value    string `json:"value" yaml:"value"`
	Label    string `json:"label" yaml:"label"`
	Kind     string `json:"kind" yaml:"kind"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

type SigningOptions struct {
	Profiles     []SigningOption `json:"provisioningProfiles" yaml:"provisioningProfiles"`
	Certificates []SigningOption `json:"certificates" yaml:"certificates"`
}

// ProfileOptions lists the non-expired profiles, adhoc first, then development and
// distribution. The one whose uuid equals selected is marked.
func ProfileOptions(p ProvisioningProfiles, selected string) []SigningOption {
	groups := []struct {
		title    string
		profiles []ProvisioningProfile
	}{
		{"Adhoc", p.Adhoc},
		{"Development", p.Development},
		{"Distribution", p.Distribution},
	}
	out := []SigningOption{}
	for _, g := range groups {
		for _, prof := range g.profiles {
			if prof.Expired {
				continue
			}
			out = append(out, SigningOption{
				Value:    prof.UUID,
				Label:    fmt.Sprintf("%s : %s [Expire : %s]", g.title, prof.Name, expiryLabel(prof.ExpirationDate)),
				Kind:     g.title,
				Selected: prof.UUID != "" && prof.UUID == selected,
			})
		}
	}
	return out
}

// CertificateOptions lists the non-expired certificates of every keychain as
// "type : name". Keychains and types are visited in sorted order.
func CertificateOptions(keychains map[string]map[string][]Certificate, selected string) []SigningOption {
	out := []SigningOption{}
	for _, kc := range sortedKeys(keychains) {
		types := keychains[kc]
		typeNames := make([]string, 0, len(types))
		for t := range types {
			typeNames = append(typeNames, t)
		}
		sort.Strings(typeNames)
		for _, typ := range typeNames {
			for _, cert := range types[typ] {
				if cert.Expired {
					continue
				}
				out = append(out, SigningOption{
					Value:    cert.Name,
					Label:    typ + " : " + cert.Name,
					Kind:     typ,
					Selected: cert.Name != "" && cert.Name == selected,
				})
			}
		}
	}
	return out
}

func ListSigning(inv Inventory, cfg Config) SigningOptions {
	return SigningOptions{
		Profiles:     ProfileOptions(inv.Provisioning, cfg.ProvisioningProfile),
		Certificates: CertificateOptions(inv.Keychains, cfg.Certificate),
	}
}

var expiryLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02",
}

// expiryLabel renders d/m/yyyy without padding; unparseable dates are shown as given.
func expiryLabel(s string) string {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
		}
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
