// Package catalog turns raw catalog listings into named packages with
// ordered version lists.
package catalog

import "strings"

const (
	// NotAvailable stands in for the version list of a package whose
	// catalog carries no version data. Installers treat it as "latest".
	NotAvailable = "N/A"

	// Unknown names records that arrive without a name.
	Unknown = "Unknown"
)

// Record is one raw entry from a catalog listing. An empty Version means
// the entry carried no version.
type Record struct {
	Name    string
	Version string
}

// Package is a named package and the versions the catalog offers for it.
// Versions is never empty.
type Package struct {
	Name     string   `json:"name" yaml:"name"`
	Versions []string `json:"versions" yaml:"versions"`
}

// HasVersion reports whether v is one of the package's versions.
func (p Package) HasVersion(v string) bool {
	for _, pv := range p.Versions {
		if pv == v {
			return true
		}
	}
	return false
}

// Latest returns the last version in the list, which is the newest one for
// sorted lists.
func (p Package) Latest() string {
	return p.Versions[len(p.Versions)-1]
}

// Clone returns a copy that shares no memory with p.
func (p Package) Clone() Package {
	return Package{
		Name:     p.Name,
		Versions: append([]string(nil), p.Versions...),
	}
}

// Aggregate groups records by name. Groups appear in the order their name is
// first seen; within a group versions keep first-seen order and duplicates
// are dropped. A group without any version gets [NotAvailable].
func Aggregate(records []Record) []Package {
	index := make(map[string]int)
	var pkgs []Package

	for _, r := range records {
		name := r.Name
		if name == "" {
			name = Unknown
		}

		i, ok := index[name]
		if !ok {
			i = len(pkgs)
			index[name] = i
			pkgs = append(pkgs, Package{Name: name})
		}

		if r.Version != "" && !pkgs[i].HasVersion(r.Version) {
			pkgs[i].Versions = append(pkgs[i].Versions, r.Version)
		}
	}

	for i := range pkgs {
		if len(pkgs[i].Versions) == 0 {
			pkgs[i].Versions = []string{NotAvailable}
		}
	}
	return pkgs
}

// Filter returns the packages whose name contains substr, ignoring case.
// Order is preserved and an empty substr matches everything.
func Filter(pkgs []Package, substr string) []Package {
	if substr == "" {
		return append([]Package(nil), pkgs...)
	}

	needle := strings.ToLower(substr)
	var out []Package
	for _, p := range pkgs {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the package with the given name.
func Find(pkgs []Package, name string) (Package, bool) {
	for _, p := range pkgs {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}

// Names returns the package names in order.
func Names(pkgs []Package) []string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.Name
	}
	return names
}

func dedupe(versions []string) []string {
	seen := make(map[string]bool, len(versions))
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
