// Package tracker holds the per-package install state shown next to each
// catalog entry: which version is selected, which one is installed, and
// which actions that combination allows.
package tracker

import (
	"errors"
	"fmt"

	"nexus/pkg/catalog"
)

// ErrInvalidVersion is returned when a version is not offered by the package.
var ErrInvalidVersion = errors.New("invalid version")

// Affordance is the action set derived from the selected and installed
// versions.
type Affordance int

const (
	// NotInstalled: install enabled, uninstall disabled, no indicator.
	NotInstalled Affordance = iota
	// InstalledDifferentVersionSelected: install and uninstall enabled,
	// indicator shown.
	InstalledDifferentVersionSelected
	// InstalledAndSelected: install disabled, uninstall enabled,
	// indicator shown.
	InstalledAndSelected
)

// String returns a short label for the affordance.
func (a Affordance) String() string {
	switch a {
	case NotInstalled:
		return "not installed"
	case InstalledDifferentVersionSelected:
		return "installed (other version)"
	case InstalledAndSelected:
		return "installed"
	default:
		return fmt.Sprintf("Affordance(%d)", int(a))
	}
}

// CanInstall reports whether the install action is enabled.
func (a Affordance) CanInstall() bool {
	return a != InstalledAndSelected
}

// CanUninstall reports whether the uninstall action is enabled.
func (a Affordance) CanUninstall() bool {
	return a != NotInstalled
}

// ShowInstalled reports whether the installed indicator is visible.
func (a Affordance) ShowInstalled() bool {
	return a != NotInstalled
}

// FailureError describes an install or uninstall that did not succeed.
type FailureError struct {
	Op      string
	Package string
	Version string
	Detail  string
}

func (e *FailureError) Error() string {
	target := e.Package
	if e.Version != "" && e.Version != catalog.NotAvailable {
		target += " " + e.Version
	}
	if e.Detail == "" {
		return fmt.Sprintf("failed to %s %s", e.Op, target)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Op, target, e.Detail)
}

// Tracker is the install state of one package. It does no I/O and is not
// safe for concurrent use; one owner applies every mutation.
type Tracker struct {
	pkg       catalog.Package
	selected  string
	installed string
	has       bool
}

// New starts tracking pkg with its first version selected and nothing
// installed. A package without versions gets the NotAvailable placeholder.
func New(pkg catalog.Package) *Tracker {
	pkg = pkg.Clone()
	if len(pkg.Versions) == 0 {
		pkg.Versions = []string{catalog.NotAvailable}
	}
	return &Tracker{
		pkg:      pkg,
		selected: pkg.Versions[0],
	}
}

// Package returns a copy of the tracked package.
func (t *Tracker) Package() catalog.Package {
	return t.pkg.Clone()
}

// Name returns the package name.
func (t *Tracker) Name() string {
	return t.pkg.Name
}

// Selected returns the selected version.
func (t *Tracker) Selected() string {
	return t.selected
}

// Installed returns the installed version, if any.
func (t *Tracker) Installed() (string, bool) {
	return t.installed, t.has
}

// Select makes v the selected version.
func (t *Tracker) Select(v string) error {
	if !t.pkg.HasVersion(v) {
		return fmt.Errorf("%w: %q is not a version of %s", ErrInvalidVersion, v, t.pkg.Name)
	}
	t.selected = v
	return nil
}

// SelectNext moves the selection by delta positions, wrapping around, and
// returns the new selection.
func (t *Tracker) SelectNext(delta int) string {
	n := len(t.pkg.Versions)
	i := 0
	for j, v := range t.pkg.Versions {
		if v == t.selected {
			i = j
			break
		}
	}
	i = ((i+delta)%n + n) % n
	t.selected = t.pkg.Versions[i]
	return t.selected
}

// Affordance derives the action set from the current state.
func (t *Tracker) Affordance() Affordance {
	switch {
	case !t.has:
		return NotInstalled
	case t.installed == t.selected:
		return InstalledAndSelected
	default:
		return InstalledDifferentVersionSelected
	}
}

// RecordInstallOutcome applies the result of installing version. On
// success version becomes installed even if the catalog no longer lists it,
// and it is selected when it is one of the package's versions. On failure
// the state is left alone and a *FailureError carrying detail is returned.
func (t *Tracker) RecordInstallOutcome(success bool, version, detail string) error {
	if !success {
		return &FailureError{Op: "install", Package: t.pkg.Name, Version: version, Detail: detail}
	}
	t.installed = version
	t.has = true
	if t.pkg.HasVersion(version) {
		t.selected = version
	}
	return nil
}

// RecordUninstallOutcome applies the result of an uninstall. On success the
// package is no longer installed; on failure a *FailureError is returned.
func (t *Tracker) RecordUninstallOutcome(success bool, detail string) error {
	if !success {
		return &FailureError{Op: "uninstall", Package: t.pkg.Name, Version: t.installed, Detail: detail}
	}
	t.installed = ""
	t.has = false
	return nil
}
