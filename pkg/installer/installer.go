// Package installer runs external package managers on behalf of the
// catalog browser. Every backend builds an argument vector; nothing is
// passed through a shell.
package installer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"nexus/pkg/catalog"
)

// DefaultTimeout bounds a single install or uninstall.
const DefaultTimeout = 3 * time.Hour

// Installer installs and removes packages through an external tool.
type Installer interface {
	// Name returns the short identifier (e.g., "chocolatey").
	Name() string

	// DisplayName returns a human-readable name.
	DisplayName() string

	// IsAvailable returns true if the backing tool is on PATH.
	IsAvailable() bool

	// NeedsSudo returns true if operations run elevated.
	NeedsSudo() bool

	// Install installs version of name. The NotAvailable placeholder or an
	// empty version installs whatever the tool considers current.
	Install(ctx context.Context, name, version string) (Result, error)

	// Uninstall removes name.
	Uninstall(ctx context.Context, name string) (Result, error)
}

// Result is what the external tool reported. Captured is false when the
// tool never ran (dry-run, validation failure, missing binary).
type Result struct {
	ExitCode int
	Output   string
	Captured bool
}

// Success reports whether the tool exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Options configures the shared behavior of every backend.
type Options struct {
	Timeout time.Duration
	DryRun  bool
	Verbose bool
	// Output receives dry-run notices and verbose echo. Nil means stdout.
	Output io.Writer
}

// ValidateName rejects names that an external tool could mistake for a flag
// or that carry control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPackage)
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidPackage, name)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidPackage, name)
	}
	return nil
}

// ValidateVersion applies ValidateName's rules to a version string. The
// empty string and the NotAvailable placeholder are accepted.
func ValidateVersion(version string) error {
	if !hasVersion(version) {
		return nil
	}
	if strings.HasPrefix(version, "-") || strings.IndexFunc(version, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: bad version %q", ErrInvalidPackage, version)
	}
	return nil
}

// hasVersion reports whether version should be passed to the tool.
func hasVersion(version string) bool {
	return version != "" && version != catalog.NotAvailable
}
