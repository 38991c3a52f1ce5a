package cli

import "errors"

var (
	// ErrNoInstaller is returned when no installer backend can be used.
	ErrNoInstaller = errors.New("no installer available; pick one with --installer")

	// ErrPackageNotFound is returned when a package is not in the catalog.
	ErrPackageNotFound = errors.New("package not found")

	// ErrAborted is returned when the user aborts an operation.
	ErrAborted = errors.New("operation aborted by user")
)
