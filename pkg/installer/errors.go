package installer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInstallerFailure is matched by every failed operation.
	ErrInstallerFailure = errors.New("installer failed")

	// ErrInstallerTimeout is matched by operations that ran out of time.
	ErrInstallerTimeout = errors.New("installer timed out")

	// ErrInvalidPackage is returned for names or versions that are unsafe
	// to pass to an external tool.
	ErrInvalidPackage = errors.New("invalid package")

	// ErrUnknownInstaller is returned when no backend has the requested name.
	ErrUnknownInstaller = errors.New("unknown installer")
)

// maxDetail caps how much tool output ends up in an error message.
const maxDetail = 2000

// FailureError describes a failed install or uninstall.
type FailureError struct {
	Op        Op
	Installer string
	Package   string
	Version   string
	Result    Result
	Timeout   bool
	Err       error
}

func (e *FailureError) Error() string {
	target := e.Package
	if hasVersion(e.Version) {
		target += " " + e.Version
	}

	var reason string
	switch {
	case e.Timeout:
		reason = "timed out"
	case e.Err != nil:
		reason = e.Err.Error()
	default:
		reason = fmt.Sprintf("exit status %d", e.Result.ExitCode)
	}
	return fmt.Sprintf("%s %s %s: %s", e.Installer, e.Op, target, reason)
}

// Unwrap returns the underlying cause.
func (e *FailureError) Unwrap() error {
	return e.Err
}

// Is matches ErrInstallerFailure always and ErrInstallerTimeout on timeouts.
func (e *FailureError) Is(target error) bool {
	switch target {
	case ErrInstallerFailure:
		return true
	case ErrInstallerTimeout:
		return e.Timeout
	}
	return false
}

// Detail returns a short message suitable for a dialog: the tail of the
// captured output, or the reason when nothing was captured.
func (e *FailureError) Detail() string {
	out := strings.TrimSpace(e.Result.Output)
	if out == "" {
		if e.Timeout {
			return "operation timed out"
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return fmt.Sprintf("exit status %d", e.Result.ExitCode)
	}
	if len(out) > maxDetail {
		out = "..." + out[len(out)-maxDetail:]
	}
	return out
}

// Detail extracts a display message from any error returned by an Installer.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe.Detail()
	}
	return err.Error()
}
