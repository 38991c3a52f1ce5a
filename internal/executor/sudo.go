package executor

import "errors"

// ErrNoPrivileges is returned when an operation requires root but cannot elevate.
var ErrNoPrivileges = errors.New("this operation requires root privileges, but neither running as root nor sudo is available")

// IsRoot reports whether the process runs as root or administrator.
func IsRoot() bool {
	return isRoot()
}

// HasSudo reports whether an elevation helper is on PATH.
func HasSudo() bool {
	return hasSudo()
}

// CanElevate returns true if the process can elevate privileges.
func CanElevate() bool {
	return isRoot() || hasSudo()
}

// CheckPrivileges returns ErrNoPrivileges if needsSudo is set and there is
// no way to elevate.
func CheckPrivileges(needsSudo bool) error {
	if needsSudo && !CanElevate() {
		return ErrNoPrivileges
	}
	return nil
}
