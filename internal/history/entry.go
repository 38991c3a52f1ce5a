// Package history keeps a journal of install and uninstall operations in
// BoltDB. The journal is for review only; it never restores install state.
package history

import (
	"fmt"
	"time"

	"nexus/pkg/catalog"
	"nexus/pkg/installer"
)

// Operation represents the type of package operation.
type Operation string

const (
	OpInstall   Operation = "install"
	OpUninstall Operation = "uninstall"
)

// Entry represents a single operation in the history.
type Entry struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Operation   Operation     `json:"operation"`
	Installer   string        `json:"installer"`
	Environment string        `json:"environment"`
	Package     string        `json:"package"`
	Version     string        `json:"version,omitempty"`
	Success     bool          `json:"success"`
	ExitCode    int           `json:"exit_code"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
	DryRun      bool          `json:"dry_run,omitempty"`
}

// NewEntry creates a new history entry. The ID is assigned by Store.Record.
func NewEntry(op Operation, installerName, env, pkg, version string) *Entry {
	return &Entry{
		Timestamp:   time.Now(),
		Operation:   op,
		Installer:   installerName,
		Environment: env,
		Package:     pkg,
		Version:     version,
	}
}

// FromOutcome builds an entry from a finished installer operation.
func FromOutcome(env string, o installer.Outcome, dryRun bool) *Entry {
	op := OpInstall
	if o.Op == installer.OpUninstall {
		op = OpUninstall
	}

	e := NewEntry(op, o.Installer, env, o.Package, o.Version)
	e.Timestamp = o.Started
	e.Duration = o.Duration
	e.ExitCode = o.Result.ExitCode
	e.DryRun = dryRun
	if o.Success() {
		e.MarkSuccess()
	} else {
		e.MarkFailed(o.Err)
	}
	return e
}

// MarkSuccess marks the entry as successful.
func (e *Entry) MarkSuccess() {
	e.Success = true
	e.Error = ""
}

// MarkFailed marks the entry as failed with an error message.
func (e *Entry) MarkFailed(err error) {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
}

// Status returns "success", "failed" or "dry-run".
func (e *Entry) Status() string {
	switch {
	case e.DryRun:
		return "dry-run"
	case e.Success:
		return "success"
	default:
		return "failed"
	}
}

// Target returns the package name with its version, if any.
func (e *Entry) Target() string {
	if e.Version == "" || e.Version == catalog.NotAvailable {
		return e.Package
	}
	return e.Package + " " + e.Version
}

// FormatTime returns a human-readable timestamp.
func (e *Entry) FormatTime() string {
	return e.Timestamp.Local().Format("2006-01-02 15:04:05")
}

// Summary returns a brief summary of the operation.
func (e *Entry) Summary() string {
	return fmt.Sprintf("%s %s %s [%s/%s] (%s)",
		e.FormatTime(), e.Operation, e.Target(), e.Environment, e.Installer, e.Status())
}
