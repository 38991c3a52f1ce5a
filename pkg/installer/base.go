package installer

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"nexus/internal/executor"
)

// base carries what every backend shares.
type base struct {
	name        string
	displayName string
	binary      string
	needsSudo   bool
	timeout     time.Duration
	exec        *executor.Executor
}

func newBase(name, displayName, binary string, needsSudo bool, opts Options) base {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	exec := executor.New(opts.DryRun, opts.Verbose)
	if opts.Output != nil {
		exec.SetOutput(opts.Output)
	}
	return base{
		name:        name,
		displayName: displayName,
		binary:      binary,
		needsSudo:   needsSudo,
		timeout:     timeout,
		exec:        exec,
	}
}

// Name returns the short identifier for this installer.
func (b *base) Name() string {
	return b.name
}

// DisplayName returns the human-readable name.
func (b *base) DisplayName() string {
	return b.displayName
}

// IsAvailable returns true if the binary is on PATH.
func (b *base) IsAvailable() bool {
	_, err := exec.LookPath(b.binary)
	return err == nil
}

// NeedsSudo returns true if this installer runs elevated.
func (b *base) NeedsSudo() bool {
	return b.needsSudo
}

// SetExecutor replaces the executor, e.g. to redirect verbose output.
func (b *base) SetExecutor(e *executor.Executor) {
	b.exec = e
}

// run executes cmd under the installer's timeout and turns anything other
// than a clean exit into a *FailureError.
func (b *base) run(ctx context.Context, op Op, pkg, version string, cmd executor.Command) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var (
		res executor.Result
		err error
	)
	if b.needsSudo {
		res, err = b.exec.CaptureSudo(ctx, cmd)
	} else {
		res, err = b.exec.Capture(ctx, cmd)
	}

	timedOut := errors.Is(err, executor.ErrTimeout)
	out := Result{
		ExitCode: res.ExitCode,
		Output:   res.Output,
		Captured: !b.exec.DryRun() && (err == nil || timedOut),
	}
	if err == nil && res.Success() {
		return out, nil
	}

	return out, &FailureError{
		Op:        op,
		Installer: b.name,
		Package:   pkg,
		Version:   version,
		Result:    out,
		Timeout:   timedOut,
		Err:       err,
	}
}
