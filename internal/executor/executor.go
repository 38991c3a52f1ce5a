// Package executor runs package manager commands and captures what they print.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is returned when a command outlives its context deadline.
var ErrTimeout = errors.New("command timed out")

// waitDelay bounds how long Wait blocks on pipes after the process is killed.
const waitDelay = 5 * time.Second

// Command is a program invocation. Args are passed as-is; nothing is
// interpreted by a shell.
type Command struct {
	Name string
	Args []string
	// Env entries (KEY=value) are appended to the current environment.
	Env []string
}

// String renders the command line for display.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is what a finished command left behind.
type Result struct {
	ExitCode int
	Output   string
}

// Success reports whether the command exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Executor runs commands with optional sudo elevation.
type Executor struct {
	dryRun  bool
	verbose bool
	out     io.Writer
}

// New creates a new Executor that reports to stdout.
func New(dryRun, verbose bool) *Executor {
	return &Executor{
		dryRun:  dryRun,
		verbose: verbose,
		out:     os.Stdout,
	}
}

// SetDryRun enables or disables dry-run mode.
func (e *Executor) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// SetOutput redirects dry-run notices and verbose echo. A nil writer
// silences them.
func (e *Executor) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	e.out = w
}

// DryRun reports whether commands are only printed.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Capture runs cmd and returns its exit code with stdout and stderr combined.
// A non-zero exit is reported through Result, not as an error; the error is
// set only when the process could not be started or ran past the deadline.
func (e *Executor) Capture(ctx context.Context, cmd Command) (Result, error) {
	if e.dryRun {
		e.printDryRun(cmd, false)
		return Result{}, nil
	}
	if e.verbose {
		fmt.Fprintf(e.out, "Executing: %s\n", cmd)
	}
	return e.capture(ctx, cmd)
}

// CaptureSudo is Capture with sudo prepended when not already root.
func (e *Executor) CaptureSudo(ctx context.Context, cmd Command) (Result, error) {
	if e.dryRun {
		e.printDryRun(cmd, true)
		return Result{}, nil
	}

	if !isRoot() {
		if !hasSudo() {
			return Result{ExitCode: -1}, ErrNoPrivileges
		}
		cmd = Command{
			Name: "sudo",
			Args: append([]string{cmd.Name}, cmd.Args...),
			Env:  cmd.Env,
		}
		if len(cmd.Env) > 0 {
			// sudo resets the environment unless told which names to keep.
			cmd.Args = append([]string{"--preserve-env=" + envNames(cmd.Env)}, cmd.Args...)
		}
	}

	if e.verbose {
		if isRoot() {
			fmt.Fprintf(e.out, "Executing (as root): %s\n", cmd)
		} else {
			fmt.Fprintf(e.out, "Executing (with sudo): %s\n", cmd)
		}
	}
	return e.capture(ctx, cmd)
}

func (e *Executor) capture(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.WaitDelay = waitDelay
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var buf bytes.Buffer
	var w io.Writer = &buf
	if e.verbose {
		w = io.MultiWriter(e.out, &buf)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	err := cmd.Run()
	res := Result{Output: buf.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%s: %w", c.Name, ErrTimeout)
		}
		return res, fmt.Errorf("%s: %w", c.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		res.ExitCode = -1
		return res, fmt.Errorf("failed to run %s: %w", c.Name, err)
	}
}

func (e *Executor) printDryRun(cmd Command, sudo bool) {
	switch {
	case !sudo:
		fmt.Fprintf(e.out, "[dry-run] Would execute: %s\n", cmd)
	case isRoot():
		fmt.Fprintf(e.out, "[dry-run] Would execute (as root): %s\n", cmd)
	default:
		fmt.Fprintf(e.out, "[dry-run] Would execute (with sudo): sudo %s\n", cmd)
	}
}

func envNames(env []string) string {
	names := make([]string, 0, len(env))
	for _, kv := range env {
		name, _, _ := strings.Cut(kv, "=")
		names = append(names, name)
	}
	return strings.Join(names, ",")
}
