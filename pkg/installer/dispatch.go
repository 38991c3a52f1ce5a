package installer

import (
	"context"
	"time"
)

// Op is the kind of operation an installer performs.
type Op string

const (
	OpInstall   Op = "install"
	OpUninstall Op = "uninstall"
)

// Request names one operation on one package.
type Request struct {
	Op      Op
	Package string
	Version string
}

// Outcome is the result of a Request, handed back to whoever owns the
// install state.
type Outcome struct {
	Request
	Installer string
	Result    Result
	Err       error
	Started   time.Time
	Duration  time.Duration
}

// Success reports whether the operation completed cleanly.
func (o Outcome) Success() bool {
	return o.Err == nil
}

// Run performs req synchronously.
func Run(ctx context.Context, inst Installer, req Request) Outcome {
	out := Outcome{
		Request:   req,
		Installer: inst.Name(),
		Started:   time.Now(),
	}

	switch req.Op {
	case OpUninstall:
		out.Result, out.Err = inst.Uninstall(ctx, req.Package)
	default:
		out.Request.Op = OpInstall
		out.Result, out.Err = inst.Install(ctx, req.Package, req.Version)
	}

	out.Duration = time.Since(out.Started)
	return out
}

// Dispatch performs req in a new goroutine. The returned channel receives
// exactly one Outcome and is then closed.
func Dispatch(ctx context.Context, inst Installer, req Request) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- Run(ctx, inst, req)
	}()
	return ch
}
