package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nexus/internal/executor"
	"nexus/internal/history"
	"nexus/internal/ui"
	"nexus/pkg/installer"
	"nexus/pkg/tracker"
)

// runOperation dispatches req, waits behind a spinner, reports the result,
// applies the outcome to t and journals it. Failure output is printed; the
// returned error is the short form.
func runOperation(ctx context.Context, inst installer.Installer, env string, t *tracker.Tracker, req installer.Request) error {
	if !cfg.General.DryRun {
		if !inst.IsAvailable() {
			return fmt.Errorf("%s is not installed on this system", inst.DisplayName())
		}
		if err := executor.CheckPrivileges(inst.NeedsSudo()); err != nil {
			return err
		}
	}

	// Verbose mode streams the tool's output, which a spinner would garble.
	var sp *ui.Spinner
	if !cfg.General.DryRun && !cfg.Output.Verbose {
		sp = ui.NewSpinner(fmt.Sprintf("Running %s %s...", inst.Name(), req.Op))
		sp.Start()
	}
	outcome := <-installer.Dispatch(ctx, inst, req)

	switch {
	case sp != nil && outcome.Success():
		sp.Success(doneText(req))
	case sp != nil:
		sp.Error(fmt.Sprintf("%s of %s failed", req.Op, req.Package))
	case outcome.Success() && !cfg.General.DryRun:
		ui.SuccessMsg("%s", doneText(req))
	}

	var err error
	switch req.Op {
	case installer.OpUninstall:
		err = t.RecordUninstallOutcome(outcome.Success(), installer.Detail(outcome.Err))
	default:
		err = t.RecordInstallOutcome(outcome.Success(), req.Version, installer.Detail(outcome.Err))
	}

	recordHistory(env, outcome)

	var fe *tracker.FailureError
	if errors.As(err, &fe) {
		printFailureOutput(outcome)
		return outcome.Err
	}
	return err
}

func doneText(req installer.Request) string {
	if req.Op == installer.OpUninstall {
		return fmt.Sprintf("Removed %s", req.Package)
	}
	return fmt.Sprintf("Installed %s %s", req.Package, req.Version)
}

func printFailureOutput(o installer.Outcome) {
	if !o.Result.Captured || strings.TrimSpace(o.Result.Output) == "" {
		return
	}
	ui.MutedMsg("Output of %s:", o.Installer)
	for _, line := range strings.Split(installer.Detail(o.Err), "\n") {
		ui.MutedMsg("  | %s", strings.TrimRight(line, "\r"))
	}
}

// recordHistory journals an outcome. A journal that cannot be opened never
// fails the operation.
func recordHistory(env string, o installer.Outcome) {
	store, err := history.Open()
	if err != nil {
		if cfg.Output.Verbose {
			ui.WarningMsg("Could not open history: %v", err)
		}
		return
	}
	defer store.Close()

	if err := store.Record(history.FromOutcome(env, o, cfg.General.DryRun)); err != nil && cfg.Output.Verbose {
		ui.WarningMsg("Could not record history: %v", err)
	}
}

// confirm asks unless -y or --dry-run was given.
func confirm(prompt string, defaultYes bool) error {
	if cfg.General.AutoConfirm || cfg.General.DryRun {
		return nil
	}
	ok, err := ui.Confirm(prompt, defaultYes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}
