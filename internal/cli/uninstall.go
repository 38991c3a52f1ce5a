package cli

import (
	"context"

	"nexus/internal/ui"
	"nexus/pkg/installer"
	"nexus/pkg/tracker"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall [package]",
	Aliases: []string{"remove", "rm"},
	Short:   "Remove a package",
	Long: `Remove a catalog package through the configured installer.

Each run starts without install state, so the removal is not checked
against what this tool installed earlier.

Examples:
  nexus uninstall git                # Remove git
  nexus uninstall -y git             # Remove without confirmation
  nexus uninstall git -I scoop       # Remove through scoop`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	inst, err := getInstaller()
	if err != nil {
		return err
	}

	env, pkgs, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	pkg, err := findPackage(pkgs, firstArg(args), "Select a package to remove")
	if err != nil {
		return err
	}

	ui.InfoMsg("Removing %s using %s", ui.PackageName.Sprint(pkg.Name), inst.DisplayName())

	if err := confirm("Proceed with removal?", false); err != nil {
		return err
	}

	t := tracker.New(pkg)
	req := installer.Request{Op: installer.OpUninstall, Package: pkg.Name}
	if err := runOperation(ctx, inst, env.Name, t, req); err != nil {
		return err
	}

	if cfg.General.DryRun {
		ui.MutedMsg("Dry run: nothing was removed")
	}
	return nil
}
