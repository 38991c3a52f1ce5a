package cli

import (
	"context"
	"fmt"
	"strings"

	"nexus/internal/ui"
	"nexus/pkg/catalog"
	"nexus/pkg/installer"
	"nexus/pkg/tracker"

	"github.com/spf13/cobra"
)

var installVersion string

var installCmd = &cobra.Command{
	Use:   "install [package]",
	Short: "Install a package version from the catalog",
	Long: `Install one version of a catalog package through the configured
installer. Without --version the version is picked interactively, or the
last listed version is used when prompts are disabled.

Examples:
  nexus install git                      # Pick a version of git
  nexus install git --version 2.44.0     # Install an exact version
  nexus install git -e prod -y           # From prod, without prompts
  nexus install git -I winget -n         # Show the winget command only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", "version to install")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	inst, err := getInstaller()
	if err != nil {
		return err
	}

	env, pkgs, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	pkg, err := findPackage(pkgs, firstArg(args), "Select a package to install")
	if err != nil {
		return err
	}

	t := tracker.New(pkg)
	version, err := chooseVersion(t.Package())
	if err != nil {
		return err
	}
	if err := t.Select(version); err != nil {
		return err
	}

	ui.InfoMsg("Installing %s %s from %s using %s",
		ui.PackageName.Sprint(pkg.Name), ui.PackageVersion.Sprint(version),
		ui.Environment.Sprint(env.Name), inst.DisplayName())

	if err := confirm("Proceed with installation?", true); err != nil {
		return err
	}

	req := installer.Request{Op: installer.OpInstall, Package: pkg.Name, Version: version}
	if err := runOperation(ctx, inst, env.Name, t, req); err != nil {
		return err
	}

	if cfg.General.DryRun {
		ui.MutedMsg("Dry run: nothing was installed")
	}
	return nil
}

// chooseVersion resolves --version, prompting when it was not given.
func chooseVersion(pkg catalog.Package) (string, error) {
	switch {
	case installVersion != "":
		if !pkg.HasVersion(installVersion) {
			return "", fmt.Errorf("%w: %s has no version %q (available: %s)",
				tracker.ErrInvalidVersion, pkg.Name, installVersion, strings.Join(pkg.Versions, ", "))
		}
		return installVersion, nil
	case interactive():
		return ui.SelectVersion(pkg)
	default:
		return pkg.Latest(), nil
	}
}
