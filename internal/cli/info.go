package cli

import (
	"context"
	"os"

	"nexus/internal/history"
	"nexus/internal/ui"

	"github.com/spf13/cobra"
)

var infoFormat string

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show package information",
	Long: `Display every version of a package in an environment's catalog,
followed by the last operations recorded for it.

Examples:
  nexus info git               # Show git in the default environment
  nexus info git -e test       # Show git in the test catalog
  nexus info                   # Pick a package interactively`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoFormat, "output", "o", "", "output format: table, json or yaml (default from config)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := outputFormat(infoFormat)
	if err != nil {
		return err
	}

	env, pkgs, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	pkg, err := findPackage(pkgs, firstArg(args), "Select a package")
	if err != nil {
		return err
	}

	if format != ui.FormatTable {
		return ui.Encode(os.Stdout, format, pkg)
	}

	ui.PrintPackageInfo(os.Stdout, env.Name, pkg)

	// Recent operations (ignore errors)
	if store, storeErr := history.Open(); storeErr == nil {
		entries, _ := store.ListPackage(pkg.Name, 5)
		store.Close()
		if len(entries) > 0 {
			ui.HeaderMsg("\nRecent operations")
			ui.PrintHistory(os.Stdout, entries)
		}
	}

	return nil
}
