package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"nexus/internal/ui"
	"nexus/pkg/catalog"
)

var (
	listLimit  int
	listFormat string
)

var listCmd = &cobra.Command{
	Use:     "list [filter]",
	Aliases: []string{"ls", "search"},
	Short:   "List the packages of a catalog",
	Long: `List every package of an environment's catalog with its versions.
An optional filter keeps names containing it, ignoring case.

Examples:
  nexus list                     # List the default environment
  nexus list -e prod             # List the prod catalog
  nexus list git                 # Packages whose name contains 'git'
  nexus list -o json             # Machine-readable output`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "limit number of results")
	listCmd.Flags().StringVarP(&listFormat, "output", "o", "", "output format: table, json or yaml (default from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := outputFormat(listFormat)
	if err != nil {
		return err
	}

	env, pkgs, err := loadCatalog(ctx)
	if err != nil {
		return err
	}

	pkgs = catalog.Filter(pkgs, firstArg(args))
	total := len(pkgs)
	if listLimit > 0 && len(pkgs) > listLimit {
		pkgs = pkgs[:listLimit]
	}

	if format != ui.FormatTable {
		return ui.Encode(os.Stdout, format, pkgs)
	}

	ui.InfoMsg("Catalog %s (%s)", ui.Environment.Sprint(env.Name), env.URL)
	ui.PrintPackages(os.Stdout, pkgs)
	ui.MutedMsg("\nShowing %d of %d packages", len(pkgs), total)

	return nil
}

// outputFormat resolves -o against the configured default.
func outputFormat(flag string) (ui.Format, error) {
	if flag == "" {
		flag = cfg.Output.Format
	}
	return ui.ParseFormat(flag)
}
