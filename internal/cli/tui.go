package cli

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"nexus/internal/history"
	"nexus/internal/tui"
	"nexus/internal/ui"
	"nexus/pkg/installer"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive catalog browser",
	Long: `Launch the interactive terminal browser. Running nexus without a
command does the same.

Every environment gets a tab with its catalog. For each package you can
pick a version and install or remove it; the row shows which version is
installed.

Navigation:
  - Use arrow keys or j/k to move, 1-9 or tab to switch environments
  - Press h/l or [/] to change the selected version
  - Press / to search, enter for details and failure output
  - Press i to install, u or r to uninstall, R to reload
  - Press ? for help, q to quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	historyStore, err := history.Open()
	if err != nil {
		ui.WarningMsg("Could not open history: %v", err)
		// Continue without history
	}
	defer func() {
		if historyStore != nil {
			historyStore.Close()
		}
	}()

	// Installers write dry-run notices and verbose echo to stdout, which
	// belongs to the TUI. Register quiet copies.
	registry = installer.NewRegistry()
	registerInstallers(installer.Options{
		Timeout: cfg.Timeout(),
		DryRun:  cfg.General.DryRun,
		Output:  io.Discard,
	})
	registry.SetPreferred(cfg.General.Installer)

	inst, instErr := getInstaller()
	if instErr != nil {
		ui.WarningMsg("%v; browsing only", instErr)
	}

	fetch := newFetcher(func(name string, err error) {
		log.Printf("versions of %s: %v", name, err)
	})
	return tui.Run(cfg, inst, historyStore, fetch)
}
