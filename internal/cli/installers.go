package cli

import (
	"os"

	"nexus/internal/executor"
	"nexus/internal/history"
	"nexus/internal/ui"

	"github.com/spf13/cobra"
)

var installersCmd = &cobra.Command{
	Use:     "installers",
	Aliases: []string{"doctor"},
	Short:   "Show installer backends and privileges",
	Long: `List every installer backend, whether its tool is on PATH, whether it
runs elevated, and which one install and uninstall will use.

Examples:
  nexus installers             # Show backends
  nexus installers -I winget   # Check that winget would be used`,
	Args: cobra.NoArgs,
	RunE: runInstallers,
}

func runInstallers(cmd *cobra.Command, args []string) error {
	issues := 0

	ui.HeaderMsg("Installers on %s", sysInfo)

	def, err := registry.Default()
	if err != nil {
		ui.ErrorMsg("No default installer: %v", err)
		issues++
	}

	t := ui.NewTableWriter(os.Stdout, []string{"Name", "Tool", "Available", "Elevated", "Default"})
	for _, inst := range registry.All() {
		available := ui.NotInstalled.Sprint("no")
		if inst.IsAvailable() {
			available = ui.Installed.Sprint("yes")
		}
		elevated := "no"
		if inst.NeedsSudo() {
			elevated = "sudo"
		}
		marker := ""
		if def != nil && def.Name() == inst.Name() {
			marker = ui.SymbolArrow
		}
		t.AddRow(inst.Name(), inst.DisplayName(), available, elevated, marker)
	}
	t.Render()

	if def != nil && !def.IsAvailable() {
		ui.WarningMsg("%s is not on PATH; only --dry-run will work", def.DisplayName())
		issues++
	}

	ui.HeaderMsg("\nPrivileges")
	switch {
	case executor.IsRoot():
		ui.SuccessMsg("Running with administrator privileges")
	case executor.HasSudo():
		ui.SuccessMsg("Not elevated; sudo is available")
	default:
		ui.WarningMsg("Not elevated and no sudo found")
	}
	if def != nil {
		if err := executor.CheckPrivileges(def.NeedsSudo()); err != nil {
			ui.ErrorMsg("%v", err)
			issues++
		}
	}

	if store, err := history.Open(); err == nil {
		last, _ := store.Last()
		store.Close()
		if last != nil {
			ui.HeaderMsg("\nLast operation")
			ui.MutedMsg("  %s", last.Summary())
		}
	}

	if issues > 0 {
		ui.WarningMsg("Found %d issue(s)", issues)
	}
	return nil
}
