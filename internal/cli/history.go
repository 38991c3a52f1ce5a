package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"nexus/internal/history"
	"nexus/internal/ui"
)

var (
	historyLimit   int
	historyPackage string
	pruneOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show operation history",
	Long: `Display the journal of install and uninstall operations.

The journal is informational only; it is never used to restore
install state.

Examples:
  nexus history                       # Show recent history
  nexus history -l 20                 # Show last 20 operations
  nexus history -p git                # Only operations on git
  nexus history show 42               # Full details of entry 42
  nexus history prune --older-than 720h
  nexus history clear`,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history entry",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one history entry in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete history entries older than a duration",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyCmd.Flags().StringVarP(&historyPackage, "package", "p", "", "only show operations on this package")
	historyPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 30*24*time.Hour, "age of the oldest entry to keep")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyPruneCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	var entries []history.Entry
	if historyPackage != "" {
		entries, err = store.ListPackage(historyPackage, historyLimit)
	} else {
		entries, err = store.List(historyLimit)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Operation History")
	ui.PrintHistory(os.Stdout, entries)

	for _, entry := range entries {
		if entry.Error != "" {
			ui.MutedMsg("  %s: %s", entry.ID, entry.Error)
		}
	}

	total, _ := store.Count() //nolint:errcheck
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	entry, err := store.Get(args[0])
	if err != nil {
		return err
	}
	ui.PrintEntry(os.Stdout, entry)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if err := confirm("Delete all history entries?", false); err != nil {
		return err
	}

	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	ui.SuccessMsg("History cleared")
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if pruneOlderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	n, err := store.Prune(pruneOlderThan)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	ui.SuccessMsg("Removed %d entries older than %s", n, pruneOlderThan)
	return nil
}
