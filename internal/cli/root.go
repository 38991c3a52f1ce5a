// Package cli implements the command-line interface for nexus.
package cli

import (
	"fmt"

	"nexus/internal/config"
	"nexus/internal/platform"
	"nexus/internal/ui"
	"nexus/pkg/installer"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile       string
	installerName string
	envName       string
	dryRun        bool
	yes           bool
	verbose       bool
	noColor       bool

	// Global state
	cfg      *config.Config
	sysInfo  *platform.Info
	registry *installer.Registry
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Browse package catalogs and install from them",
	Long: `Nexus aggregates package catalogs (a plain REST object list or a
Sonatype Nexus repository) into one entry per package with all of its
versions, and installs or removes the selected version through the
system's package manager.

Run without a command to open the interactive browser.

Supported installers:
  Windows:  chocolatey, winget, scoop, psgallery
  Linux:    apt, psgallery
  macOS:    psgallery

Examples:
  nexus                              # Open the catalog browser
  nexus list -e prod                 # List the prod catalog
  nexus install git --version 2.44.0 # Install a specific version
  nexus uninstall git -I winget      # Remove through winget`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
	RunE: runTUI,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&installerName, "installer", "I", "", "installer backend (chocolatey, winget, scoop, psgallery, apt)")
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "catalog environment (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "show what would happen without executing")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "assume yes to all prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(installersCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.ErrorMsg("%v", err)
	}
	return err
}

// initializeApp sets up the application state.
func initializeApp() error {
	// Load configuration
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if yes {
		cfg.General.AutoConfirm = true
	}
	if dryRun {
		cfg.General.DryRun = true
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	if installerName != "" {
		cfg.General.Installer = installerName
	}

	// Initialize UI
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	sysInfo = platform.Detect()
	registry = installer.NewRegistry()
	registerInstallers(installer.Options{
		Timeout: cfg.Timeout(),
		DryRun:  cfg.General.DryRun,
		Verbose: cfg.Output.Verbose,
	})
	registry.SetPreferred(cfg.General.Installer)

	return nil
}

// registerInstallers registers every backend that fits the system, with
// its configured options.
func registerInstallers(opts installer.Options) {
	registry.Register(installer.NewChocolatey(opts, cfg.GetInstallerConfig("chocolatey").Source))
	registry.Register(installer.NewPSGallery(opts, cfg.GetInstallerConfig("psgallery").AllowClobber))
	registry.Register(installer.NewWinget(opts))
	registry.Register(installer.NewScoop(opts))

	if sysInfo.HasAPT() {
		registry.Register(installer.NewAPT(opts, cfg.GetInstallerConfig("apt").UseSudo))
	}
}

// getInstaller returns the configured or platform default installer.
func getInstaller() (installer.Installer, error) {
	inst, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoInstaller, err)
	}
	return inst, nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print nexus version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("nexus version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
