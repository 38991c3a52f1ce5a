package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"nexus/internal/config"
	"nexus/internal/ui"
	"nexus/pkg/catalog"
)

// newFetcher returns a loader for environment catalogs. Nexus names whose
// version lookup fails are kept as N/A and, in verbose mode, passed to warn.
func newFetcher(warn func(name string, err error)) func(context.Context, config.Environment) ([]catalog.Package, error) {
	client := catalog.NewClientWithOptions(cfg.CatalogTimeout(), cfg.Catalog.UserAgent)

	return func(ctx context.Context, env config.Environment) ([]catalog.Package, error) {
		opts, err := cfg.SourceOptions(env)
		if err != nil {
			return nil, err
		}

		src, err := catalog.NewSource(client, opts)
		if err != nil {
			return nil, err
		}

		if n, ok := src.(*catalog.NexusSource); ok && cfg.Output.Verbose && warn != nil {
			n.OnLookupError = warn
		}

		return src.Fetch(ctx)
	}
}

// loadCatalog resolves the --env flag and fetches that catalog behind a
// spinner.
func loadCatalog(ctx context.Context) (config.Environment, []catalog.Package, error) {
	env, err := cfg.Environment(envName)
	if err != nil {
		return config.Environment{}, nil, err
	}

	fetch := newFetcher(func(name string, err error) {
		ui.WarningMsg("versions of %s: %v", name, err)
	})

	var pkgs []catalog.Package
	err = ui.WithSpinner(fmt.Sprintf("Fetching %s catalog...", env.Name), func() error {
		var fetchErr error
		pkgs, fetchErr = fetch(ctx, env)
		return fetchErr
	})
	if err != nil {
		return env, nil, err
	}
	return env, pkgs, nil
}

const maxSuggestions = 5

// findPackage looks name up in pkgs. With no name and an interactive
// terminal the user picks one.
func findPackage(pkgs []catalog.Package, name, prompt string) (catalog.Package, error) {
	if name == "" {
		if !interactive() {
			return catalog.Package{}, fmt.Errorf("package name required")
		}
		return ui.SelectPackage(pkgs, prompt)
	}

	pkg, ok := catalog.Find(pkgs, name)
	if !ok {
		if similar := catalog.Names(catalog.Filter(pkgs, name)); len(similar) > 0 {
			if len(similar) > maxSuggestions {
				similar = similar[:maxSuggestions]
			}
			return catalog.Package{}, fmt.Errorf("%w: %s (did you mean %s?)",
				ErrPackageNotFound, name, strings.Join(similar, ", "))
		}
		return catalog.Package{}, fmt.Errorf("%w: %s", ErrPackageNotFound, name)
	}
	return pkg, nil
}

// interactive reports whether prompts can be shown.
func interactive() bool {
	return !cfg.General.AutoConfirm && isatty.IsTerminal(os.Stdin.Fd())
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
