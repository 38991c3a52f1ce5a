package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"nexus/pkg/catalog"
)

// Confirm prompts the user for yes/no confirmation.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if defaultYes {
		p.Default = "y"
	}

	result, err := p.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, err
		}
		// promptui reports "no" on a confirm prompt as ErrAbort.
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return defaultYes, nil
	}

	result = strings.ToLower(strings.TrimSpace(result))
	if result == "" {
		return defaultYes, nil
	}
	return result == "y" || result == "yes", nil
}

// SelectPackage prompts the user to pick one of pkgs, with type-to-filter.
func SelectPackage(pkgs []catalog.Package, prompt string) (catalog.Package, error) {
	if len(pkgs) == 0 {
		return catalog.Package{}, fmt.Errorf("no packages to select from")
	}
	if len(pkgs) == 1 {
		return pkgs[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Name | cyan }} {{ .Latest | green }}",
		Inactive: "  {{ .Name }} {{ .Latest | faint }}",
		Selected: "✓ {{ .Name | cyan }}",
		Details: `
--------- Package ----------
{{ "Name:" | faint }}	{{ .Name }}
{{ "Versions:" | faint }}	{{ len .Versions }}`,
	}

	searcher := func(input string, index int) bool {
		return strings.Contains(strings.ToLower(pkgs[index].Name), strings.ToLower(input))
	}

	p := promptui.Select{
		Label:     prompt,
		Items:     pkgs,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	index, _, err := p.Run()
	if err != nil {
		return catalog.Package{}, err
	}
	return pkgs[index], nil
}

// SelectVersion prompts for one of pkg's versions, starting on the last
// (newest, for sorted catalogs) entry.
func SelectVersion(pkg catalog.Package) (string, error) {
	if len(pkg.Versions) == 1 {
		return pkg.Versions[0], nil
	}

	p := promptui.Select{
		Label:     fmt.Sprintf("Version of %s", pkg.Name),
		Items:     pkg.Versions,
		Size:      10,
		CursorPos: len(pkg.Versions) - 1,
		Searcher: func(input string, index int) bool {
			return strings.HasPrefix(pkg.Versions[index], input)
		},
	}

	_, result, err := p.Run()
	if err != nil {
		return "", err
	}
	return result, nil
}
