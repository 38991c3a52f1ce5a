package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"nexus/internal/history"
	"nexus/pkg/catalog"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer  *tabwriter.Writer
	headers []string
}

// NewTable creates a new table that writes to Out.
func NewTable(header []string) *Table {
	return NewTableWriter(Out, header)
}

// NewTableWriter creates a new table that writes to a specific writer.
func NewTableWriter(w io.Writer, header []string) *Table {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	t := &Table{
		writer:  tw,
		headers: header,
	}
	if len(header) > 0 {
		row := make([]string, len(header))
		for i, h := range header {
			row[i] = Bold(strings.ToUpper(h))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return t
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	fmt.Fprintln(t.writer, strings.Join(row, "\t"))
}

// Render flushes the table.
func (t *Table) Render() {
	t.writer.Flush()
}

// maxListedVersions caps the VERSIONS column of PrintPackages.
const maxListedVersions = 5

// PrintPackages prints a catalog listing as a table.
func PrintPackages(w io.Writer, pkgs []catalog.Package) {
	if len(pkgs) == 0 {
		Muted.Fprintln(w, "No packages found")
		return
	}

	t := NewTableWriter(w, []string{"Name", "Latest", "Versions"})
	for _, p := range pkgs {
		t.AddRow(PackageName.Sprint(p.Name), PackageVersion.Sprint(p.Latest()), summarizeVersions(p.Versions))
	}
	t.Render()
}

func summarizeVersions(versions []string) string {
	if len(versions) <= maxListedVersions {
		return strings.Join(versions, ", ")
	}
	shown := versions[len(versions)-maxListedVersions:]
	return fmt.Sprintf("%s (+%d more)", strings.Join(shown, ", "), len(versions)-maxListedVersions)
}

// PrintPackageInfo prints every version of one package.
func PrintPackageInfo(w io.Writer, env string, pkg catalog.Package) {
	Header.Fprintf(w, "\nPackage Information\n")
	printField(w, "Name", pkg.Name)
	printField(w, "Environment", env)
	printField(w, "Versions", fmt.Sprintf("%d", len(pkg.Versions)))
	for _, v := range pkg.Versions {
		fmt.Fprintf(w, "    %s %s\n", SymbolPending, v)
	}
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", Cyan(label), value)
}

// PrintHistory prints journal entries in the order given.
func PrintHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		Muted.Fprintln(w, "No operations recorded")
		return
	}

	t := NewTableWriter(w, []string{"ID", "Time", "Op", "Package", "Env", "Installer", "Status"})
	for _, e := range entries {
		status := Installed.Sprint(e.Status())
		if !e.Success && !e.DryRun {
			status = Error.Sprint(e.Status())
		}
		t.AddRow(e.ID, e.FormatTime(), string(e.Operation), PackageName.Sprint(e.Target()),
			Environment.Sprint(e.Environment), e.Installer, status)
	}
	t.Render()
}

// PrintEntry prints every field of one journal entry.
func PrintEntry(w io.Writer, e *history.Entry) {
	Header.Fprintf(w, "\nOperation %s\n", e.ID)
	printField(w, "Time", e.FormatTime())
	printField(w, "Operation", string(e.Operation))
	printField(w, "Package", e.Target())
	printField(w, "Environment", e.Environment)
	printField(w, "Installer", e.Installer)
	printField(w, "Status", e.Status())
	printField(w, "Exit code", fmt.Sprintf("%d", e.ExitCode))
	printField(w, "Duration", e.Duration.Round(time.Millisecond).String())
	if e.Error != "" {
		printField(w, "Error", e.Error)
	}
}
