package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nexus/internal/config"
	"nexus/internal/history"
	"nexus/internal/ui"
	"nexus/pkg/catalog"
	"nexus/pkg/installer"
	"nexus/pkg/tracker"
)

type stubInstaller struct {
	err error
}

func (s *stubInstaller) Name() string        { return "stub" }
func (s *stubInstaller) DisplayName() string { return "Stub" }
func (s *stubInstaller) IsAvailable() bool   { return true }
func (s *stubInstaller) NeedsSudo() bool     { return false }

func (s *stubInstaller) Install(context.Context, string, string) (installer.Result, error) {
	return installer.Result{Captured: true}, s.err
}

func (s *stubInstaller) Uninstall(context.Context, string) (installer.Result, error) {
	return installer.Result{Captured: true}, s.err
}

func setupTest(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg = config.Default()
	cfg.General.AutoConfirm = true
	cfg.Output.Verbose = true
	ui.Init(false, false)

	installVersion = ""
}

func TestChooseVersion(t *testing.T) {
	setupTest(t)
	pkg := catalog.Package{Name: "git", Versions: []string{"2.43.0", "2.44.0"}}

	v, err := chooseVersion(pkg)
	if err != nil {
		t.Fatalf("chooseVersion() error: %v", err)
	}
	if v != "2.44.0" {
		t.Errorf("default version = %q, want 2.44.0", v)
	}

	installVersion = "2.43.0"
	if v, _ := chooseVersion(pkg); v != "2.43.0" {
		t.Errorf("--version = %q, want 2.43.0", v)
	}

	installVersion = "9.9"
	if _, err := chooseVersion(pkg); !errors.Is(err, tracker.ErrInvalidVersion) {
		t.Errorf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestOutputFormat(t *testing.T) {
	setupTest(t)

	if f, _ := outputFormat(""); f != ui.FormatTable {
		t.Errorf("default format = %q, want table", f)
	}
	cfg.Output.Format = "yaml"
	if f, _ := outputFormat(""); f != ui.FormatYAML {
		t.Errorf("configured format = %q, want yaml", f)
	}
	if f, _ := outputFormat("json"); f != ui.FormatJSON {
		t.Errorf("flag format = %q, want json", f)
	}
	if _, err := outputFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestFindPackage(t *testing.T) {
	setupTest(t)
	pkgs := []catalog.Package{{Name: "git", Versions: []string{"1"}}}

	if _, err := findPackage(pkgs, "git", ""); err != nil {
		t.Errorf("findPackage(git) error: %v", err)
	}
	if _, err := findPackage(pkgs, "svn", ""); !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("expected ErrPackageNotFound, got %v", err)
	}
	if _, err := findPackage(pkgs, "gi", ""); err == nil || !strings.Contains(err.Error(), "did you mean git?") {
		t.Errorf("expected a suggestion for gi, got %v", err)
	}
	if _, err := findPackage(pkgs, "", ""); err == nil {
		t.Error("expected error for empty name without a terminal")
	}
}

func TestRunOperation(t *testing.T) {
	setupTest(t)
	pkg := catalog.Package{Name: "git", Versions: []string{"2.43.0", "2.44.0"}}

	tr := tracker.New(pkg)
	req := installer.Request{Op: installer.OpInstall, Package: "git", Version: "2.44.0"}
	if err := runOperation(context.Background(), &stubInstaller{}, "dev", tr, req); err != nil {
		t.Fatalf("runOperation() error: %v", err)
	}
	if v, ok := tr.Installed(); !ok || v != "2.44.0" {
		t.Errorf("Installed() = %q, %v; want 2.44.0, true", v, ok)
	}

	boom := errors.New("boom")
	req = installer.Request{Op: installer.OpUninstall, Package: "git"}
	if err := runOperation(context.Background(), &stubInstaller{err: boom}, "dev", tr, req); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if _, ok := tr.Installed(); !ok {
		t.Error("failed uninstall changed install state")
	}

	store, err := history.Open()
	if err != nil {
		t.Fatalf("history.Open() error: %v", err)
	}
	defer store.Close()

	entries, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	if entries[0].Success || !entries[1].Success {
		t.Errorf("unexpected history order or status: %+v", entries)
	}
}

func TestConfirmSkipped(t *testing.T) {
	setupTest(t)
	if err := confirm("Proceed?", false); err != nil {
		t.Errorf("confirm() with -y = %v", err)
	}
}
