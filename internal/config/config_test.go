package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"nexus/pkg/catalog"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	names := cfg.EnvironmentNames()
	want := []string{"dev", "test", "prod"}
	if len(names) != len(want) {
		t.Fatalf("expected %d environments, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("environment[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	if !cfg.Output.Color {
		t.Error("expected Color to be true by default")
	}
	if cfg.Output.Verbose {
		t.Error("expected Verbose to be false by default")
	}
	if cfg.General.AutoConfirm {
		t.Error("expected AutoConfirm to be false by default")
	}
	if cfg.Timeout() != 3*time.Hour {
		t.Errorf("Timeout() = %v, want 3h", cfg.Timeout())
	}
	if cfg.CatalogTimeout() != 30*time.Second {
		t.Errorf("CatalogTimeout() = %v, want 30s", cfg.CatalogTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvironment(t *testing.T) {
	cfg := Default()

	env, err := cfg.Environment("test")
	if err != nil {
		t.Fatalf("Environment(test) error: %v", err)
	}
	if env.Name != "test" {
		t.Errorf("Environment(test).Name = %s", env.Name)
	}

	env, err = cfg.Environment("")
	if err != nil || env.Name != "dev" {
		t.Errorf("Environment(\"\") = %v, %v; want dev", env.Name, err)
	}

	_, err = cfg.Environment("staging")
	if !errors.Is(err, ErrUnknownEnvironment) {
		t.Errorf("Environment(staging) error = %v, want ErrUnknownEnvironment", err)
	}
}

func TestSourceOptions(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Concurrency = 8

	tests := []struct {
		env      Environment
		wantKind catalog.Kind
		wantSort catalog.SortPolicy
		wantErr  bool
	}{
		{Environment{Kind: "rest", URL: "http://x"}, catalog.KindREST, catalog.SortNone, false},
		{Environment{Kind: "nexus", URL: "http://x", Repository: "nuget-dev"}, catalog.KindNexus, catalog.SortNumeric, false},
		{Environment{Kind: "nexus", URL: "http://x", Sort: "semver"}, catalog.KindNexus, catalog.SortSemver, false},
		{Environment{Kind: "gopher"}, "", "", true},
		{Environment{Kind: "rest", Sort: "random"}, "", "", true},
	}

	for _, tt := range tests {
		opts, err := cfg.SourceOptions(tt.env)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SourceOptions(%+v) should fail", tt.env)
			}
			continue
		}
		if err != nil {
			t.Errorf("SourceOptions(%+v) error: %v", tt.env, err)
			continue
		}
		if opts.Kind != tt.wantKind || opts.Sort != tt.wantSort {
			t.Errorf("SourceOptions(%+v) = %s/%s, want %s/%s", tt.env, opts.Kind, opts.Sort, tt.wantKind, tt.wantSort)
		}
		if opts.Concurrency != 8 {
			t.Errorf("Concurrency = %d, want 8", opts.Concurrency)
		}
	}
}

func TestGetInstallerConfig(t *testing.T) {
	cfg := Default()

	if !cfg.GetInstallerConfig("apt").UseSudo {
		t.Error("expected apt to use sudo by default")
	}
	if cfg.GetInstallerConfig("winget") != (InstallerConfig{}) {
		t.Error("expected empty config for an unconfigured installer")
	}
}

func TestShouldUseColor(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{Color: true},
	}

	t.Setenv("NO_COLOR", "")
	if !cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return true")
	}

	t.Setenv("NO_COLOR", "1")
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when NO_COLOR is set")
	}

	t.Setenv("NO_COLOR", "")
	cfg.Output.Color = false
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when Color is false")
	}
}

func TestLoadSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.General.Installer = "chocolatey"
	cfg.Environments = append(cfg.Environments, Environment{
		Name:       "nexus",
		Kind:       "nexus",
		URL:        "http://localhost:8081/service/rest/v1/search",
		Repository: "nuget-dev",
	})

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if loaded.General.Installer != "chocolatey" {
		t.Errorf("Installer = %q, want chocolatey", loaded.General.Installer)
	}
	env, err := loaded.Environment("nexus")
	if err != nil {
		t.Fatalf("Environment(nexus) error: %v", err)
	}
	if env.Repository != "nuget-dev" {
		t.Errorf("Repository = %q, want nuget-dev", env.Repository)
	}
}

func TestSaveCreatesConfigDir(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG not used on this platform")
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "missing"))

	cfg := Default()
	cfg.General.Environment = "prod"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(ConfigPath()); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.General.Environment != "prod" {
		t.Errorf("Environment = %q, want prod", loaded.General.Environment)
	}
}

func TestLoadReplacesEnvironments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
environment = "local"

[[environments]]
name = "local"
kind = "nexus"
url = "http://localhost:8081/service/rest/v1/search"
repository = "nuget-dev"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if len(cfg.Environments) != 1 {
		t.Fatalf("expected 1 environment, got %d", len(cfg.Environments))
	}
	env, err := cfg.Environment("")
	if err != nil || env.Name != "local" {
		t.Errorf("default environment = %q, %v; want local", env.Name, err)
	}
	if env.Sort != "" {
		t.Errorf("Sort should not inherit defaults, got %q", env.Sort)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"bad timeout":     "[general]\ntimeout = \"soon\"\n",
		"bad kind":        "[[environments]]\nname = \"x\"\nkind = \"ftp\"\nurl = \"http://x\"\n",
		"duplicate names": "[[environments]]\nname = \"x\"\nurl = \"http://x\"\n[[environments]]\nname = \"x\"\nurl = \"http://y\"\n",
		"syntax":          "[general\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("LoadFrom() should fail")
			}
		})
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadFrom("/non/existent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadFrom() should not error for non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadFrom() should return default config for non-existent file")
	}

	if !cfg.Output.Color {
		t.Error("expected default Color to be true")
	}
}
