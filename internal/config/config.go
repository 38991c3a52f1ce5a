package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"nexus/pkg/catalog"
)

// DefaultCatalogURL is the public demo catalog used by the stock environments.
const DefaultCatalogURL = "https://api.restful-api.dev/objects"

// ErrUnknownEnvironment is returned when no environment has the requested name.
var ErrUnknownEnvironment = errors.New("unknown environment")

// Config represents the complete nexus configuration.
type Config struct {
	General      GeneralConfig              `toml:"general"`
	Output       OutputConfig               `toml:"output"`
	Catalog      CatalogConfig              `toml:"catalog"`
	Environments []Environment              `toml:"environments"`
	Installers   map[string]InstallerConfig `toml:"installers"`
}

// GeneralConfig contains general nexus settings.
type GeneralConfig struct {
	// Installer names the backend used for install/uninstall. Empty picks
	// the platform default.
	Installer string `toml:"installer"`

	// Environment is the tab or catalog used when none is given.
	Environment string `toml:"environment"`

	// AutoConfirm skips confirmation prompts when true (like -y flag).
	AutoConfirm bool `toml:"auto_confirm"`

	// DryRun shows what would happen without executing when true.
	DryRun bool `toml:"dry_run"`

	// Timeout bounds one install or uninstall, as a Go duration.
	Timeout string `toml:"timeout"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`

	// Format is the default output of list and info: table, json or yaml.
	Format string `toml:"format"`
}

// CatalogConfig contains settings shared by all catalog requests.
type CatalogConfig struct {
	Timeout     string `toml:"timeout"`
	Concurrency int    `toml:"concurrency"`
	UserAgent   string `toml:"user_agent"`
}

// Environment is one catalog the browser can show, e.g. dev, test or prod.
type Environment struct {
	Name string `toml:"name"`

	// Kind is "rest" for a flat object list or "nexus" for a Nexus search API.
	Kind string `toml:"kind"`

	URL string `toml:"url"`

	// Repository is the Nexus repository name. Nexus only.
	Repository string `toml:"repository"`

	// Sort is none, numeric or semver. Empty uses the kind's default.
	Sort string `toml:"sort,omitempty"`
}

// InstallerConfig contains per-installer settings.
type InstallerConfig struct {
	// Source is passed as --source. Chocolatey only.
	Source string `toml:"source,omitempty"`

	// AllowClobber lets Install-Module replace commands from other
	// modules. PowerShell Gallery only.
	AllowClobber bool `toml:"allow_clobber,omitempty"`

	// UseSudo elevates through sudo when not root. APT only.
	UseSudo bool `toml:"use_sudo,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			Environment: "dev",
			Timeout:     "3h",
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Format:  "table",
		},
		Catalog: CatalogConfig{
			Timeout:     "30s",
			Concurrency: catalog.DefaultConcurrency,
			UserAgent:   catalog.DefaultUserAgent,
		},
		Environments: defaultEnvironments(),
		Installers: map[string]InstallerConfig{
			"psgallery": {AllowClobber: true},
			"apt":       {UseSudo: true},
		},
	}
}

func defaultEnvironments() []Environment {
	envs := make([]Environment, 0, 3)
	for _, name := range []string{"dev", "test", "prod"} {
		envs = append(envs, Environment{
			Name: name,
			Kind: string(catalog.KindREST),
			URL:  DefaultCatalogURL,
		})
	}
	return envs
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
// Environments listed in the file replace the defaults as a whole.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	cfg.Environments = nil
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(cfg.Environments) == 0 {
		cfg.Environments = defaultEnvironments()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the default path, creating the config
// directory first.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// Validate checks values that are parsed lazily elsewhere.
func (c *Config) Validate() error {
	if _, err := parseDuration(c.General.Timeout); err != nil {
		return fmt.Errorf("general.timeout: %w", err)
	}
	if _, err := parseDuration(c.Catalog.Timeout); err != nil {
		return fmt.Errorf("catalog.timeout: %w", err)
	}

	seen := make(map[string]bool)
	for i, env := range c.Environments {
		if env.Name == "" {
			return fmt.Errorf("environments[%d]: name is empty", i)
		}
		if seen[env.Name] {
			return fmt.Errorf("environments[%d]: duplicate name %q", i, env.Name)
		}
		seen[env.Name] = true

		if _, err := c.SourceOptions(env); err != nil {
			return fmt.Errorf("environment %s: %w", env.Name, err)
		}
	}
	return nil
}

// Environment returns the environment with the given name. An empty name
// selects the configured default, or the first environment.
func (c *Config) Environment(name string) (Environment, error) {
	if name == "" {
		name = c.General.Environment
	}
	for _, env := range c.Environments {
		if env.Name == name {
			return env, nil
		}
	}
	if name == c.General.Environment && len(c.Environments) > 0 {
		return c.Environments[0], nil
	}
	return Environment{}, fmt.Errorf("%w: %s", ErrUnknownEnvironment, name)
}

// EnvironmentNames returns the environment names in configured order.
func (c *Config) EnvironmentNames() []string {
	names := make([]string, len(c.Environments))
	for i, env := range c.Environments {
		names[i] = env.Name
	}
	return names
}

// SourceOptions converts env into catalog source options.
func (c *Config) SourceOptions(env Environment) (catalog.Options, error) {
	kind, err := catalog.ParseKind(env.Kind)
	if err != nil {
		return catalog.Options{}, err
	}
	sort, err := catalog.ParseSortPolicy(env.Sort, kind.DefaultSort())
	if err != nil {
		return catalog.Options{}, err
	}
	return catalog.Options{
		Kind:        kind,
		URL:         env.URL,
		Repository:  env.Repository,
		Sort:        sort,
		Concurrency: c.Catalog.Concurrency,
	}, nil
}

// Timeout returns the bound on one install or uninstall.
func (c *Config) Timeout() time.Duration {
	d, err := parseDuration(c.General.Timeout)
	if err != nil || d == 0 {
		return 3 * time.Hour
	}
	return d
}

// CatalogTimeout returns the HTTP timeout for catalog requests.
func (c *Config) CatalogTimeout() time.Duration {
	d, err := parseDuration(c.Catalog.Timeout)
	if err != nil || d == 0 {
		return catalog.DefaultTimeout
	}
	return d
}

// GetInstallerConfig returns the configuration for a specific installer.
// Returns an empty config if no configuration exists for the installer.
func (c *Config) GetInstallerConfig(name string) InstallerConfig {
	if cfg, ok := c.Installers[name]; ok {
		return cfg
	}
	return InstallerConfig{}
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
