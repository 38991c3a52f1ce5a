package installer

import (
	"context"
	"os/exec"

	"nexus/internal/executor"
)

// Chocolatey installs through choco.
type Chocolatey struct {
	base
	source string
}

// NewChocolatey creates a Chocolatey installer. source, when set, is passed
// as --source (e.g. a Nexus NuGet feed).
func NewChocolatey(opts Options, source string) *Chocolatey {
	return &Chocolatey{
		base:   newBase("chocolatey", "Chocolatey", "choco", false, opts),
		source: source,
	}
}

func (c *Chocolatey) installArgs(name, version string) []string {
	args := []string{"install", name}
	if hasVersion(version) {
		args = append(args, "--version", version)
	}
	if c.source != "" {
		args = append(args, "--source", c.source)
	}
	return append(args, "-y", "--no-progress")
}

// Install implements Installer.
func (c *Chocolatey) Install(ctx context.Context, name, version string) (Result, error) {
	if err := validate(name, version); err != nil {
		return Result{}, err
	}
	cmd := executor.Command{Name: c.binary, Args: c.installArgs(name, version)}
	return c.run(ctx, OpInstall, name, version, cmd)
}

// Uninstall implements Installer.
func (c *Chocolatey) Uninstall(ctx context.Context, name string) (Result, error) {
	if err := ValidateName(name); err != nil {
		return Result{}, err
	}
	cmd := executor.Command{Name: c.binary, Args: []string{"uninstall", name, "-y", "--no-progress"}}
	return c.run(ctx, OpUninstall, name, "", cmd)
}

// PSGallery installs PowerShell modules with Install-Module. The module
// name and version reach PowerShell through environment variables read by
// a fixed script.
type PSGallery struct {
	base
	allowClobber bool
}

const (
	envName    = "NEXUS_PKG_NAME"
	envVersion = "NEXUS_PKG_VERSION"
	envClobber = "NEXUS_ALLOW_CLOBBER"
)

const psInstallScript = `$ErrorActionPreference = 'Stop'
$params = @{ Name = $env:NEXUS_PKG_NAME; Force = $true; Scope = 'CurrentUser' }
if ($env:NEXUS_PKG_VERSION) { $params.RequiredVersion = $env:NEXUS_PKG_VERSION }
if ($env:NEXUS_ALLOW_CLOBBER -eq '1') { $params.AllowClobber = $true }
Install-Module @params`

const psUninstallScript = `$ErrorActionPreference = 'Stop'
Uninstall-Module -Name $env:NEXUS_PKG_NAME -Force -AllVersions`

// NewPSGallery creates a PowerShell Gallery installer. It prefers pwsh
// and falls back to Windows PowerShell.
func NewPSGallery(opts Options, allowClobber bool) *PSGallery {
	binary := "pwsh"
	if _, err := exec.LookPath(binary); err != nil {
		binary = "powershell"
	}
	return &PSGallery{
		base:         newBase("psgallery", "PowerShell Gallery", binary, false, opts),
		allowClobber: allowClobber,
	}
}

func psArgs(script string) []string {
	return []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

func (p *PSGallery) installEnv(name, version string) []string {
	env := []string{envName + "=" + name}
	if hasVersion(version) {
		env = append(env, envVersion+"="+version)
	} else {
		env = append(env, envVersion+"=")
	}
	if p.allowClobber {
		env = append(env, envClobber+"=1")
	}
	return env
}

// Install implements Installer.
func (p *PSGallery) Install(ctx context.Context, name, version string) (Result, error) {
	if err := validate(name, version); err != nil {
		return Result{}, err
	}
	cmd := executor.Command{
		Name: p.binary,
		Args: psArgs(psInstallScript),
		Env:  p.installEnv(name, version),
	}
	return p.run(ctx, OpInstall, name, version, cmd)
}

// Uninstall implements Installer.
func (p *PSGallery) Uninstall(ctx context.Context, name string) (Result, error) {
	if err := ValidateName(name); err != nil {
		return Result{}, err
	}
	cmd := executor.Command{
		Name: p.binary,
		Args: psArgs(psUninstallScript),
		Env:  []string{envName + "=" + name},
	}
	return p.run(ctx, OpUninstall, name, "", cmd)
}

// Winget installs through the Windows Package Manager.
type Winget struct {
	base
}

// NewWinget creates a winget installer.
func NewWinget(opts Options) *Winget {
	return &Winget{base: newBase("winget", "Windows Package Manager", "winget", false, opts)}
}

func (w *Winget) installArgs(name, version string) []string {
	args := []string{"install", "--id", name, "--exact"}
	if hasVersion(version) {
		args = append(args, "--version", version)
	}
	return append(args,
		"--accept-package-agreements",
		"--accept-source-agreements",
		"--disable-interactivity",
	)
}

// Install implements Installer.
func (w *Winget) Install(ctx context.Context, name, version string) (Result, error) {
	if err := validate(name, version); err != nil {
		return Result{}, err
	}
	cmd := executor.Command{Name: w.binary, Args: w.installArgs(name, version)}
	return w.run(ctx, OpInstall, name, version, cmd)
}

// Uninstall implements Installer.
func (w *Winget) Uninstall(ctx context.Context, name string) (Result, error) {
	if err := ValidateName(name); err != nil {
		return Result{}, err
	}
	cmd := executor.Command{
		Name: w.binary,
		Args: []string{"uninstall", "--id", name, "--exact", "--disable-interactivity"},
	}
	return w.run(ctx, OpUninstall, name, "", cmd)
}

// Scoop installs through scoop, pinning versions with name@version.
type Scoop struct {
	base
}

// NewScoop creates a Scoop installer.
func NewScoop(opts Options) *Scoop {
	return &Scoop{base: newBase("scoop", "Scoop", "scoop", false, opts)}
}

// Install implements Installer.
func (s *Scoop) Install(ctx context.Context, name, version string) (Result, error) {
	if err := validate(name, version); err != nil {
		return Result{}, err
	}
	target := name
	if hasVersion(version) {
		target += "@" + version
	}
	cmd := executor.Command{Name: s.binary, Args: []string{"install", target}}
	return s.run(ctx, OpInstall, name, version, cmd)
}

// Uninstall implements Installer.
func (s *Scoop) Uninstall(ctx context.Context, name string) (Result, error) {
	if err := ValidateName(name); err != nil {
		return Result{}, err
	}
	cmd := executor.Command{Name: s.binary, Args: []string{"uninstall", name}}
	return s.run(ctx, OpUninstall, name, "", cmd)
}

// APT installs Debian packages with apt-get, pinning versions with
// name=version.
type APT struct {
	base
}

// NewAPT creates an APT installer. useSudo elevates through sudo when not
// already root.
func NewAPT(opts Options, useSudo bool) *APT {
	return &APT{base: newBase("apt", "APT (Debian/Ubuntu)", "apt-get", useSudo, opts)}
}

var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// Install implements Installer.
func (a *APT) Install(ctx context.Context, name, version string) (Result, error) {
	if err := validate(name, version); err != nil {
		return Result{}, err
	}
	target := name
	if hasVersion(version) {
		target += "=" + version
	}
	cmd := executor.Command{Name: a.binary, Args: []string{"install", "-y", target}, Env: aptEnv}
	return a.run(ctx, OpInstall, name, version, cmd)
}

// Uninstall implements Installer.
func (a *APT) Uninstall(ctx context.Context, name string) (Result, error) {
	if err := ValidateName(name); err != nil {
		return Result{}, err
	}
	cmd := executor.Command{Name: a.binary, Args: []string{"remove", "-y", name}, Env: aptEnv}
	return a.run(ctx, OpUninstall, name, "", cmd)
}

func validate(name, version string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return ValidateVersion(version)
}
