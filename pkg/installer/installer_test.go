package installer

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus/internal/executor"
	"nexus/pkg/catalog"
)

// dryRun swaps in a dry-run executor and returns the buffer it reports to.
func dryRun(b interface{ SetExecutor(*executor.Executor) }) *bytes.Buffer {
	var buf bytes.Buffer
	e := executor.New(true, false)
	e.SetOutput(&buf)
	b.SetExecutor(e)
	return &buf
}

func TestBackendsImplementInstaller(t *testing.T) {
	opts := Options{}
	installers := []Installer{
		NewChocolatey(opts, ""),
		NewPSGallery(opts, true),
		NewWinget(opts),
		NewScoop(opts),
		NewAPT(opts, true),
	}

	for _, inst := range installers {
		t.Run(inst.Name(), func(t *testing.T) {
			assert.NotEmpty(t, inst.DisplayName())
			_ = inst.IsAvailable()
		})
	}
}

func TestCommandLines(t *testing.T) {
	tests := []struct {
		name      string
		inst      Installer
		version   string
		install   string
		uninstall string
	}{
		{
			name:      "chocolatey",
			inst:      NewChocolatey(Options{}, ""),
			version:   "2.41.0",
			install:   "choco install git --version 2.41.0 -y --no-progress",
			uninstall: "choco uninstall git -y --no-progress",
		},
		{
			name:    "chocolatey without version",
			inst:    NewChocolatey(Options{}, "https://nexus.local/repository/nuget-dev/"),
			version: catalog.NotAvailable,
			install: "choco install git --source https://nexus.local/repository/nuget-dev/ -y --no-progress",
		},
		{
			name:      "winget",
			inst:      NewWinget(Options{}),
			version:   "2.41.0",
			install:   "winget install --id git --exact --version 2.41.0 --accept-package-agreements --accept-source-agreements --disable-interactivity",
			uninstall: "winget uninstall --id git --exact --disable-interactivity",
		},
		{
			name:      "scoop",
			inst:      NewScoop(Options{}),
			version:   "2.41.0",
			install:   "scoop install git@2.41.0",
			uninstall: "scoop uninstall git",
		},
		{
			name:    "apt without sudo",
			inst:    NewAPT(Options{}, false),
			version: "1:2.41.0-1",
			install: "apt-get install -y git=1:2.41.0-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := dryRun(tt.inst.(interface{ SetExecutor(*executor.Executor) }))

			res, err := tt.inst.Install(context.Background(), "git", tt.version)
			require.NoError(t, err)
			assert.False(t, res.Captured)
			assert.Contains(t, buf.String(), "Would execute: "+tt.install+"\n")

			if tt.uninstall == "" {
				return
			}
			buf.Reset()
			_, err = tt.inst.Uninstall(context.Background(), "git")
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "Would execute: "+tt.uninstall+"\n")
		})
	}
}

func TestPSGalleryKeepsNameOutOfArguments(t *testing.T) {
	p := NewPSGallery(Options{}, true)
	buf := dryRun(p)

	name := `Evil"; Remove-Item C:\ -Recurse; "`
	_, err := p.Install(context.Background(), name, "1.0")
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Remove-Item")

	env := p.installEnv(name, "1.0")
	assert.Contains(t, env, envName+"="+name)
	assert.Contains(t, env, envVersion+"=1.0")
	assert.Contains(t, env, envClobber+"=1")

	env = NewPSGallery(Options{}, false).installEnv("mod", catalog.NotAvailable)
	assert.Equal(t, []string{envName + "=mod", envVersion + "="}, env)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"git", true},
		{"Google Pixel 6 Pro", true},
		{"Microsoft.PowerShell", true},
		{"", false},
		{"  ", false},
		{"--force", false},
		{"-y", false},
		{"bad\nname", false},
	}

	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.valid {
			assert.NoError(t, err, tt.name)
		} else {
			assert.ErrorIs(t, err, ErrInvalidPackage, tt.name)
		}
	}

	assert.NoError(t, ValidateVersion(""))
	assert.NoError(t, ValidateVersion(catalog.NotAvailable))
	assert.ErrorIs(t, ValidateVersion("--pre"), ErrInvalidPackage)
}

func TestInstallRejectsFlagLikeNames(t *testing.T) {
	c := NewChocolatey(Options{}, "")
	buf := dryRun(c)

	_, err := c.Install(context.Background(), "--force", "")
	assert.ErrorIs(t, err, ErrInvalidPackage)
	_, err = c.Uninstall(context.Background(), "-x")
	assert.ErrorIs(t, err, ErrInvalidPackage)
	assert.Empty(t, buf.String())
}

func shellBase(t *testing.T, timeout time.Duration) *base {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	b := newBase("fake", "Fake", "sh", false, Options{Timeout: timeout})
	return &b
}

func TestRunFailure(t *testing.T) {
	b := shellBase(t, 5*time.Second)

	res, err := b.run(context.Background(), OpInstall, "pkg", "1.0",
		executor.Command{Name: "sh", Args: []string{"-c", "echo package not found >&2; exit 2"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInstallerFailure))
	assert.False(t, errors.Is(err, ErrInstallerTimeout))
	assert.Equal(t, 2, res.ExitCode)
	assert.True(t, res.Captured)
	assert.Equal(t, "package not found", Detail(err))
	assert.Equal(t, "fake install pkg 1.0: exit status 2", err.Error())
}

func TestRunSuccess(t *testing.T) {
	b := shellBase(t, 5*time.Second)

	res, err := b.run(context.Background(), OpInstall, "pkg", "",
		executor.Command{Name: "sh", Args: []string{"-c", "echo done"}})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "done\n", res.Output)
}

func TestRunTimeout(t *testing.T) {
	b := shellBase(t, 100*time.Millisecond)

	_, err := b.run(context.Background(), OpUninstall, "pkg", "",
		executor.Command{Name: "sleep", Args: []string{"5"}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInstallerTimeout))
	assert.True(t, errors.Is(err, ErrInstallerFailure))
	assert.Equal(t, "operation timed out", Detail(err))
	assert.True(t, strings.HasSuffix(err.Error(), "timed out"))
}

func TestFailureDetailTruncates(t *testing.T) {
	fe := &FailureError{Result: Result{Output: strings.Repeat("x", maxDetail+50)}}
	assert.Len(t, fe.Detail(), maxDetail+3)
	assert.True(t, strings.HasPrefix(fe.Detail(), "..."))
	assert.Equal(t, "", Detail(nil))
	assert.Equal(t, "plain", Detail(errors.New("plain")))
}
