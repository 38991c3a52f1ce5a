package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus/pkg/catalog"
)

func newPkg(versions ...string) catalog.Package {
	return catalog.Package{Name: "pkg", Versions: versions}
}

func TestNew(t *testing.T) {
	tr := New(newPkg("1.0", "2.0"))

	assert.Equal(t, "1.0", tr.Selected())
	_, has := tr.Installed()
	assert.False(t, has)
	assert.Equal(t, NotInstalled, tr.Affordance())
}

func TestNewWithoutVersions(t *testing.T) {
	tr := New(catalog.Package{Name: "bare"})
	assert.Equal(t, catalog.NotAvailable, tr.Selected())
}

func TestAffordanceTransitions(t *testing.T) {
	tr := New(newPkg("1.0", "2.0"))

	require.NoError(t, tr.Select("2.0"))
	require.NoError(t, tr.RecordInstallOutcome(true, "2.0", ""))
	assert.Equal(t, InstalledAndSelected, tr.Affordance())

	require.NoError(t, tr.Select("1.0"))
	assert.Equal(t, InstalledDifferentVersionSelected, tr.Affordance())

	require.NoError(t, tr.Select("2.0"))
	assert.Equal(t, InstalledAndSelected, tr.Affordance())

	require.NoError(t, tr.RecordUninstallOutcome(true, ""))
	assert.Equal(t, NotInstalled, tr.Affordance())
	_, has := tr.Installed()
	assert.False(t, has)
}

func TestInstallSelectsInstalledVersion(t *testing.T) {
	tr := New(newPkg("1.0", "2.0"))

	require.NoError(t, tr.RecordInstallOutcome(true, "2.0", ""))
	assert.Equal(t, "2.0", tr.Selected())
	v, has := tr.Installed()
	assert.True(t, has)
	assert.Equal(t, "2.0", v)
}

func TestSelectInvalidVersion(t *testing.T) {
	tr := New(newPkg("1.0"))

	err := tr.Select("9.9")
	assert.True(t, errors.Is(err, ErrInvalidVersion))
	assert.Equal(t, "1.0", tr.Selected())
}

func TestFailedInstallLeavesState(t *testing.T) {
	tr := New(newPkg("1.0", "2.0"))
	require.NoError(t, tr.RecordInstallOutcome(true, "1.0", ""))
	require.NoError(t, tr.Select("2.0"))

	err := tr.RecordInstallOutcome(false, "2.0", "exit status 1")
	var fe *FailureError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "install", fe.Op)
	assert.Contains(t, err.Error(), "exit status 1")
	assert.Contains(t, err.Error(), "2.0")

	v, _ := tr.Installed()
	assert.Equal(t, "1.0", v)
	assert.Equal(t, "2.0", tr.Selected())
	assert.Equal(t, InstalledDifferentVersionSelected, tr.Affordance())
}

func TestFailedUninstallLeavesState(t *testing.T) {
	tr := New(newPkg("1.0"))
	require.NoError(t, tr.RecordInstallOutcome(true, "1.0", ""))

	err := tr.RecordUninstallOutcome(false, "locked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uninstall")
	assert.Equal(t, InstalledAndSelected, tr.Affordance())
}

func TestInstallOutcomeUnlistedVersion(t *testing.T) {
	tr := New(newPkg(catalog.NotAvailable))

	require.NoError(t, tr.RecordInstallOutcome(true, "2.0", ""))
	v, has := tr.Installed()
	assert.True(t, has)
	assert.Equal(t, "2.0", v)
	assert.Equal(t, catalog.NotAvailable, tr.Selected())
	assert.Equal(t, InstalledDifferentVersionSelected, tr.Affordance())
}

func TestFailedInstallUnlistedVersion(t *testing.T) {
	tr := New(newPkg("1.0"))

	err := tr.RecordInstallOutcome(false, "9.9", "boom")
	var fe *FailureError
	require.True(t, errors.As(err, &fe))
	assert.False(t, errors.Is(err, ErrInvalidVersion))
	assert.Equal(t, "9.9", fe.Version)
	assert.Equal(t, "boom", fe.Detail)
	assert.Equal(t, NotInstalled, tr.Affordance())
}

func TestInstallOverwritesPriorVersion(t *testing.T) {
	tr := New(newPkg("1.0", "2.0"))
	require.NoError(t, tr.RecordInstallOutcome(true, "1.0", ""))
	require.NoError(t, tr.RecordInstallOutcome(true, "2.0", ""))

	v, _ := tr.Installed()
	assert.Equal(t, "2.0", v)
	assert.Equal(t, InstalledAndSelected, tr.Affordance())
}

func TestPlaceholderVersion(t *testing.T) {
	tr := New(newPkg(catalog.NotAvailable))
	require.NoError(t, tr.RecordInstallOutcome(true, catalog.NotAvailable, ""))
	assert.Equal(t, InstalledAndSelected, tr.Affordance())

	err := tr.RecordInstallOutcome(false, catalog.NotAvailable, "")
	assert.EqualError(t, err, "failed to install pkg")
}

func TestSelectNext(t *testing.T) {
	tr := New(newPkg("a", "b", "c"))

	assert.Equal(t, "b", tr.SelectNext(1))
	assert.Equal(t, "c", tr.SelectNext(1))
	assert.Equal(t, "a", tr.SelectNext(1))
	assert.Equal(t, "c", tr.SelectNext(-1))
}

func TestAffordanceActions(t *testing.T) {
	tests := []struct {
		a                           Affordance
		install, uninstall, visible bool
	}{
		{NotInstalled, true, false, false},
		{InstalledDifferentVersionSelected, true, true, true},
		{InstalledAndSelected, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.a.String(), func(t *testing.T) {
			assert.Equal(t, tt.install, tt.a.CanInstall())
			assert.Equal(t, tt.uninstall, tt.a.CanUninstall())
			assert.Equal(t, tt.visible, tt.a.ShowInstalled())
		})
	}
}

func TestPackageIsCopied(t *testing.T) {
	p := newPkg("1.0")
	tr := New(p)
	p.Versions[0] = "mutated"
	assert.Equal(t, "1.0", tr.Selected())
	assert.True(t, tr.Package().HasVersion("1.0"))
}
