//go:build !windows

package executor

import (
	"os"
	"testing"
)

func TestIsRoot(t *testing.T) {
	result := IsRoot()

	if os.Geteuid() != 0 && result {
		t.Error("IsRoot() should return false when not running as root")
	}
	if os.Geteuid() == 0 && !result {
		t.Error("IsRoot() should return true when running as root")
	}
}
