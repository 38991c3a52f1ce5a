//go:build !windows

package executor

import (
	"os"
	"os/exec"
)

func isRoot() bool {
	return os.Geteuid() == 0
}

func hasSudo() bool {
	_, err := exec.LookPath("sudo")
	return err == nil
}
