// Package platform reports which operating system and Linux distribution
// nexus runs on, so only installers that fit the system are offered.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Info describes the running system.
type Info struct {
	OS           string // runtime.GOOS
	Arch         string
	Distribution string   // os-release ID (e.g., "ubuntu"); "windows" or "macos" elsewhere
	Family       []string // os-release ID_LIKE
	PrettyName   string
	Version      string
}

// Detect inspects the running system. It never fails; fields it cannot
// determine are left empty.
func Detect() *Info {
	info := &Info{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	switch runtime.GOOS {
	case "linux":
		detectLinux(info)
	case "darwin":
		info.Distribution = "macos"
		info.PrettyName = "macOS"
	case "windows":
		info.Distribution = "windows"
		info.PrettyName = "Windows"
	default:
		info.PrettyName = runtime.GOOS
	}

	return info
}

// MatchesDistro reports whether the distribution or its ID_LIKE family is
// one of distros.
func (i *Info) MatchesDistro(distros ...string) bool {
	for _, d := range distros {
		if i.Distribution == d {
			return true
		}
		for _, family := range i.Family {
			if family == d {
				return true
			}
		}
	}
	return false
}

// HasAPT reports whether the system is Debian based.
func (i *Info) HasAPT() bool {
	return i.OS == "linux" && i.MatchesDistro("debian", "ubuntu")
}

func (i *Info) String() string {
	name := i.PrettyName
	if name == "" {
		name = i.OS
	}
	if i.Version != "" && !strings.Contains(name, i.Version) {
		name += " " + i.Version
	}
	return fmt.Sprintf("%s (%s)", name, i.Arch)
}
