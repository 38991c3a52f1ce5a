package platform

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const osReleasePath = "/etc/os-release"

// releaseFiles identify distributions without os-release.
var releaseFiles = []struct {
	path   string
	distro string
}{
	{"/etc/debian_version", "debian"},
	{"/etc/fedora-release", "fedora"},
	{"/etc/redhat-release", "rhel"},
	{"/etc/arch-release", "arch"},
	{"/etc/alpine-release", "alpine"},
}

func detectLinux(info *Info) {
	if f, err := os.Open(osReleasePath); err == nil {
		defer f.Close()
		if parseOSRelease(f, info) == nil && info.Distribution != "" {
			return
		}
	}

	for _, rf := range releaseFiles {
		if _, err := os.Stat(rf.path); err == nil {
			info.Distribution = rf.distro
			info.PrettyName = rf.distro + " Linux"
			return
		}
	}

	info.Distribution = "unknown"
	info.PrettyName = "Unknown Linux"
}

// parseOSRelease reads KEY=value lines in the os-release format.
func parseOSRelease(r io.Reader, info *Info) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		switch strings.TrimSpace(key) {
		case "ID":
			info.Distribution = value
		case "ID_LIKE":
			info.Family = strings.Fields(value)
		case "VERSION_ID":
			info.Version = value
		case "PRETTY_NAME":
			info.PrettyName = value
		}
	}
	return scanner.Err()
}
