package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SortPolicy decides how a package's versions are ordered.
type SortPolicy string

const (
	// SortNone keeps the order the catalog reported.
	SortNone SortPolicy = "none"
	// SortNumeric compares dot-separated numeric segments. Lists where some
	// version has no numeric segment fall back to lexicographic order.
	SortNumeric SortPolicy = "numeric"
	// SortSemver orders by semantic version precedence, falling back to
	// SortNumeric when a version does not parse.
	SortSemver SortPolicy = "semver"
)

// ParseSortPolicy converts a config value into a SortPolicy. The empty
// string yields def.
func ParseSortPolicy(s string, def SortPolicy) (SortPolicy, error) {
	switch p := SortPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return def, nil
	case SortNone, SortNumeric, SortSemver:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortPolicy, s)
	}
}

// Sort returns a sorted copy of versions.
func (p SortPolicy) Sort(versions []string) []string {
	out := append([]string(nil), versions...)
	switch p {
	case SortNumeric:
		sortNumeric(out)
	case SortSemver:
		if !sortSemver(out) {
			sortNumeric(out)
		}
	}
	return out
}

func sortNumeric(versions []string) {
	keys := make(map[string][]int, len(versions))
	for _, v := range versions {
		k, ok := numericKey(v)
		if !ok {
			sort.Strings(versions)
			return
		}
		keys[v] = k
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return compareInts(keys[versions[i]], keys[versions[j]]) < 0
	})
}

// numericKey keeps the all-digit segments of v. It fails when none exist.
func numericKey(v string) ([]int, bool) {
	var key []int
	for _, seg := range strings.Split(v, ".") {
		if seg == "" || strings.TrimLeft(seg, "0123456789") != "" {
			continue
		}
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nil, false
		}
		key = append(key, n)
	}
	return key, len(key) > 0
}

func compareInts(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func sortSemver(versions []string) bool {
	parsed := make(map[string]*semver.Version, len(versions))
	for _, v := range versions {
		sv, err := semver.NewVersion(v)
		if err != nil {
			return false
		}
		parsed[v] = sv
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return parsed[versions[i]].LessThan(parsed[versions[j]])
	})
	return true
}
