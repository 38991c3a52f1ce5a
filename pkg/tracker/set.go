package tracker

import "nexus/pkg/catalog"

// Set keeps one Tracker per package name, so state survives re-filtering
// and catalog reloads.
type Set struct {
	trackers map[string]*Tracker

	// parked holds installed packages missing from the latest snapshot.
	parked map[string]*Tracker
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{
		trackers: make(map[string]*Tracker),
		parked:   make(map[string]*Tracker),
	}
}

// Sync makes the set match pkgs. Install state always carries over, even
// when the installed version is no longer listed. The selection carries
// over while the package still offers it. An installed package missing
// from pkgs is parked until a later snapshot lists it again.
func (s *Set) Sync(pkgs []catalog.Package) {
	next := make(map[string]*Tracker, len(pkgs))
	for _, p := range pkgs {
		next[p.Name] = s.carry(p)
	}

	for name, t := range s.trackers {
		if _, ok := next[name]; !ok && t.has {
			s.parked[name] = t
		}
	}
	for name := range next {
		delete(s.parked, name)
	}
	s.trackers = next
}

func (s *Set) carry(p catalog.Package) *Tracker {
	fresh := New(p)
	old, ok := s.trackers[p.Name]
	if !ok {
		old, ok = s.parked[p.Name]
	}
	if !ok {
		return fresh
	}

	fresh.installed = old.installed
	fresh.has = old.has
	switch {
	case fresh.pkg.HasVersion(old.selected):
		fresh.selected = old.selected
	case old.has && fresh.pkg.HasVersion(old.installed):
		fresh.selected = old.installed
	}
	return fresh
}

// Get returns the tracker for name. Parked trackers are found too, so an
// outcome that lands after its package dropped out is still recorded.
func (s *Set) Get(name string) (*Tracker, bool) {
	if t, ok := s.trackers[name]; ok {
		return t, true
	}
	t, ok := s.parked[name]
	return t, ok
}

// Len returns the number of packages in the current snapshot.
func (s *Set) Len() int {
	return len(s.trackers)
}

// Parked returns how many installed packages the current snapshot lacks.
func (s *Set) Parked() int {
	return len(s.parked)
}

// InstalledCount returns how many packages of the current snapshot are
// installed.
func (s *Set) InstalledCount() int {
	n := 0
	for _, t := range s.trackers {
		if t.has {
			n++
		}
	}
	return n
}
