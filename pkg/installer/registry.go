package installer

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// platformDefaults lists, per OS, the installers tried when none is
// configured. The first available one wins.
var platformDefaults = map[string][]string{
	"windows": {"chocolatey", "winget", "scoop", "psgallery"},
	"linux":   {"apt", "psgallery"},
	"darwin":  {"psgallery"},
}

// Registry holds the installers known to this process.
type Registry struct {
	installers map[string]Installer
	preferred  string
	goos       string
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry for the running OS.
func NewRegistry() *Registry {
	return &Registry{
		installers: make(map[string]Installer),
		goos:       runtime.GOOS,
	}
}

// Register adds an installer, replacing one with the same name.
func (r *Registry) Register(inst Installer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.installers[inst.Name()] = inst
}

// Get returns an installer by name.
func (r *Registry) Get(name string) (Installer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.installers[name]
	return inst, ok
}

// All returns every registered installer sorted by name.
func (r *Registry) All() []Installer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Installer, 0, len(r.installers))
	for _, inst := range r.installers {
		all = append(all, inst)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}

// Available returns the registered installers whose tool is present.
func (r *Registry) Available() []Installer {
	var available []Installer
	for _, inst := range r.All() {
		if inst.IsAvailable() {
			available = append(available, inst)
		}
	}
	return available
}

// SetPreferred makes name the installer Default returns. An empty name
// restores platform detection.
func (r *Registry) SetPreferred(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preferred = name
}

// Default returns the preferred installer if one is set, otherwise the first
// available platform default. When none of the platform defaults is
// installed the first registered one is still returned so dry runs work.
func (r *Registry) Default() (Installer, error) {
	r.mu.RLock()
	preferred := r.preferred
	goos := r.goos
	r.mu.RUnlock()

	if preferred != "" {
		inst, ok := r.Get(preferred)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownInstaller, preferred)
		}
		return inst, nil
	}

	var fallback Installer
	for _, name := range platformDefaults[goos] {
		inst, ok := r.Get(name)
		if !ok {
			continue
		}
		if inst.IsAvailable() {
			return inst, nil
		}
		if fallback == nil {
			fallback = inst
		}
	}
	if fallback != nil {
		return fallback, nil
	}

	if available := r.Available(); len(available) > 0 {
		return available[0], nil
	}
	return nil, fmt.Errorf("%w: none registered for %s", ErrUnknownInstaller, goos)
}
