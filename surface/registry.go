// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/leaves"
	"github.com/gogpu/leaves/internal/gpu"
)

// SurfaceFactory creates a new Surface with the given options.
// Implementations should validate options and return descriptive errors.
type SurfaceFactory func(opts Options) (Surface, error)

// RegistryEntry represents a registered surface backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU backends
	//   - 10: immediate CPU backend
	//   - 5: CPU emulation of GPU backends
	Priority int

	// Factory creates surface instances.
	Factory SurfaceFactory

	// Available reports if the backend is available on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered surface backends.
//
// Example registration:
//
//	func init() {
//	    surface.Register("batched", 100, batchedFactory, batchedAvailable)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewSurface.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory SurfaceFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available backends sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns information about a specific backend.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// NewSurface creates a surface using the best available backend.
func NewSurface(opts Options) (Surface, error) {
	return globalRegistry.NewSurface(opts)
}

// NewSurfaceByName creates a surface using a specific named backend.
func NewSurfaceByName(name string, opts Options) (Surface, error) {
	return globalRegistry.NewSurfaceByName(name, opts)
}

// Open creates a surface by name from the global registry, honoring
// opts.AllowFallback.
func Open(name string, opts Options) (Surface, error) {
	return globalRegistry.Open(name, opts)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory SurfaceFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// NewSurface creates a surface using the best available backend, trying
// each in priority order. Every backend skipped because it failed is
// logged at Warn level.
func (r *Registry) NewSurface(opts Options) (Surface, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		s, err := r.NewSurfaceByName(name, opts)
		if err == nil {
			return s, nil
		}
		leaves.Logger().Warn("surface: backend failed, trying next", "backend", name, "err", err)
		lastErr = err
	}
	return nil, lastErr
}

// NewSurfaceByName creates a surface using a specific backend.
func (r *Registry) NewSurfaceByName(name string, opts Options) (Surface, error) {
	if opts.Width <= 0 {
		return nil, fmt.Errorf("%w: width must be > 0, got %d", leaves.ErrInvalidParameter, opts.Width)
	}

	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory(opts)
}

// Open creates the named surface. When the backend cannot be acquired and
// opts.AllowFallback is set, it logs a warning and returns an immediate
// surface instead. Without AllowFallback the error is returned as is.
func (r *Registry) Open(name string, opts Options) (Surface, error) {
	s, err := r.NewSurfaceByName(name, opts)
	if err == nil || !opts.AllowFallback || name == BackendImmediate {
		return s, err
	}
	if !errors.Is(err, leaves.ErrBackendUnavailable) {
		return nil, err
	}
	leaves.Logger().Warn("surface: falling back to immediate backend", "backend", name, "err", err)
	return r.NewSurfaceByName(BackendImmediate, opts)
}

// sortedNames returns backend names sorted by priority (highest first),
// ties broken by name. Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Errors.
var (
	// ErrNoBackendAvailable is returned when no surface backends are registered
	// or available on the current system.
	ErrNoBackendAvailable = errors.New("surface: no backend available")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

// Unwrap lets errors.Is match leaves.ErrBackendUnavailable.
func (e *BackendUnavailableError) Unwrap() error {
	return leaves.ErrBackendUnavailable
}

// init registers the built-in CPU backends.
func init() {
	Register(BackendImmediate, 10, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width), nil
	}, nil)
	Register(BackendBatchedSoft, 5, func(opts Options) (Surface, error) {
		s, err := NewGPUSurface(opts.Width, gpu.NewSoftContext())
		if err != nil {
			return nil, err
		}
		return s, nil
	}, nil)
}
