// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/framegraph/gpu"
)

// Priority order for backend selection (first available wins).
// Hardware drivers come first; headless is the fallback.
var backendPriority = []string{BackendVulkan, BackendWebGPU, BackendHeadless}

var factories = gpucontext.NewRegistry[Factory](gpucontext.WithPriority(backendPriority...))

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// Registering a name twice panics.
func Register(name string, factory Factory) {
	if factory == nil {
		panic("backend: Register factory is nil")
	}
	if factories.Has(name) {
		panic("backend: Register called twice for backend " + name)
	}
	factories.Register(name, func() Factory { return factory })
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	factories.Unregister(name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	names := factories.Available()
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return factories.Has(name)
}

// Default returns the name of the best available backend, or "" if none
// is registered.
func Default() string {
	return factories.BestName()
}

// Open opens the named backend. An empty name opens Default().
func Open(name string, opts Options) (gpu.Backend, error) {
	if name == "" {
		name = Default()
	}
	factory := factories.Get(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	return factory(opts)
}
