// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package recovery coordinates GPU context-loss handling. Components
// owning device objects register a handler; when the backing context is
// lost or restored, the registry walks the handlers in priority order so
// that low-level pools run before the passes layered on top of them.
package recovery

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateHandler is returned when a handler name is registered twice.
var ErrDuplicateHandler = errors.New("recovery: duplicate handler")

// Handler reacts to context lifecycle events. Either callback may be nil
// when a component only cares about one direction.
type Handler struct {
	// Name is the unique identifier for this handler.
	Name string

	// Priority determines invocation order (higher runs first).
	// Standard priorities:
	//   - 100: resource pools and allocators
	//   - 50: render passes
	//   - 10: diagnostics and overlays
	Priority int

	// OnContextLost drops device handles without freeing them. The
	// underlying memory is already gone; freeing would double-release.
	OnContextLost func() error

	// OnContextRestored recreates device objects against the new context.
	OnContextRestored func() error
}

// Registry manages registered context-loss handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Handler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]*Handler)}
}

// Register adds a handler. Names must be unique.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handlers == nil {
		r.handlers = make(map[string]*Handler)
	}
	if _, ok := r.handlers[h.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateHandler, h.Name)
	}
	hc := h
	r.handlers[h.Name] = &hc
	return nil
}

// Unregister removes a handler by name. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.handlers, name)
}

// Names returns the registered handler names in invocation order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sorted()
	names := make([]string, len(sorted))
	for i, h := range sorted {
		names[i] = h.Name
	}
	return names
}

// ContextLost invokes every handler's loss callback in priority order.
// A failing handler does not stop the walk; all errors are joined.
func (r *Registry) ContextLost() error {
	return r.walk(func(h *Handler) error {
		if h.OnContextLost == nil {
			return nil
		}
		return h.OnContextLost()
	})
}

// ContextRestored invokes every handler's restore callback in priority
// order. A failing handler does not stop the walk; all errors are joined.
func (r *Registry) ContextRestored() error {
	return r.walk(func(h *Handler) error {
		if h.OnContextRestored == nil {
			return nil
		}
		return h.OnContextRestored()
	})
}

func (r *Registry) walk(fn func(*Handler) error) error {
	r.mu.RLock()
	sorted := r.sorted()
	r.mu.RUnlock()

	var errs []error
	for _, h := range sorted {
		if err := fn(h); err != nil {
			errs = append(errs, fmt.Errorf("recovery: handler %q: %w", h.Name, err))
		}
	}
	return errors.Join(errs...)
}

// sorted returns handlers by priority (highest first), ties broken by
// name for a deterministic walk. Must be called with lock held.
func (r *Registry) sorted() []*Handler {
	if len(r.handlers) == 0 {
		return nil
	}

	sorted := make([]*Handler, 0, len(r.handlers))
	for _, h := range r.handlers {
		sorted = append(sorted, h)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
