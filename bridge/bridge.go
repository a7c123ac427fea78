// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package bridge is the sole channel between the render graph and
// externally-owned mutable state.
//
// Imports are captured once at frame start, exports are flushed in one
// batch strictly after all passes have executed. Getter, validator and
// setter callbacks run behind a panic boundary: one broken external source
// degrades to an absent value for the frame, it never crashes the frame.
// The graph never owns bridged values; it references them for the current
// frame only.
package bridge

import (
	"errors"
	"fmt"

	rendergraph "github.com/michael-h-patrianna/mdimension-sub006"
)

// Registration errors.
var (
	// ErrDuplicateImport is returned when an import id is registered twice.
	ErrDuplicateImport = errors.New("bridge: import id already registered")

	// ErrDuplicateExport is returned when an export id is registered twice.
	ErrDuplicateExport = errors.New("bridge: export id already registered")

	// ErrNilGetter is returned when an import has no getter.
	ErrNilGetter = errors.New("bridge: import getter is nil")

	// ErrNilSetter is returned when an export has no setter.
	ErrNilSetter = errors.New("bridge: export setter is nil")
)

// ImportConfig registers one externally-produced value.
type ImportConfig struct {
	// ID is the name passes look the value up under.
	ID string

	// Getter produces the value at frame start. A returned error or a
	// panic makes the value absent for the frame.
	Getter func() (any, error)

	// Validator optionally vets the value; returning false makes the
	// value absent for the frame.
	Validator func(any) bool
}

// ExportConfig registers one externally-consumed value.
type ExportConfig struct {
	// ID is the name passes queue the value under.
	ID string

	// ResourceID names the graph resource whose computation produces
	// the value, recorded for diagnostics and compile-time checks.
	ResourceID string

	// Setter applies the value at frame end.
	Setter func(any) error

	// Transform optionally converts the queued value before Setter.
	Transform func(any) any
}

// Bridge imports external values at frame start and exports computed
// values at frame end. Registration happens once, outside the frame loop;
// captured and queued state is per-frame and cleared at frame boundaries.
//
// Bridge is not safe for concurrent use; the execution loop is its only
// caller during a frame.
type Bridge struct {
	imports     map[string]ImportConfig
	importOrder []string
	exports     map[string]ExportConfig
	exportOrder []string

	captured map[string]any
	queued   map[string]any
}

// New creates an empty bridge.
func New() *Bridge {
	return &Bridge{
		imports:  make(map[string]ImportConfig),
		exports:  make(map[string]ExportConfig),
		captured: make(map[string]any),
		queued:   make(map[string]any),
	}
}

// RegisterImport adds an import source. Duplicate ids are a configuration
// error.
func (b *Bridge) RegisterImport(cfg ImportConfig) error {
	if cfg.Getter == nil {
		return fmt.Errorf("%w: %q", ErrNilGetter, cfg.ID)
	}
	if _, ok := b.imports[cfg.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateImport, cfg.ID)
	}
	b.imports[cfg.ID] = cfg
	b.importOrder = append(b.importOrder, cfg.ID)
	return nil
}

// RegisterExport adds an export sink. Duplicate ids are a configuration
// error.
func (b *Bridge) RegisterExport(cfg ExportConfig) error {
	if cfg.Setter == nil {
		return fmt.Errorf("%w: %q", ErrNilSetter, cfg.ID)
	}
	if _, ok := b.exports[cfg.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateExport, cfg.ID)
	}
	b.exports[cfg.ID] = cfg
	b.exportOrder = append(b.exportOrder, cfg.ID)
	return nil
}

// ImportIDs returns the registered import ids in registration order. The
// dependency compiler uses this to detect dangling references.
func (b *Bridge) ImportIDs() []string {
	out := make([]string, len(b.importOrder))
	copy(out, b.importOrder)
	return out
}

// BeginFrame clears the previous frame's captured and queued values.
func (b *Bridge) BeginFrame() {
	clear(b.captured)
	clear(b.queued)
}

// CaptureImports calls every registered getter once and caches the values
// that survive validation. Failures are logged and leave the value absent;
// they never propagate.
func (b *Bridge) CaptureImports() {
	for _, id := range b.importOrder {
		cfg := b.imports[id]
		value, ok := safeGet(cfg)
		if !ok {
			continue
		}
		b.captured[id] = value
	}
}

// Imported returns the value captured under id this frame.
func (b *Bridge) Imported(id string) (any, bool) {
	v, ok := b.captured[id]
	return v, ok
}

// HasImport reports whether id was captured this frame.
func (b *Bridge) HasImport(id string) bool {
	_, ok := b.captured[id]
	return ok
}

// QueueExport records a value to apply at frame end. Queueing the same id
// again within one frame replaces the earlier value (last-write-wins).
func (b *Bridge) QueueExport(id string, value any) {
	b.queued[id] = value
}

// FlushExports applies every queued value through its registered config,
// in export registration order. It runs strictly after pass execution, so
// no pass ever observes another pass's export as already applied. Queued
// ids with no registered config are logged and dropped.
func (b *Bridge) FlushExports() {
	for _, id := range b.exportOrder {
		value, ok := b.queued[id]
		if !ok {
			continue
		}
		cfg := b.exports[id]
		safeSet(cfg, value)
	}
	for id := range b.queued {
		if _, ok := b.exports[id]; !ok {
			rendergraph.Logger().Warn("export queued for unregistered id", "id", id)
		}
	}
}

// safeGet runs a getter and validator behind the panic boundary.
func safeGet(cfg ImportConfig) (value any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rendergraph.Logger().Warn("import getter panicked",
				"id", cfg.ID, "panic", r)
			value, ok = nil, false
		}
	}()
	v, err := cfg.Getter()
	if err != nil {
		rendergraph.Logger().Warn("import getter failed",
			"id", cfg.ID, "err", err)
		return nil, false
	}
	if cfg.Validator != nil && !cfg.Validator(v) {
		rendergraph.Logger().Warn("import rejected by validator", "id", cfg.ID)
		return nil, false
	}
	return v, true
}

// safeSet runs a transform and setter behind the panic boundary.
func safeSet(cfg ExportConfig, value any) {
	defer func() {
		if r := recover(); r != nil {
			rendergraph.Logger().Warn("export setter panicked",
				"id", cfg.ID, "panic", r)
		}
	}()
	if cfg.Transform != nil {
		value = cfg.Transform(value)
	}
	if err := cfg.Setter(value); err != nil {
		rendergraph.Logger().Warn("export setter failed",
			"id", cfg.ID, "err", err)
	}
}
