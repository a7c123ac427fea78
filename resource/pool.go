// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"fmt"

	rendergraph "github.com/michael-h-patrianna/mdimension-sub006"
)

// Pool errors.
var (
	// ErrPoolDisposed is returned when operating on a disposed pool.
	ErrPoolDisposed = errors.New("resource: pool is disposed")

	// ErrUnknownTarget is returned when releasing an id the pool does
	// not hold.
	ErrUnknownTarget = errors.New("resource: unknown target")
)

// Target is a physically allocated resource handed out by a pool.
//
// The pool exclusively owns pool-allocated targets; passes must never
// destroy them. A target's dimensions are fixed until the pool resizes it.
type Target interface {
	// Desc returns the descriptor the target was allocated from.
	Desc() Desc

	// Width returns the current width in pixels.
	Width() int

	// Height returns the current height in pixels.
	Height() int

	// SizeBytes returns the estimated allocation size.
	SizeBytes() uint64
}

// MemoryStats summarises a pool's allocations, exposed through the frame
// statistics surface.
type MemoryStats struct {
	// UsedBytes is the estimated total allocation.
	UsedBytes uint64

	// TargetCount is the number of live targets.
	TargetCount int
}

// String returns a human-readable form of the stats.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%d KB, %d targets]", s.UsedBytes/1024, s.TargetCount)
}

// Pool allocates, resizes and frees targets from declarative descriptors.
//
// Invalidate and Dispose are deliberately distinct operations: after a
// backing-context loss the GPU memory is already gone, so handles are
// dropped without an explicit free; Dispose performs the explicit release.
type Pool interface {
	// Acquire returns the target for desc, allocating lazily on first
	// use. Acquiring an id twice returns the same target.
	Acquire(desc Desc) (Target, error)

	// Get returns an already-acquired target.
	Get(id string) (Target, bool)

	// Resize updates the viewport and reallocates every
	// viewport-relative target. It returns the ids whose backing
	// storage changed; their prior content is gone.
	Resize(viewportW, viewportH int) []string

	// Release frees a single target.
	Release(id string) error

	// Invalidate drops all backing handles without freeing, for use
	// after a backing-context loss.
	Invalidate()

	// Dispose explicitly releases everything. The pool is unusable
	// afterwards.
	Dispose()

	// MemoryStats reports current allocation totals.
	MemoryStats() MemoryStats
}

// logicalTarget is the CPU-side bookkeeping target. It tracks dimensions
// and size estimates without any GPU allocation, which is all headless runs
// and tests need.
type logicalTarget struct {
	desc   Desc
	width  int
	height int
}

func (t *logicalTarget) Desc() Desc        { return t.desc }
func (t *logicalTarget) Width() int        { return t.width }
func (t *logicalTarget) Height() int       { return t.height }
func (t *logicalTarget) SizeBytes() uint64 { return t.desc.SizeBytes(t.width, t.height) }

// LogicalPool is a Pool that performs bookkeeping only. It resolves size
// policies and tracks memory estimates but allocates no GPU storage.
type LogicalPool struct {
	viewportW int
	viewportH int
	targets   map[string]*logicalTarget
	order     []string
	disposed  bool
}

var _ Pool = (*LogicalPool)(nil)

// NewLogicalPool creates a logical pool for the given viewport.
func NewLogicalPool(viewportW, viewportH int) *LogicalPool {
	return &LogicalPool{
		viewportW: viewportW,
		viewportH: viewportH,
		targets:   make(map[string]*logicalTarget),
	}
}

// Acquire returns the target for desc, creating it on first use.
func (p *LogicalPool) Acquire(desc Desc) (Target, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if t, ok := p.targets[desc.ID]; ok {
		return t, nil
	}
	w, h := desc.Size.Resolve(p.viewportW, p.viewportH)
	t := &logicalTarget{desc: desc, width: w, height: h}
	p.targets[desc.ID] = t
	p.order = append(p.order, desc.ID)
	return t, nil
}

// Get returns an already-acquired target.
func (p *LogicalPool) Get(id string) (Target, bool) {
	t, ok := p.targets[id]
	if !ok {
		return nil, false
	}
	return t, true
}

// Resize updates the viewport and recomputes every viewport-relative
// target's dimensions, returning the ids that changed.
func (p *LogicalPool) Resize(viewportW, viewportH int) []string {
	p.viewportW, p.viewportH = viewportW, viewportH
	var changed []string
	for _, id := range p.order {
		t := p.targets[id]
		if !t.desc.Size.ViewportRelative() {
			continue
		}
		w, h := t.desc.Size.Resolve(viewportW, viewportH)
		if w != t.width || h != t.height {
			t.width, t.height = w, h
			changed = append(changed, id)
		}
	}
	return changed
}

// Release frees one target.
func (p *LogicalPool) Release(id string) error {
	if _, ok := p.targets[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	delete(p.targets, id)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

// Invalidate drops all targets without an explicit free. For a logical
// pool the two teardown paths coincide except that the pool stays usable.
func (p *LogicalPool) Invalidate() {
	p.targets = make(map[string]*logicalTarget)
	p.order = nil
	rendergraph.Logger().Info("logical pool invalidated")
}

// Dispose releases everything and marks the pool unusable.
func (p *LogicalPool) Dispose() {
	p.targets = nil
	p.order = nil
	p.disposed = true
}

// MemoryStats reports the estimated allocation totals.
func (p *LogicalPool) MemoryStats() MemoryStats {
	var s MemoryStats
	for _, t := range p.targets {
		s.UsedBytes += t.SizeBytes()
		s.TargetCount++
	}
	return s
}
