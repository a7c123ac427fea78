// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"errors"
	"fmt"
	"time"

	"github.com/michael-h-patrianna/mdimension-sub006/frame"
	"github.com/michael-h-patrianna/mdimension-sub006/resource"
)

// PassContext errors.
var (
	// ErrUndeclaredAccess is returned when a pass looks up a resource
	// it did not declare.
	ErrUndeclaredAccess = errors.New("graph: access not declared by pass")
)

// PassContext is handed to a pass's Execute function for one frame. It is
// the pass's only window into the graph: resource lookup (resolving
// automatically to the correct side of a ping-pong pair), the frozen frame
// context, bridge imports, and the export queue.
type PassContext struct {
	exec    *Executor
	pass    *Pass
	snap    *frame.Context
	gpuTime time.Duration
}

// Frame returns the frozen frame snapshot. Passes read all external state
// from here, never from live stores.
func (c *PassContext) Frame() *frame.Context { return c.snap }

// Input resolves a declared input resource for reading. For a ping-pong
// resource the returned target is the previous frame's side.
//
// The validation result carries the read-hazard check: not-written,
// mid-write, disposed, or (for ping-pong) history not yet valid. An
// invalid result is an expected steady-state condition — first frame,
// disabled upstream pass — and the pass must fall back or pass through,
// not fail the frame. The target may still be returned alongside an
// invalid result when backing storage exists.
func (c *PassContext) Input(id string) (resource.Target, resource.ValidationResult) {
	if !c.pass.declaresInput(id) {
		return nil, resource.ValidationResult{Valid: false, Err: &resource.StateError{
			Kind:     resource.ViolationUnregistered,
			Resource: id,
			Pass:     c.pass.ID,
			Detail:   fmt.Sprintf("pass %q did not declare %q as an input", c.pass.ID, id),
		}}
	}
	if pair, ok := c.exec.pairs[id]; ok {
		if !pair.Valid() {
			return pair.Reader(), resource.ValidationResult{Valid: false, Err: &resource.StateError{
				Kind:     resource.ViolationNotWritten,
				Resource: id,
				Pass:     c.pass.ID,
				Detail:   "temporal history not yet valid; fall back to current-frame data",
			}}
		}
		return pair.Reader(), resource.ValidationResult{Valid: true}
	}

	res := c.exec.tracker.ValidateReadAfterWrite(id, c.pass.ID)
	t, _ := c.exec.pool.Get(id)
	return t, res
}

// Output resolves a declared output resource for writing. For a ping-pong
// resource the returned target is the current frame's write side.
func (c *PassContext) Output(id string) (resource.Target, error) {
	if !c.pass.declaresOutput(id) {
		return nil, fmt.Errorf("%w: pass %q, resource %q", ErrUndeclaredAccess, c.pass.ID, id)
	}
	if pair, ok := c.exec.pairs[id]; ok {
		return pair.Writer(), nil
	}
	t, ok := c.exec.pool.Get(id)
	if !ok {
		return nil, fmt.Errorf("graph: resource %q has no backing target", id)
	}
	return t, nil
}

// TemporalValid reports whether a ping-pong resource's history has
// completed a full write-then-swap cycle. Always false for resources
// that are not ping-pong buffered.
func (c *PassContext) TemporalValid(id string) bool {
	pair, ok := c.exec.pairs[id]
	return ok && pair.Valid()
}

// Import returns a bridge value captured at frame start.
func (c *PassContext) Import(id string) (any, bool) {
	return c.exec.bridge.Imported(id)
}

// Export queues a value for the bridge to apply after all passes have
// executed. Queueing the same id twice in one frame keeps the last value.
func (c *PassContext) Export(id string, value any) {
	c.exec.bridge.QueueExport(id, value)
}

// SetGPUTime records the pass's measured GPU time for the frame
// statistics. Backends without timer queries simply never call it.
func (c *PassContext) SetGPUTime(d time.Duration) { c.gpuTime = d }
