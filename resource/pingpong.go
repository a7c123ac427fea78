// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"fmt"

	rendergraph "github.com/michael-h-patrianna/mdimension-sub006"
)

// InvalidateReason explains why temporal history was discarded.
type InvalidateReason uint8

const (
	// InvalidateFirstUse marks history that has never been written.
	InvalidateFirstUse InvalidateReason = iota

	// InvalidateResize marks history discarded because the backing
	// buffers were reallocated at a new size.
	InvalidateResize

	// InvalidateContextLoss marks history gone with the GPU context.
	InvalidateContextLoss

	// InvalidateExternal marks an explicit external signal, e.g. a
	// discontinuous camera change that makes reprojection meaningless.
	InvalidateExternal
)

// String returns a short identifier for the reason.
func (r InvalidateReason) String() string {
	switch r {
	case InvalidateFirstUse:
		return "first_use"
	case InvalidateResize:
		return "resize"
	case InvalidateContextLoss:
		return "context_loss"
	case InvalidateExternal:
		return "external"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// PingPong is two physical buffers behind one logical id, enabling safe
// "read previous / write current" semantics for temporal algorithms.
// During a frame, all reads resolve to the read side (previous frame's
// content) and all writes to the write side; Swap exchanges the roles
// after execution.
//
// The validity flag is deliberately independent of buffer existence:
// buffers exist from allocation, but their content is only meaningful
// after one full write-then-swap cycle. Reprojecting against semantically
// meaningless prior content is worse than having no prior content, so
// consumers must check Valid before sampling history.
type PingPong struct {
	id      string
	sides   [2]Target
	read    int
	valid   bool
	written bool // write side received output this frame
}

// NewPingPong pairs two targets under one logical id. Validity starts
// false (first use).
func NewPingPong(id string, a, b Target) *PingPong {
	return &PingPong{id: id, sides: [2]Target{a, b}}
}

// ID returns the logical id.
func (p *PingPong) ID() string { return p.id }

// Reader returns the side holding the previous frame's content.
func (p *PingPong) Reader() Target { return p.sides[p.read] }

// Writer returns the side receiving the current frame's output.
func (p *PingPong) Writer() Target { return p.sides[1-p.read] }

// MarkWritten records that the write side received output this frame.
// Called by the execution loop when the producing pass completes.
func (p *PingPong) MarkWritten() { p.written = true }

// Swap exchanges the read/write roles after frame execution. History
// becomes valid once a full write-then-swap cycle has completed.
func (p *PingPong) Swap() {
	p.read = 1 - p.read
	if p.written {
		p.valid = true
	}
	p.written = false
}

// Valid reports whether the read side holds meaningful history.
func (p *PingPong) Valid() bool { return p.valid }

// Invalidate resets the validity flag. Buffer contents are untouched;
// they are simply no longer trusted.
func (p *PingPong) Invalidate(reason InvalidateReason) {
	if p.valid || p.written {
		rendergraph.Logger().Debug("temporal history invalidated",
			"resource", p.id, "reason", reason.String())
	}
	p.valid = false
	p.written = false
}

// SideIDs returns the physical ids backing the pair, for pool teardown.
func (p *PingPong) SideIDs() [2]string {
	return [2]string{p.sides[0].Desc().ID, p.sides[1].Desc().ID}
}
