// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"errors"
	"fmt"

	"github.com/michael-h-patrianna/mdimension-sub006/frame"
)

// Pass contract errors.
var (
	// ErrEmptyPassID is returned when a pass has no id.
	ErrEmptyPassID = errors.New("graph: pass id is empty")

	// ErrNilExecute is returned when a pass has no execute function.
	ErrNilExecute = errors.New("graph: pass execute function is nil")

	// ErrDuplicatePass is returned when adding a pass id twice.
	ErrDuplicatePass = errors.New("graph: pass id already added")
)

// AccessMode declares how a pass touches a resource.
type AccessMode uint8

const (
	// Read samples the resource.
	Read AccessMode = iota

	// Write renders into the resource.
	Write

	// ReadWrite does both; on the same id this is the self-read pattern
	// used by temporal accumulation and forces ping-pong buffering.
	ReadWrite
)

// String returns a human-readable name for the mode.
func (m AccessMode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Access declares one resource dependency of a pass. Accesses are declared
// once at pass construction and immutable thereafter.
type Access struct {
	// Resource is the stable id of the resource or bridge import.
	Resource string

	// Mode is the access direction.
	Mode AccessMode

	// Attachment selects an attachment of a multi-target resource.
	Attachment int

	// Alias is an optional binding name the pass's shader uses for the
	// resource.
	Alias string

	// External marks an input satisfied by the bridge instead of by an
	// upstream pass.
	External bool
}

// Pass is a stable-identity unit of per-frame GPU work.
//
// A pass is created once when added to the graph and invoked every frame
// unless disabled. Dispose is the symmetric teardown hook, called on
// removal from the graph or graph disposal; it must release resources the
// pass privately owns (its shader program, fixed geometry) as opposed to
// pool-managed targets, which the pool owns exclusively.
type Pass struct {
	// ID is the stable identity. Required.
	ID string

	// Name is the human-readable label; defaults to ID.
	Name string

	// Inputs and Outputs are the declared accesses, in binding order.
	Inputs  []Access
	Outputs []Access

	// Enabled, when non-nil, gates execution per frame. It is evaluated
	// against the frozen frame snapshot only, never live state, so a
	// test can construct a snapshot and assert the predicate directly.
	Enabled func(*frame.Context) bool

	// Priority breaks topological-order ties; higher runs earlier.
	Priority int

	// Execute performs the pass's work for one frame.
	Execute func(*PassContext) error

	// Dispose releases privately-owned resources. May be nil.
	Dispose func()
}

// validate checks the construction-time contract.
func (p *Pass) validate() error {
	if p == nil || p.ID == "" {
		return ErrEmptyPassID
	}
	if p.Execute == nil {
		return fmt.Errorf("%w: %q", ErrNilExecute, p.ID)
	}
	return nil
}

// label returns Name, falling back to ID.
func (p *Pass) label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// reads returns the ids p reads, including the read half of ReadWrite.
func (p *Pass) reads() []string {
	var ids []string
	for _, a := range p.Inputs {
		if a.Mode == Read || a.Mode == ReadWrite {
			ids = append(ids, a.Resource)
		}
	}
	for _, a := range p.Outputs {
		if a.Mode == ReadWrite {
			ids = append(ids, a.Resource)
		}
	}
	return ids
}

// writes returns the ids p writes, including the write half of ReadWrite.
func (p *Pass) writes() []string {
	var ids []string
	for _, a := range p.Outputs {
		if a.Mode == Write || a.Mode == ReadWrite {
			ids = append(ids, a.Resource)
		}
	}
	for _, a := range p.Inputs {
		if a.Mode == ReadWrite {
			ids = append(ids, a.Resource)
		}
	}
	return ids
}

// declaresInput reports whether p declared a read of id. A ReadWrite
// access grants the read regardless of which list declares it, matching
// the self-read shape where the access lives in Outputs.
func (p *Pass) declaresInput(id string) bool {
	for _, a := range p.Inputs {
		if a.Resource == id {
			return true
		}
	}
	for _, a := range p.Outputs {
		if a.Resource == id && a.Mode == ReadWrite {
			return true
		}
	}
	return false
}

// declaresOutput reports whether p declared a write of id, including a
// ReadWrite access declared in Inputs.
func (p *Pass) declaresOutput(id string) bool {
	for _, a := range p.Outputs {
		if a.Resource == id {
			return true
		}
	}
	for _, a := range p.Inputs {
		if a.Resource == id && a.Mode == ReadWrite {
			return true
		}
	}
	return false
}
