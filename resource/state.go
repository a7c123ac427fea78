// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import "fmt"

// State is the lifecycle state of a resource within one frame.
type State uint8

const (
	// Created is the initial state, and the state every non-disposed
	// resource returns to at each frame boundary. A Created resource has
	// not been written this frame and must not be read.
	Created State = iota

	// WriteTarget means a pass is currently writing the resource.
	WriteTarget

	// ShaderRead means the resource holds completed output and may be
	// sampled by downstream passes.
	ShaderRead

	// Disposed is terminal. No transition leaves it.
	Disposed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case WriteTarget:
		return "WriteTarget"
	case ShaderRead:
		return "ShaderRead"
	case Disposed:
		return "Disposed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// legalTransitions is the full transition table. A nil entry means the
// state is terminal.
var legalTransitions = map[State][]State{
	Created:     {WriteTarget, Disposed},
	WriteTarget: {ShaderRead, WriteTarget, Disposed},
	ShaderRead:  {WriteTarget, ShaderRead, Disposed},
	Disposed:    nil,
}

// legal reports whether from -> to is an allowed transition.
func legal(from, to State) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ViolationKind classifies a state-machine validation failure.
type ViolationKind uint8

const (
	// ViolationInvalidTransition is a transition not present in the table.
	ViolationInvalidTransition ViolationKind = iota

	// ViolationUnregistered is an access to an id that was never registered.
	ViolationUnregistered

	// ViolationNotWritten is a read of a resource nothing wrote this frame.
	ViolationNotWritten

	// ViolationMidWrite is a read of a resource still being written.
	ViolationMidWrite

	// ViolationDisposed is any access to a disposed resource.
	ViolationDisposed

	// ViolationDuplicate is a second registration of an existing id.
	ViolationDuplicate
)

// String returns a short identifier for the violation kind.
func (k ViolationKind) String() string {
	switch k {
	case ViolationInvalidTransition:
		return "invalid_transition"
	case ViolationUnregistered:
		return "unregistered"
	case ViolationNotWritten:
		return "not_written"
	case ViolationMidWrite:
		return "mid_write"
	case ViolationDisposed:
		return "disposed"
	case ViolationDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// StateError is the structured error carried by a failed [ValidationResult].
// It records enough context for a caller to decide between warn-and-skip in
// production and hard failure in development.
type StateError struct {
	// Kind classifies the failure.
	Kind ViolationKind

	// Resource is the id the access targeted.
	Resource string

	// Pass is the pass that requested the access, if known.
	Pass string

	// From and To describe the attempted transition, when Kind is
	// ViolationInvalidTransition.
	From, To State

	// Allowed lists the valid alternatives from the current state.
	Allowed []State

	// Detail is the human-readable description.
	Detail string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("resource %q: %s: %s", e.Resource, e.Kind, e.Detail)
}

// ValidationResult is the structured outcome of a requested transition or
// read validation. A failed result never mutates tracker state.
type ValidationResult struct {
	Valid bool
	Err   *StateError
}

// ok is the shared success result.
var okResult = ValidationResult{Valid: true}

func invalid(err *StateError) ValidationResult {
	return ValidationResult{Valid: false, Err: err}
}
