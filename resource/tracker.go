// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"fmt"

	rendergraph "github.com/michael-h-patrianna/mdimension-sub006"
)

// Tracker errors.
var (
	// ErrDuplicateResource is returned when registering an id twice.
	ErrDuplicateResource = errors.New("resource: id already registered")
)

// DefaultHistoryCap is the ring-buffer capacity for per-resource transition
// history when debug history is enabled.
const DefaultHistoryCap = 100

// FrameResetPass is the synthetic pass id recorded for the per-frame reset
// of a resource back to Created.
const FrameResetPass = "frame_reset"

// HistoryEntry records one state transition of a resource.
type HistoryEntry struct {
	Frame uint64
	From  State
	To    State
	Pass  string
}

// Info is a snapshot of a resource's tracking state.
type Info struct {
	State             State
	LastModifiedBy    string
	LastModifiedFrame uint64
}

// entry is the tracker's per-resource record.
type entry struct {
	state             State
	lastModifiedBy    string
	lastModifiedFrame uint64
	writtenFrame      uint64 // frame of the most recent WriteTarget transition, 0 if never
	history           []HistoryEntry
}

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	// DebugHistory enables the bounded per-resource transition history.
	// Disabled by default; history recording costs an append per transition.
	DebugHistory bool

	// HistoryCap bounds the per-resource history ring buffer.
	// If 0, DefaultHistoryCap is used.
	HistoryCap int
}

// Tracker runs the per-resource lifecycle state machine.
//
// The tracker enforces the transient resource model: BeginFrame resets every
// non-disposed resource to Created, so every resource, persistent or not,
// must be observed as written-then-read within each frame. Failed
// transitions are no-ops; the returned [ValidationResult] carries the
// structured error.
//
// Tracker is NOT safe for concurrent use. The execution loop is the single
// writer, per the engine's single-threaded frame model.
type Tracker struct {
	opts    TrackerOptions
	frame   uint64
	entries map[string]*entry
	order   []string // registration order, for deterministic iteration
}

// NewTracker creates an empty tracker.
func NewTracker(opts TrackerOptions) *Tracker {
	if opts.HistoryCap <= 0 {
		opts.HistoryCap = DefaultHistoryCap
	}
	return &Tracker{
		opts:    opts,
		entries: make(map[string]*entry),
	}
}

// Register adds an id in state Created. Registering an existing id is a
// configuration error and fails hard.
func (t *Tracker) Register(id string) error {
	if _, ok := t.entries[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateResource, id)
	}
	t.entries[id] = &entry{state: Created}
	t.order = append(t.order, id)
	return nil
}

// Frame returns the current frame number.
func (t *Tracker) Frame() uint64 { return t.frame }

// BeginFrame advances the frame counter and resets every non-disposed
// resource to Created. A synthetic frame_reset history entry is recorded
// only when the reset actually changes state. Returns the new frame number.
func (t *Tracker) BeginFrame() uint64 {
	t.frame++
	for _, id := range t.order {
		e := t.entries[id]
		if e.state == Disposed || e.state == Created {
			continue
		}
		from := e.state
		e.state = Created
		e.lastModifiedBy = FrameResetPass
		e.lastModifiedFrame = t.frame
		t.record(e, HistoryEntry{Frame: t.frame, From: from, To: Created, Pass: FrameResetPass})
	}
	return t.frame
}

// Transition validates and, if legal, applies a state change requested by
// passID. On violation the state is left unchanged and the result carries a
// structured error naming the valid alternatives.
func (t *Tracker) Transition(id string, to State, passID string) ValidationResult {
	e, ok := t.entries[id]
	if !ok {
		return invalid(&StateError{
			Kind:     ViolationUnregistered,
			Resource: id,
			Pass:     passID,
			Detail:   "not registered",
		})
	}
	if e.state == Disposed {
		return invalid(&StateError{
			Kind:     ViolationDisposed,
			Resource: id,
			Pass:     passID,
			From:     Disposed,
			To:       to,
			Detail:   "resource is disposed; no transition leaves Disposed",
		})
	}
	if !legal(e.state, to) {
		return invalid(&StateError{
			Kind:     ViolationInvalidTransition,
			Resource: id,
			Pass:     passID,
			From:     e.state,
			To:       to,
			Allowed:  legalTransitions[e.state],
			Detail:   fmt.Sprintf("%s -> %s not allowed, valid: %v", e.state, to, legalTransitions[e.state]),
		})
	}

	from := e.state
	e.state = to
	e.lastModifiedBy = passID
	e.lastModifiedFrame = t.frame
	if to == WriteTarget {
		e.writtenFrame = t.frame
	}
	t.record(e, HistoryEntry{Frame: t.frame, From: from, To: to, Pass: passID})
	rendergraph.Logger().Debug("resource transition",
		"resource", id, "from", from.String(), "to", to.String(), "pass", passID)
	return okResult
}

// CanRead reports whether id may be sampled right now. True only in
// ShaderRead.
func (t *Tracker) CanRead(id string) bool {
	e, ok := t.entries[id]
	return ok && e.state == ShaderRead
}

// CanWrite reports whether id may be written right now. True in Created,
// WriteTarget and ShaderRead; false once disposed.
func (t *Tracker) CanWrite(id string) bool {
	e, ok := t.entries[id]
	if !ok {
		return false
	}
	switch e.state {
	case Created, WriteTarget, ShaderRead:
		return true
	default:
		return false
	}
}

// ValidateReadAfterWrite checks whether readerID may read id this frame.
// The four failure cases carry distinct messages so callers can choose
// between hard failure and silent fallback:
//
//   - unregistered id
//   - never written this frame (Created)
//   - still mid-write (WriteTarget)
//   - disposed
func (t *Tracker) ValidateReadAfterWrite(id, readerID string) ValidationResult {
	e, ok := t.entries[id]
	if !ok {
		return invalid(&StateError{
			Kind:     ViolationUnregistered,
			Resource: id,
			Pass:     readerID,
			Detail:   fmt.Sprintf("read by %q but id was never registered", readerID),
		})
	}
	switch e.state {
	case ShaderRead:
		return okResult
	case Created:
		detail := fmt.Sprintf("never written; reader %q must fall back", readerID)
		if e.writtenFrame > 0 {
			detail = fmt.Sprintf("not written this frame (last write frame %d); reader %q must fall back",
				e.writtenFrame, readerID)
		}
		return invalid(&StateError{
			Kind:     ViolationNotWritten,
			Resource: id,
			Pass:     readerID,
			From:     Created,
			Detail:   detail,
		})
	case WriteTarget:
		return invalid(&StateError{
			Kind:     ViolationMidWrite,
			Resource: id,
			Pass:     readerID,
			From:     WriteTarget,
			Detail:   fmt.Sprintf("still being written by %q; read would observe partial data", e.lastModifiedBy),
		})
	default: // Disposed
		return invalid(&StateError{
			Kind:     ViolationDisposed,
			Resource: id,
			Pass:     readerID,
			From:     Disposed,
			Detail:   "resource is disposed",
		})
	}
}

// State returns the current state of id.
func (t *Tracker) State(id string) (State, bool) {
	e, ok := t.entries[id]
	if !ok {
		return 0, false
	}
	return e.state, true
}

// Info returns a snapshot of id's tracking record.
func (t *Tracker) Info(id string) (Info, bool) {
	e, ok := t.entries[id]
	if !ok {
		return Info{}, false
	}
	return Info{
		State:             e.state,
		LastModifiedBy:    e.lastModifiedBy,
		LastModifiedFrame: e.lastModifiedFrame,
	}, true
}

// History returns a copy of id's transition history. Empty unless
// DebugHistory is enabled.
func (t *Tracker) History(id string) []HistoryEntry {
	e, ok := t.entries[id]
	if !ok || len(e.history) == 0 {
		return nil
	}
	out := make([]HistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// IDs returns all registered ids in registration order.
func (t *Tracker) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// record appends a history entry, dropping the oldest past the cap.
func (t *Tracker) record(e *entry, h HistoryEntry) {
	if !t.opts.DebugHistory {
		return
	}
	e.history = append(e.history, h)
	if len(e.history) > t.opts.HistoryCap {
		e.history = e.history[len(e.history)-t.opts.HistoryCap:]
	}
}
