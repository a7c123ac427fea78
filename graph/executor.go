// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"errors"
	"fmt"
	"time"

	rendergraph "github.com/michael-h-patrianna/mdimension-sub006"
	"github.com/michael-h-patrianna/mdimension-sub006/bridge"
	"github.com/michael-h-patrianna/mdimension-sub006/frame"
	"github.com/michael-h-patrianna/mdimension-sub006/recovery"
	"github.com/michael-h-patrianna/mdimension-sub006/resource"
)

// Executor errors.
var (
	// ErrClosed is returned when running a closed executor.
	ErrClosed = errors.New("graph: executor is closed")

	// ErrUnknownPass is returned when removing a pass id that was never
	// added.
	ErrUnknownPass = errors.New("graph: unknown pass")
)

// Phase is the execution loop's position within a frame.
type Phase uint8

const (
	// PhaseIdle is between frames.
	PhaseIdle Phase = iota

	// PhaseCapturingContext covers counter advance, state reset,
	// snapshot capture and import capture.
	PhaseCapturingContext

	// PhaseExecutingPasses covers sequential pass execution.
	PhaseExecutingPasses

	// PhaseFlushingExports covers the export batch and ping-pong swap.
	PhaseFlushingExports
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseCapturingContext:
		return "CapturingContext"
	case PhaseExecutingPasses:
		return "ExecutingPasses"
	case PhaseFlushingExports:
		return "FlushingExports"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// Options configures an Executor.
type Options struct {
	// StrictMode turns resource-state violations into hard frame
	// failures instead of warn-and-continue. Intended for development
	// and tests; production frames degrade gracefully.
	StrictMode bool

	// Debug enables compilation logging and state-machine history.
	Debug bool

	// ValidateBindings enables binding declaration checks at compile.
	ValidateBindings bool

	// AutoInvalidateOnCut invalidates all temporal history when the
	// captured camera state is discontinuous with the previous frame.
	// Enabled by default through New.
	AutoInvalidateOnCut bool
}

// Executor owns the per-frame lifecycle: counter advance, state reset,
// snapshot capture, import capture, sequential pass execution, export
// flush, ping-pong swap.
//
// The executor is single-threaded by design: exactly one pass runs at a
// time and no pass yields mid-execution. There is no cancellation or
// timeout; a hung pass hangs the frame. The managers it owns (tracker,
// pairs) are ordinary instances, constructed here, never ambient globals.
type Executor struct {
	opts Options

	pool     resource.Pool
	tracker  *resource.Tracker
	bridge   *bridge.Bridge
	capturer *frame.Capturer
	recovery *recovery.Registry

	descs     map[string]resource.Desc
	descOrder []string
	passes    []*Pass
	compiled  *CompiledGraph
	dirty     bool

	pairs map[string]*resource.PingPong

	frameNumber uint64
	phase       Phase
	stats       FrameStats
	closed      bool
}

// New creates an executor over a pool, a bridge and a snapshot capturer.
// The bridge and capturer may be nil for graphs that do not use them;
// the executor substitutes empty instances.
func New(pool resource.Pool, b *bridge.Bridge, capturer *frame.Capturer, opts Options) *Executor {
	if b == nil {
		b = bridge.New()
	}
	if capturer == nil {
		capturer = frame.NewCapturer(frame.Sources{})
	}
	return &Executor{
		opts:     opts,
		pool:     pool,
		tracker:  resource.NewTracker(resource.TrackerOptions{DebugHistory: opts.Debug}),
		bridge:   b,
		capturer: capturer,
		recovery: recovery.NewRegistry(),
		descs:    make(map[string]resource.Desc),
		pairs:    make(map[string]*resource.PingPong),
		dirty:    true,
	}
}

// Tracker exposes the resource state machine, mainly for tests and
// diagnostics overlays.
func (e *Executor) Tracker() *resource.Tracker { return e.tracker }

// Bridge returns the external bridge.
func (e *Executor) Bridge() *bridge.Bridge { return e.bridge }

// Recovery returns the context-loss recovery registry. Passes owning
// private GPU objects register handlers here.
func (e *Executor) Recovery() *recovery.Registry { return e.recovery }

// Phase returns the loop's current position within the frame.
func (e *Executor) Phase() Phase { return e.phase }

// Frame returns the current frame number.
func (e *Executor) Frame() uint64 { return e.frameNumber }

// Stats returns the statistics of the most recently completed frame.
func (e *Executor) Stats() FrameStats { return e.stats }

// DeclareResource registers a resource descriptor. Duplicate ids are a
// configuration error.
func (e *Executor) DeclareResource(desc resource.Desc) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	if _, ok := e.descs[desc.ID]; ok {
		return fmt.Errorf("%w: %q", resource.ErrDuplicateResource, desc.ID)
	}
	if err := e.tracker.Register(desc.ID); err != nil {
		return err
	}
	e.descs[desc.ID] = desc
	e.descOrder = append(e.descOrder, desc.ID)
	e.dirty = true
	return nil
}

// AddPass adds a pass to the graph. The graph recompiles before the next
// frame.
func (e *Executor) AddPass(p *Pass) error {
	if err := p.validate(); err != nil {
		return err
	}
	for _, existing := range e.passes {
		if existing.ID == p.ID {
			return fmt.Errorf("%w: %q", ErrDuplicatePass, p.ID)
		}
	}
	e.passes = append(e.passes, p)
	e.dirty = true
	return nil
}

// RemovePass removes a pass and calls its dispose hook.
func (e *Executor) RemovePass(id string) error {
	for i, p := range e.passes {
		if p.ID != id {
			continue
		}
		if p.Dispose != nil {
			p.Dispose()
		}
		e.passes = append(e.passes[:i], e.passes[i+1:]...)
		e.dirty = true
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPass, id)
}

// Compile recompiles the graph immediately. RunFrame does this lazily on
// topology change; explicit calls are for inspecting the result.
func (e *Executor) Compile() (*CompiledGraph, error) {
	g := Compile(e.passes, CompileOptions{
		Debug:            e.opts.Debug,
		ValidateBindings: e.opts.ValidateBindings,
		Imports:          e.bridge.ImportIDs(),
	})

	// Pairs whose resource is no longer ping-pong after the topology
	// change are stale: resolving reads through them would bypass the
	// tracker. Release their sides and fall through to plain allocation.
	for id, pair := range e.pairs {
		if g.PingPong[id] {
			continue
		}
		for _, side := range pair.SideIDs() {
			if err := e.pool.Release(side); err != nil {
				rendergraph.Logger().Warn("stale pair release failed",
					"resource", id, "side", side, "err", err)
			}
		}
		delete(e.pairs, id)
	}

	// Allocate backing storage: two sides for ping-pong resources, one
	// target otherwise. Resources referenced but never declared get a
	// best-effort viewport-sized default.
	for _, id := range g.ResourceOrder {
		desc, ok := e.descs[id]
		if !ok {
			desc = resource.Desc{ID: id, Type: resource.TypeRenderTarget, Size: resource.Viewport()}
			e.descs[id] = desc
			e.descOrder = append(e.descOrder, id)
			if err := e.tracker.Register(id); err != nil {
				return nil, err
			}
		}
		if g.PingPong[id] {
			if _, ok := e.pairs[id]; ok {
				continue
			}
			a, b, err := e.acquirePair(desc)
			if err != nil {
				return nil, err
			}
			e.pairs[id] = resource.NewPingPong(id, a, b)
		} else if _, err := e.pool.Acquire(desc); err != nil {
			return nil, err
		}
	}

	e.compiled = g
	e.dirty = false
	return g, nil
}

// acquirePair allocates the two physical sides of a ping-pong pair.
func (e *Executor) acquirePair(desc resource.Desc) (resource.Target, resource.Target, error) {
	da, db := desc, desc
	da.ID = desc.ID + "#0"
	db.ID = desc.ID + "#1"
	a, err := e.pool.Acquire(da)
	if err != nil {
		return nil, nil, err
	}
	b, err := e.pool.Acquire(db)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// RunFrame executes one full frame: counter advance and state reset,
// snapshot capture, import capture, passes in compiled order, export
// flush, ping-pong swap.
//
// In strict mode the first resource-state violation or pass error fails
// the frame. Otherwise violations and errors are logged and the frame
// continues; a failing pass degrades only its own outputs.
func (e *Executor) RunFrame() error {
	if e.closed {
		return ErrClosed
	}
	if e.dirty {
		if _, err := e.Compile(); err != nil {
			return err
		}
	}

	start := time.Now()
	e.phase = PhaseCapturingContext
	defer func() { e.phase = PhaseIdle }()

	e.frameNumber = e.tracker.BeginFrame()

	prev := e.capturer.Last()
	snap := e.capturer.Capture(e.frameNumber)
	if e.opts.AutoInvalidateOnCut && prev != nil && snap.Camera.Discontinuous(prev.Camera) {
		e.InvalidateHistory(resource.InvalidateExternal)
	}

	e.bridge.BeginFrame()
	e.bridge.CaptureImports()

	e.phase = PhaseExecutingPasses
	stats := FrameStats{Frame: e.frameNumber, Passes: make([]PassStats, 0, len(e.compiled.Passes))}
	prevTarget := ""

	for _, p := range e.compiled.Passes {
		ps := PassStats{ID: p.ID}

		if p.Enabled != nil && !p.Enabled(snap) {
			// Skipped: outputs remain Created; dependent readers see a
			// "not written" validation result and fall back.
			ps.Skipped = true
			ps.SkipReason = "disabled"
			stats.Passes = append(stats.Passes, ps)
			continue
		}

		// prepare fails only in strict mode; production frames log the
		// violation and let the pass fall back through Input's result.
		if err := e.prepare(p); err != nil {
			return err
		}

		pctx := &PassContext{exec: e, pass: p, snap: snap}
		execStart := time.Now()
		err := p.Execute(pctx)
		ps.CPU = time.Since(execStart)
		ps.GPU = pctx.gpuTime

		if err != nil {
			// Outputs stay mid-write: a defined, detectable condition
			// for downstream readers, not corrupted memory.
			ps.Failed = true
			rendergraph.Logger().Warn("pass failed",
				"pass", p.label(), "err", err)
			if e.opts.StrictMode {
				return fmt.Errorf("graph: pass %q: %w", p.ID, err)
			}
		} else {
			e.complete(p)
		}
		stats.Passes = append(stats.Passes, ps)

		if len(p.Outputs) > 0 {
			first := p.Outputs[0].Resource
			if prevTarget != "" && first != prevTarget {
				stats.TargetSwitches++
			}
			prevTarget = first
		}
	}

	e.phase = PhaseFlushingExports
	e.bridge.FlushExports()
	for _, pair := range e.pairs {
		pair.Swap()
	}

	stats.Total = time.Since(start)
	stats.MemoryBytes = e.pool.MemoryStats().UsedBytes
	e.stats = stats
	return nil
}

// prepare validates declared reads and transitions declared outputs to
// WriteTarget. Read hazards on non-ping-pong inputs are logged here; the
// pass still executes and chooses its fallback through Input's result.
func (e *Executor) prepare(p *Pass) error {
	for _, a := range p.Inputs {
		if a.External || e.compiled.PingPong[a.Resource] {
			continue
		}
		if a.Mode != Read && a.Mode != ReadWrite {
			continue
		}
		if res := e.tracker.ValidateReadAfterWrite(a.Resource, p.ID); !res.Valid {
			rendergraph.Logger().Warn("read hazard",
				"pass", p.ID, "resource", a.Resource, "err", res.Err.Error())
			if e.opts.StrictMode {
				return res.Err
			}
		}
	}
	for _, id := range p.writes() {
		if res := e.tracker.Transition(id, resource.WriteTarget, p.ID); !res.Valid {
			if e.opts.StrictMode {
				return res.Err
			}
			rendergraph.Logger().Warn("write transition rejected",
				"pass", p.ID, "resource", id, "err", res.Err.Error())
		}
	}
	return nil
}

// complete transitions a successful pass's outputs to ShaderRead and
// marks ping-pong writes.
func (e *Executor) complete(p *Pass) {
	for _, id := range p.writes() {
		e.tracker.Transition(id, resource.ShaderRead, p.ID)
		if pair, ok := e.pairs[id]; ok {
			pair.MarkWritten()
		}
	}
}

// Resize propagates a viewport change to the pool and invalidates the
// temporal history of every pair whose backing storage was reallocated.
func (e *Executor) Resize(viewportW, viewportH int) {
	changed := e.pool.Resize(viewportW, viewportH)
	for _, id := range changed {
		logical := id
		if i := len(id) - 2; i > 0 && (id[i:] == "#0" || id[i:] == "#1") {
			logical = id[:i]
		}
		if pair, ok := e.pairs[logical]; ok {
			pair.Invalidate(resource.InvalidateResize)
		}
	}
}

// InvalidateHistory resets every ping-pong pair's validity flag, for
// explicit external signals such as a discontinuous view change.
func (e *Executor) InvalidateHistory(reason resource.InvalidateReason) {
	for _, pair := range e.pairs {
		pair.Invalidate(reason)
	}
}

// ContextLost handles a backing-context loss: pool handles are dropped
// without freeing (the memory is already gone), temporal history is
// invalidated, and registered recovery handlers run in priority order.
func (e *Executor) ContextLost() {
	e.pool.Invalidate()
	e.InvalidateHistory(resource.InvalidateContextLoss)
	if err := e.recovery.ContextLost(); err != nil {
		rendergraph.Logger().Warn("context-loss handlers reported errors", "err", err)
	}
}

// ContextRestored re-runs recovery handlers after the backing context
// comes back. Pool storage reallocates lazily on the next frame.
func (e *Executor) ContextRestored() {
	if err := e.recovery.ContextRestored(); err != nil {
		rendergraph.Logger().Warn("context-restore handlers reported errors", "err", err)
	}
}

// Close disposes every pass and the pool. The executor is unusable
// afterwards.
func (e *Executor) Close() {
	if e.closed {
		return
	}
	for _, p := range e.passes {
		if p.Dispose != nil {
			p.Dispose()
		}
	}
	e.pool.Dispose()
	e.closed = true
	rendergraph.Logger().Info("executor closed", "frames", e.frameNumber)
}
