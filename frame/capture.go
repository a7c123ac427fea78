// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"github.com/jinzhu/copier"

	rendergraph "github.com/michael-h-patrianna/mdimension-sub006"
)

// Sources bundles the injected getter functions for each logical state
// category. The getters are the only place the render loop touches live
// application state; registering them once at startup replaces any direct
// global reads inside rendering code.
//
// Nil getters are allowed and produce zero values.
type Sources struct {
	Camera  func() CameraState
	Timing  func() Timing
	Params  func() EffectParams
	Quality func() QualityState
	Content func() ContentKind
}

// Capturer produces one frozen [Context] per frame from its Sources.
//
// Capturer is not safe for concurrent use; the execution loop is its only
// caller, which is the point: exactly one writer per frame means no locks.
type Capturer struct {
	sources Sources
	last    *Context
}

// NewCapturer creates a capturer over the given sources.
func NewCapturer(sources Sources) *Capturer {
	return &Capturer{sources: sources}
}

// Capture reads every source once and freezes the result for frameNumber.
// Mutable containers inside EffectParams are deep-copied, so mutating the
// live state after Capture returns never alters the snapshot.
//
// A panicking getter is caught and logged; its category falls back to the
// zero value for this frame rather than failing the capture.
func (c *Capturer) Capture(frameNumber uint64) *Context {
	ctx := &Context{Frame: frameNumber}

	ctx.Camera = capture(c.sources.Camera, "camera")
	ctx.Timing = capture(c.sources.Timing, "timing")
	ctx.Quality = capture(c.sources.Quality, "quality")
	ctx.Content = capture(c.sources.Content, "content")

	raw := capture(c.sources.Params, "params")
	if err := copier.CopyWithOption(&ctx.Params, &raw, copier.Option{DeepCopy: true}); err != nil {
		// Copy failures leave zero-valued params, never a shared map.
		rendergraph.Logger().Warn("snapshot deep copy failed", "err", err)
		ctx.Params = EffectParams{}
	}

	c.last = ctx
	return ctx
}

// Last returns the most recently captured snapshot, or nil before the
// first capture. During the window between frame start and the new
// capture this is the previous frame's snapshot; callers accept that one
// frame of latency instead of racing the capture.
func (c *Capturer) Last() *Context {
	return c.last
}

// capture invokes one getter with panic isolation.
func capture[T any](get func() T, category string) (out T) {
	if get == nil {
		return out
	}
	defer func() {
		if r := recover(); r != nil {
			rendergraph.Logger().Warn("state getter panicked",
				"category", category, "panic", r)
			var zero T
			out = zero
		}
	}()
	return get()
}
