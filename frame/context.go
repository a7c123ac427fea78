// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import "golang.org/x/image/math/f32"

// ContentKind names the kind of content being visualised. The scheduler
// treats it as an opaque tag; enablement predicates branch on it.
type ContentKind string

// Content kinds known to the stock effect set.
const (
	ContentPolytope ContentKind = "polytope"
	ContentFractal  ContentKind = "fractal"
	ContentField    ContentKind = "field"
)

// Timing is the per-frame clock state.
type Timing struct {
	// Time is seconds since start.
	Time float64

	// Delta is seconds since the previous frame.
	Delta float64

	// FPS is the smoothed frame rate.
	FPS float32
}

// CameraState is the captured view state. Matrices are plain value arrays
// so copying the struct copies everything.
type CameraState struct {
	Position   f32.Vec3
	Forward    f32.Vec3
	Up         f32.Vec3
	View       f32.Mat4
	Projection f32.Mat4

	// FOV is the vertical field of view in radians.
	FOV float32

	// Near and Far are the clip plane distances.
	Near, Far float32
}

// EffectParams holds the per-effect tuning state the UI edits. Both maps
// are deep-copied at capture.
type EffectParams struct {
	// Values maps parameter name to its current scalar value.
	Values map[string]float32

	// Enabled maps effect name to its on/off switch.
	Enabled map[string]bool

	// Order lists effect names in user-arranged composition order.
	Order []string
}

// QualityState holds the quality and performance knobs, typically sourced
// from package settings.
type QualityState struct {
	// Preset is the named quality preset ("low", "medium", "high").
	Preset string

	// ResolutionScale scales internal render targets relative to the
	// viewport (0.5 = half resolution).
	ResolutionScale float32

	// TemporalAccumulation toggles history-based effects.
	TemporalAccumulation bool

	// MaxFPS caps the frame rate; 0 means uncapped.
	MaxFPS int

	// DebugHistory enables state-machine transition recording.
	DebugHistory bool
}

// Context is the frozen per-frame snapshot. It is created exactly once per
// frame by the execution loop and treated as immutable from then on: no
// code may mutate a Context after capture, and all passes read only from
// it. The previous instance remains retrievable through [Capturer.Last]
// for callers that run before the new capture.
type Context struct {
	// Frame is the frame number the snapshot was captured for.
	Frame uint64

	Camera  CameraState
	Timing  Timing
	Params  EffectParams
	Quality QualityState
	Content ContentKind
}

// Param returns a named effect parameter, or fallback when absent.
func (c *Context) Param(name string, fallback float32) float32 {
	if v, ok := c.Params.Values[name]; ok {
		return v
	}
	return fallback
}

// EffectEnabled reports the captured on/off switch for an effect,
// defaulting to off when the effect is unknown.
func (c *Context) EffectEnabled(name string) bool {
	return c.Params.Enabled[name]
}
