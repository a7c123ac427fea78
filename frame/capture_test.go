// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveSources() (Sources, *EffectParams) {
	live := &EffectParams{
		Values:  map[string]float32{"bloom.threshold": 0.8, "fog.density": 0.2},
		Enabled: map[string]bool{"bloom": true, "fog": false},
		Order:   []string{"fog", "bloom"},
	}
	src := Sources{
		Camera:  func() CameraState { return CameraState{FOV: 1.2, Position: [3]float32{0, 0, 5}} },
		Timing:  func() Timing { return Timing{Time: 10, Delta: 0.016, FPS: 60} },
		Params:  func() EffectParams { return *live },
		Quality: func() QualityState { return QualityState{Preset: "high", ResolutionScale: 1} },
		Content: func() ContentKind { return ContentPolytope },
	}
	return src, live
}

func TestCaptureSnapshotContent(t *testing.T) {
	src, _ := liveSources()
	c := NewCapturer(src)

	snap := c.Capture(1)
	require.NotNil(t, snap)
	assert.Equal(t, uint64(1), snap.Frame)
	assert.Equal(t, float32(1.2), snap.Camera.FOV)
	assert.Equal(t, 0.016, snap.Timing.Delta)
	assert.Equal(t, "high", snap.Quality.Preset)
	assert.Equal(t, ContentPolytope, snap.Content)
	assert.Equal(t, float32(0.8), snap.Param("bloom.threshold", 0))
	assert.True(t, snap.EffectEnabled("bloom"))
	assert.False(t, snap.EffectEnabled("fog"))
}

func TestSuccessiveCapturesDistinctButEqual(t *testing.T) {
	src, _ := liveSources()
	c := NewCapturer(src)

	first := c.Capture(1)
	second := c.Capture(2)

	require.NotSame(t, first, second)
	assert.Equal(t, first.Params, second.Params)
	assert.Equal(t, first.Camera, second.Camera)

	// The backing containers must be independent copies, not shared.
	second.Params.Values["bloom.threshold"] = 99
	assert.Equal(t, float32(0.8), first.Params.Values["bloom.threshold"])
}

func TestCaptureIsolatesLiveMutation(t *testing.T) {
	src, live := liveSources()
	c := NewCapturer(src)

	snap := c.Capture(1)

	// A UI update landing after capture must not retroactively alter the
	// already-captured snapshot.
	live.Values["bloom.threshold"] = 0.1
	live.Enabled["fog"] = true
	live.Order[0] = "bloom"

	assert.Equal(t, float32(0.8), snap.Params.Values["bloom.threshold"])
	assert.False(t, snap.Params.Enabled["fog"])
	assert.Equal(t, "fog", snap.Params.Order[0])
}

func TestLastReturnsPreviousSnapshot(t *testing.T) {
	src, _ := liveSources()
	c := NewCapturer(src)

	assert.Nil(t, c.Last(), "Last before any capture")

	first := c.Capture(1)
	assert.Same(t, first, c.Last())

	second := c.Capture(2)
	assert.Same(t, second, c.Last())
	assert.NotSame(t, first, c.Last())
}

func TestCaptureNilSources(t *testing.T) {
	c := NewCapturer(Sources{})
	snap := c.Capture(7)
	require.NotNil(t, snap)
	assert.Equal(t, uint64(7), snap.Frame)
	assert.Equal(t, CameraState{}, snap.Camera)
	assert.Equal(t, float32(2.5), snap.Param("missing", 2.5))
}

func TestCapturePanickingGetter(t *testing.T) {
	src, _ := liveSources()
	src.Camera = func() CameraState { panic("ui torn down") }
	c := NewCapturer(src)

	var snap *Context
	require.NotPanics(t, func() { snap = c.Capture(1) })
	assert.Equal(t, CameraState{}, snap.Camera, "panicking category falls back to zero value")
	assert.Equal(t, ContentPolytope, snap.Content, "other categories are unaffected")
}
