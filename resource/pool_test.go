// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"testing"
)

func TestSizePolicyResolve(t *testing.T) {
	tests := []struct {
		name   string
		policy SizePolicy
		vw, vh int
		wantW  int
		wantH  int
	}{
		{"viewport", Viewport(), 1920, 1080, 1920, 1080},
		{"fixed", Fixed(256, 256), 1920, 1080, 256, 256},
		{"half", Fractional(0.5), 1920, 1080, 960, 540},
		{"quarter", Fractional(0.25), 1920, 1080, 480, 270},
		{"fraction clamps to 1", Fractional(0.1), 4, 4, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.policy.Resolve(tt.vw, tt.vh)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Resolve(%d, %d) = %dx%d, want %dx%d", tt.vw, tt.vh, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDescValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    Desc
		wantErr error
	}{
		{"ok viewport", Desc{ID: "a", Size: Viewport()}, nil},
		{"empty id", Desc{Size: Viewport()}, ErrEmptyID},
		{"zero fixed", Desc{ID: "a", Size: Fixed(0, 100)}, ErrInvalidSize},
		{"zero fraction", Desc{ID: "a", Size: SizePolicy{Mode: SizeFraction}}, ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogicalPoolAcquireIdempotent(t *testing.T) {
	pool := NewLogicalPool(800, 600)
	a, err := pool.Acquire(Desc{ID: "bloom", Size: Fractional(0.5)})
	if err != nil {
		t.Fatal(err)
	}
	b, err := pool.Acquire(Desc{ID: "bloom", Size: Fractional(0.5)})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second Acquire of same id must return the same target")
	}
	if a.Width() != 400 || a.Height() != 300 {
		t.Errorf("target = %dx%d, want 400x300", a.Width(), a.Height())
	}
}

func TestLogicalPoolResize(t *testing.T) {
	pool := NewLogicalPool(800, 600)
	if _, err := pool.Acquire(Desc{ID: "scene", Size: Viewport()}); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Acquire(Desc{ID: "lut", Size: Fixed(64, 64)}); err != nil {
		t.Fatal(err)
	}

	changed := pool.Resize(1024, 768)
	if len(changed) != 1 || changed[0] != "scene" {
		t.Errorf("Resize changed = %v, want [scene]", changed)
	}
	scene, _ := pool.Get("scene")
	if scene.Width() != 1024 || scene.Height() != 768 {
		t.Errorf("scene = %dx%d, want 1024x768", scene.Width(), scene.Height())
	}
	lut, _ := pool.Get("lut")
	if lut.Width() != 64 || lut.Height() != 64 {
		t.Errorf("fixed target resized to %dx%d", lut.Width(), lut.Height())
	}

	// Resizing to the same viewport changes nothing.
	if changed := pool.Resize(1024, 768); changed != nil {
		t.Errorf("no-op resize changed = %v, want nil", changed)
	}
}

func TestLogicalPoolRelease(t *testing.T) {
	pool := NewLogicalPool(800, 600)
	if _, err := pool.Acquire(Desc{ID: "fog", Size: Viewport()}); err != nil {
		t.Fatal(err)
	}
	if err := pool.Release("fog"); err != nil {
		t.Fatalf("Release() = %v", err)
	}
	if _, ok := pool.Get("fog"); ok {
		t.Error("target still present after Release")
	}
	if err := pool.Release("fog"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("second Release() = %v, want ErrUnknownTarget", err)
	}
}

func TestLogicalPoolDispose(t *testing.T) {
	pool := NewLogicalPool(800, 600)
	if _, err := pool.Acquire(Desc{ID: "x", Size: Viewport()}); err != nil {
		t.Fatal(err)
	}
	pool.Dispose()
	if _, err := pool.Acquire(Desc{ID: "y", Size: Viewport()}); !errors.Is(err, ErrPoolDisposed) {
		t.Errorf("Acquire after Dispose = %v, want ErrPoolDisposed", err)
	}
}

func TestLogicalPoolInvalidateKeepsPoolUsable(t *testing.T) {
	pool := NewLogicalPool(800, 600)
	if _, err := pool.Acquire(Desc{ID: "x", Size: Viewport()}); err != nil {
		t.Fatal(err)
	}
	pool.Invalidate()
	if _, ok := pool.Get("x"); ok {
		t.Error("handles must be dropped on Invalidate")
	}
	// Unlike Dispose, the pool accepts new acquisitions afterwards.
	if _, err := pool.Acquire(Desc{ID: "x", Size: Viewport()}); err != nil {
		t.Errorf("Acquire after Invalidate = %v, want nil", err)
	}
}

func TestMemoryStats(t *testing.T) {
	pool := NewLogicalPool(100, 100)
	if _, err := pool.Acquire(Desc{ID: "a", Size: Viewport()}); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Acquire(Desc{ID: "b", Size: Fixed(10, 10), Precision: PrecisionFloat}); err != nil {
		t.Fatal(err)
	}

	s := pool.MemoryStats()
	if s.TargetCount != 2 {
		t.Errorf("TargetCount = %d, want 2", s.TargetCount)
	}
	// a: 100*100*4, b: 10*10*16.
	want := uint64(100*100*4 + 10*10*16)
	if s.UsedBytes != want {
		t.Errorf("UsedBytes = %d, want %d", s.UsedBytes, want)
	}
}
