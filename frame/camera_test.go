// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import "testing"

func TestCameraDiscontinuous(t *testing.T) {
	base := CameraState{
		Position: [3]float32{0, 0, 5},
		Forward:  [3]float32{0, 0, -1},
		FOV:      1.0,
	}

	tests := []struct {
		name string
		next CameraState
		want bool
	}{
		{"identical", base, false},
		{"small drift", CameraState{
			Position: [3]float32{0.01, 0, 5},
			Forward:  [3]float32{0.01, 0, -1},
			FOV:      1.0,
		}, false},
		{"position jump", CameraState{
			Position: [3]float32{10, 0, 5},
			Forward:  [3]float32{0, 0, -1},
			FOV:      1.0,
		}, true},
		{"view flip", CameraState{
			Position: [3]float32{0, 0, 5},
			Forward:  [3]float32{0, 0, 1},
			FOV:      1.0,
		}, true},
		{"fov snap", CameraState{
			Position: [3]float32{0, 0, 5},
			Forward:  [3]float32{0, 0, -1},
			FOV:      2.0,
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.next.Discontinuous(base); got != tt.want {
				t.Errorf("Discontinuous() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngleBetweenZeroVectors(t *testing.T) {
	if got := angleBetween([3]float32{}, [3]float32{0, 0, -1}); got != 0 {
		t.Errorf("angleBetween(zero, v) = %v, want 0", got)
	}
}
