// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"github.com/chewxy/math32"
)

// Discontinuity thresholds. A camera jump past either makes temporal
// reprojection meaningless: the history would be reprojected from a view
// that shares no content with the current one.
const (
	// DefaultPositionEpsilon is the per-frame position delta, in world
	// units, above which the view change counts as a cut.
	DefaultPositionEpsilon float32 = 0.5

	// DefaultAngleEpsilon is the per-frame view-direction change, in
	// radians, above which the view change counts as a cut.
	DefaultAngleEpsilon float32 = 0.35
)

// Discontinuous reports whether the change from prev to c is a cut rather
// than continuous motion. The execution loop feeds this into the temporal
// invalidation signal: history from before a cut must not be reprojected.
func (c CameraState) Discontinuous(prev CameraState) bool {
	return c.DiscontinuousWithin(prev, DefaultPositionEpsilon, DefaultAngleEpsilon)
}

// DiscontinuousWithin is Discontinuous with explicit thresholds.
func (c CameraState) DiscontinuousWithin(prev CameraState, posEpsilon, angleEpsilon float32) bool {
	dx := c.Position[0] - prev.Position[0]
	dy := c.Position[1] - prev.Position[1]
	dz := c.Position[2] - prev.Position[2]
	if math32.Sqrt(dx*dx+dy*dy+dz*dz) > posEpsilon {
		return true
	}
	if angleBetween(c.Forward, prev.Forward) > angleEpsilon {
		return true
	}
	// A projection change (FOV zoom snap) also invalidates history.
	return math32.Abs(c.FOV-prev.FOV) > angleEpsilon
}

// angleBetween returns the angle between two directions in radians.
// Zero-length inputs yield zero.
func angleBetween(a, b [3]float32) float32 {
	la := math32.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
	lb := math32.Sqrt(b[0]*b[0] + b[1]*b[1] + b[2]*b[2])
	if la == 0 || lb == 0 {
		return 0
	}
	dot := (a[0]*b[0] + a[1]*b[1] + a[2]*b[2]) / (la * lb)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math32.Acos(dot)
}
