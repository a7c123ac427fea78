// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import "time"

// PassStats is the per-pass slice of the frame statistics.
type PassStats struct {
	// ID is the pass id.
	ID string

	// CPU is the wall time spent inside Execute.
	CPU time.Duration

	// GPU is the GPU time reported by the pass via
	// [PassContext.SetGPUTime]; zero when the pass has no timer queries.
	GPU time.Duration

	// Skipped reports whether the pass did not execute this frame.
	Skipped bool

	// SkipReason explains a skip ("disabled", "missing input").
	SkipReason string

	// Failed reports whether Execute returned an error. Failed passes
	// leave their outputs unwritten.
	Failed bool
}

// FrameStats is the read-only observability surface filled once per frame.
type FrameStats struct {
	// Frame is the frame number the stats describe.
	Frame uint64

	// Total is the wall time of the whole frame, capture to swap.
	Total time.Duration

	// TargetSwitches counts render-target changes between consecutive
	// executed passes.
	TargetSwitches int

	// MemoryBytes is the pool's estimated allocation total.
	MemoryBytes uint64

	// Passes holds one entry per compiled pass, in execution order.
	Passes []PassStats
}

// PassStats returns the stats entry for a pass id, if present.
func (s FrameStats) PassStats(id string) (PassStats, bool) {
	for _, p := range s.Passes {
		if p.ID == id {
			return p, true
		}
	}
	return PassStats{}, false
}
