// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"testing"
	"time"
)

// TestFrameStatsLookup tests the per-pass lookup directly on a returned
// value, the way callers read Executor.Stats().
func TestFrameStatsLookup(t *testing.T) {
	build := func() FrameStats {
		return FrameStats{
			Frame: 7,
			Passes: []PassStats{
				{ID: "scene_pass", CPU: time.Millisecond},
				{ID: "composite", Skipped: true, SkipReason: "disabled"},
			},
		}
	}

	ps, ok := build().PassStats("composite")
	if !ok {
		t.Fatal("PassStats(composite) not found")
	}
	if !ps.Skipped || ps.SkipReason != "disabled" {
		t.Errorf("PassStats(composite) = %+v, want skipped/disabled", ps)
	}

	if _, ok := build().PassStats("missing"); ok {
		t.Error("PassStats(missing) = found, want absent")
	}
}
