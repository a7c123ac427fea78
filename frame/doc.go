// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame captures externally-owned mutable state into one immutable
// value per frame.
//
// Rendering code never reads live application state. Instead, the execution
// loop calls [Capturer.Capture] exactly once per frame, before any pass
// executes, and every pass reads only the resulting [Context]. Mutable
// containers are deep-copied at capture time, so a UI update landing
// mid-frame can never make one frame composite effects against an
// inconsistent mix of old and new parameters.
//
// Code that runs outside the execution window uses [Capturer.Last], which
// intentionally returns the previous frame's snapshot rather than blocking
// or racing. One frame of latency is the accepted cost.
package frame
