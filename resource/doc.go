// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package resource manages GPU buffer identity, lifecycle, and allocation
// for the render graph.
//
// Every buffer is declared once with a [Desc] and referenced everywhere else
// by its stable string id. A [Tracker] runs the per-frame state machine that
// validates each access a pass requests: a buffer must be written before it
// is read, may not be read mid-write, and may never be touched after
// disposal. The state machine is transient: BeginFrame resets every
// non-disposed buffer to Created, so even persistent buffers are
// re-validated as written-then-read within each frame.
//
// Physical allocation is the job of a [Pool]. Two implementations exist:
// [LogicalPool] does CPU-side bookkeeping only (tests, headless runs) and
// [HALPool] backs targets with wgpu HAL textures. Pools distinguish
// Invalidate (backing context lost, handles dropped without freeing) from
// Dispose (explicit release) because collapsing the two risks either a
// double-free attempt or use of an already-invalid handle.
//
// Temporal algorithms use [PingPong]: two physical buffers behind one
// logical id, with read/write roles swapped after each frame.
package resource
