// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package rendergraph is a real-time, multi-pass rendering scheduler for a
// GPU effect pipeline.
//
// Effects are expressed as passes that declare which buffers they read and
// write. The scheduler compiles the declared accesses into a deterministic
// execution order, tracks every buffer through a per-frame state machine so
// that hazards (read-before-write, read-while-writing, use-after-dispose)
// are detected instead of silently producing garbage, and isolates the
// render loop from a concurrently mutating application layer through a
// per-frame immutable state snapshot.
//
// The module is organised into small focused packages:
//
//   - resource: buffer descriptors, the per-resource state machine,
//     ping-pong (double-buffered) pairs, and the allocation pools
//   - frame: the frozen per-frame context snapshot and camera state
//   - bridge: the sole import/export channel to externally-owned state
//   - graph: the pass contract, the dependency compiler, and the
//     frame execution loop
//   - shader: WGSL compilation for pass-private shader programs
//   - settings: TOML-backed quality and performance knobs
//   - recovery: context-loss recovery handler registry
//
// Execution is single-threaded and cooperative: exactly one pass runs at a
// time, in compiled order. The only cross-frame concurrency is the ping-pong
// buffering used by temporal algorithms, and the only external concurrency
// (a UI layer mutating parameters mid-frame) is resolved by the snapshot in
// package frame.
//
// By default the module produces no log output. Call [SetLogger] to enable
// logging for all sub-packages.
package rendergraph
