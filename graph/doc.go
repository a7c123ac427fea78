// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graph compiles declared pass accesses into an execution order and
// drives the per-frame execution loop.
//
// A [Pass] declares what it reads and writes; [Compile] turns an unordered
// set of passes into a [CompiledGraph]: a deterministic topological order
// (write-before-read edges, ties broken first by priority hint, then by
// registration order — an explicit stable-sort contract, never iteration
// order), the set of resources requiring ping-pong buffering, and a list of
// non-fatal warnings. Compilation always succeeds and produces a best-effort
// order; topology mistakes surface as warnings, not errors.
//
// The [Executor] runs the compiled graph every frame: advance the frame
// counter and reset the resource state machine, capture the frozen frame
// context, capture bridge imports, execute each pass in compiled order,
// flush bridge exports, swap ping-pong pairs. Execution is single-threaded
// and cooperative; a failing pass degrades only its own outputs, never the
// frame.
package graph
