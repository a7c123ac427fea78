// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"fmt"

	rendergraph "github.com/michael-h-patrianna/mdimension-sub006"
)

// WarningKind classifies a non-fatal compilation finding.
type WarningKind uint8

const (
	// WarnCycle marks passes caught in a dependency cycle; they are
	// appended in registration order after the acyclic prefix.
	WarnCycle WarningKind = iota

	// WarnMissingWriter marks a read of a resource no pass writes.
	WarnMissingWriter

	// WarnDanglingImport marks an external input whose id is not
	// registered on the bridge.
	WarnDanglingImport

	// WarnBinding marks a suspicious binding declaration (duplicate
	// alias, negative attachment index).
	WarnBinding
)

// String returns a short identifier for the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarnCycle:
		return "cycle"
	case WarnMissingWriter:
		return "missing_writer"
	case WarnDanglingImport:
		return "dangling_import"
	case WarnBinding:
		return "binding"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Warning is one non-fatal compilation finding. Unsatisfiable or dangling
// dependencies are recorded here, never raised as errors: compilation
// always succeeds and produces a best-effort order.
type Warning struct {
	Kind    WarningKind
	Subject string // resource or pass id the finding concerns
	Detail  string
}

// String returns a human-readable form of the warning.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Subject, w.Detail)
}

// CompileOptions configures a compilation.
type CompileOptions struct {
	// Debug enables verbose compilation logging.
	Debug bool

	// ValidateBindings enables alias/attachment declaration checks.
	ValidateBindings bool

	// Imports lists the bridge's registered import ids, used to detect
	// dangling external references.
	Imports []string
}

// CompiledGraph is the output of [Compile]: the execution order, the
// resource discovery order, the ping-pong set and the warnings.
type CompiledGraph struct {
	// Passes is the execution order.
	Passes []*Pass

	// ResourceOrder lists every referenced resource id, in first-use
	// order over the compiled pass order.
	ResourceOrder []string

	// PingPong is the set of resources requiring double buffering.
	PingPong map[string]bool

	// Warnings are the non-fatal findings.
	Warnings []Warning
}

// Compile produces a deterministic execution order for an unordered set of
// passes.
//
// Ordering follows write-before-read dependencies; ties are broken first
// by the explicit priority hint (higher first), then by stable
// registration order. The tie-break is a documented contract, not an
// accident of map iteration.
//
// A resource is marked for ping-pong when one frame's access set contains
// both a read and a write of it that cannot be serialised write-first:
// either a single pass declares both a read and a write of the same id
// (the self-read pattern of temporal accumulation), or the reading pass
// cannot be ordered after the writing pass. Reads of such resources
// resolve to the previous frame's buffer until the post-execution swap.
func Compile(passes []*Pass, opts CompileOptions) *CompiledGraph {
	g := &CompiledGraph{PingPong: make(map[string]bool)}

	// Access inventory per resource.
	readers := make(map[string][]int)
	writers := make(map[string][]int)
	for i, p := range passes {
		for _, id := range p.reads() {
			readers[id] = append(readers[id], i)
		}
		for _, id := range p.writes() {
			writers[id] = append(writers[id], i)
		}
	}

	// Ping-pong detection, part one: a single pass declaring both a read
	// and a write of the same id (self-read, temporal accumulation). The
	// cross-pass case depends on the final order and is detected below.
	for id, rs := range readers {
		for _, r := range rs {
			for _, w := range writers[id] {
				if r == w {
					g.PingPong[id] = true
				}
			}
		}
	}

	// Dangling dependencies.
	imports := make(map[string]bool, len(opts.Imports))
	for _, id := range opts.Imports {
		imports[id] = true
	}
	for i, p := range passes {
		for _, a := range p.Inputs {
			if a.External {
				if !imports[a.Resource] {
					g.warn(Warning{
						Kind:    WarnDanglingImport,
						Subject: a.Resource,
						Detail:  fmt.Sprintf("pass %q reads import %q which is not registered on the bridge", p.ID, a.Resource),
					})
				}
				continue
			}
			if (a.Mode == Read || a.Mode == ReadWrite) && len(writers[a.Resource]) == 0 {
				g.warn(Warning{
					Kind:    WarnMissingWriter,
					Subject: a.Resource,
					Detail:  fmt.Sprintf("pass %q reads %q but no pass writes it", p.ID, a.Resource),
				})
			}
		}
		if opts.ValidateBindings {
			validateBindings(g, passes[i])
		}
	}

	// Dependency edges: every writer of a resource precedes every reader.
	// Self-reads and ping-pong loops carry previous-frame content, so they
	// impose no intra-frame edge.
	n := len(passes)
	successors := make([][]int, n)
	indegree := make([]int, n)
	edge := func(from, to int) {
		for _, s := range successors[from] {
			if s == to {
				return
			}
		}
		successors[from] = append(successors[from], to)
		indegree[to]++
	}
	for id, rs := range readers {
		for _, w := range writers[id] {
			for _, r := range rs {
				if r != w {
					edge(w, r)
				}
			}
		}
	}

	// Kahn's algorithm with the documented tie-break: among ready passes,
	// highest priority first, then registration order.
	done := make([]bool, n)
	for len(g.Passes) < n {
		best := -1
		for i, p := range passes {
			if done[i] || indegree[i] > 0 {
				continue
			}
			if best < 0 || p.Priority > passes[best].Priority {
				best = i
			}
		}
		if best < 0 {
			// Cycle: append the remainder in registration order.
			var stuck []string
			for i, p := range passes {
				if done[i] {
					continue
				}
				stuck = append(stuck, p.ID)
				g.Passes = append(g.Passes, p)
			}
			g.warn(Warning{
				Kind:    WarnCycle,
				Subject: stuck[0],
				Detail:  fmt.Sprintf("dependency cycle through %v; falling back to registration order", stuck),
			})
			break
		}
		done[best] = true
		g.Passes = append(g.Passes, passes[best])
		for _, s := range successors[best] {
			indegree[s]--
		}
	}

	// Ping-pong detection, part two: a read and a write of one id from
	// different passes where the reader could not be ordered strictly
	// after the writer. Such a read can only mean "previous frame's
	// content", which requires double buffering. Reads that do follow
	// their writer are plain intra-frame dependencies and share one
	// physical buffer.
	position := make(map[*Pass]int, n)
	for i, p := range g.Passes {
		position[p] = i
	}
	for id, rs := range readers {
		for _, r := range rs {
			for _, w := range writers[id] {
				if r != w && position[passes[r]] <= position[passes[w]] {
					g.PingPong[id] = true
				}
			}
		}
	}

	// Resource discovery order over the final pass order.
	seen := make(map[string]bool)
	for _, p := range g.Passes {
		for _, a := range p.Outputs {
			if !seen[a.Resource] {
				seen[a.Resource] = true
				g.ResourceOrder = append(g.ResourceOrder, a.Resource)
			}
		}
		for _, a := range p.Inputs {
			if !a.External && !seen[a.Resource] {
				seen[a.Resource] = true
				g.ResourceOrder = append(g.ResourceOrder, a.Resource)
			}
		}
	}

	if opts.Debug {
		order := make([]string, len(g.Passes))
		for i, p := range g.Passes {
			order[i] = p.ID
		}
		rendergraph.Logger().Info("graph compiled",
			"passes", order, "pingpong", len(g.PingPong), "warnings", len(g.Warnings))
	}
	return g
}

// warn records a warning and logs it.
func (g *CompiledGraph) warn(w Warning) {
	g.Warnings = append(g.Warnings, w)
	rendergraph.Logger().Warn("graph compilation warning",
		"kind", w.Kind.String(), "subject", w.Subject, "detail", w.Detail)
}

// validateBindings checks a pass's binding declarations.
func validateBindings(g *CompiledGraph, p *Pass) {
	aliases := make(map[string]bool)
	for _, a := range append(append([]Access{}, p.Inputs...), p.Outputs...) {
		if a.Attachment < 0 {
			g.warn(Warning{
				Kind:    WarnBinding,
				Subject: p.ID,
				Detail:  fmt.Sprintf("negative attachment index %d for %q", a.Attachment, a.Resource),
			})
		}
		if a.Alias == "" {
			continue
		}
		if aliases[a.Alias] {
			g.warn(Warning{
				Kind:    WarnBinding,
				Subject: p.ID,
				Detail:  fmt.Sprintf("alias %q bound more than once", a.Alias),
			})
		}
		aliases[a.Alias] = true
	}
}
