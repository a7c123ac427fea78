// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import "testing"

func pair(t *testing.T) *PingPong {
	t.Helper()
	pool := NewLogicalPool(640, 480)
	a, err := pool.Acquire(Desc{ID: "history/0", Size: Viewport()})
	if err != nil {
		t.Fatal(err)
	}
	b, err := pool.Acquire(Desc{ID: "history/1", Size: Viewport()})
	if err != nil {
		t.Fatal(err)
	}
	return NewPingPong("history", a, b)
}

func TestPingPongRolesSwap(t *testing.T) {
	p := pair(t)

	r0, w0 := p.Reader(), p.Writer()
	if r0 == w0 {
		t.Fatal("reader and writer must be distinct buffers")
	}

	p.Swap()
	if p.Reader() != w0 || p.Writer() != r0 {
		t.Error("Swap() did not exchange roles")
	}

	p.Swap()
	if p.Reader() != r0 || p.Writer() != w0 {
		t.Error("second Swap() did not restore roles")
	}
}

func TestPingPongReadSideIsPreviousFrame(t *testing.T) {
	p := pair(t)

	// Within a frame the writer receives current output while the reader
	// keeps pointing at last frame's buffer, until the post-frame swap.
	w := p.Writer()
	p.MarkWritten()
	if p.Reader() == w {
		t.Fatal("reader resolved to the in-progress write side")
	}
	p.Swap()
	if p.Reader() != w {
		t.Error("after swap the freshly written side must become the reader")
	}
}

func TestPingPongValidity(t *testing.T) {
	p := pair(t)

	if p.Valid() {
		t.Fatal("validity must start false (first use)")
	}

	// A swap without a write does not make history valid.
	p.Swap()
	if p.Valid() {
		t.Error("swap without write must not validate history")
	}

	// One full write-then-swap cycle does.
	p.MarkWritten()
	p.Swap()
	if !p.Valid() {
		t.Error("write-then-swap cycle must validate history")
	}
}

func TestPingPongInvalidate(t *testing.T) {
	reasons := []InvalidateReason{
		InvalidateResize,
		InvalidateContextLoss,
		InvalidateExternal,
	}
	for _, reason := range reasons {
		t.Run(reason.String(), func(t *testing.T) {
			p := pair(t)
			p.MarkWritten()
			p.Swap()
			if !p.Valid() {
				t.Fatal("setup: history should be valid")
			}
			p.Invalidate(reason)
			if p.Valid() {
				t.Error("Invalidate() did not reset validity")
			}
		})
	}
}

func TestPingPongInvalidateClearsPendingWrite(t *testing.T) {
	p := pair(t)
	p.MarkWritten()
	p.Invalidate(InvalidateExternal)
	p.Swap()
	if p.Valid() {
		t.Error("a write invalidated before the swap must not validate history")
	}
}
