// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package recovery

import (
	"errors"
	"testing"
)

// TestRegisterDuplicate tests that handler names must be unique.
func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Handler{Name: "pool", Priority: 100}); err != nil {
		t.Fatalf("Register() = %v", err)
	}
	err := r.Register(Handler{Name: "pool", Priority: 50})
	if !errors.Is(err, ErrDuplicateHandler) {
		t.Errorf("Register() = %v, want ErrDuplicateHandler", err)
	}
}

// TestUnregister tests handler removal.
func TestUnregister(t *testing.T) {
	r := NewRegistry()

	r.Register(Handler{Name: "temp", Priority: 10})
	r.Unregister("temp")
	r.Unregister("never-existed")

	if names := r.Names(); len(names) != 0 {
		t.Errorf("Names() = %v, want empty", names)
	}
}

// TestPriorityOrder tests that handlers run highest-priority first, with
// name as the tie-breaker.
func TestPriorityOrder(t *testing.T) {
	r := NewRegistry()
	var order []string
	record := func(name string) func() error {
		return func() error {
			order = append(order, name)
			return nil
		}
	}

	r.Register(Handler{Name: "overlay", Priority: 10, OnContextLost: record("overlay")})
	r.Register(Handler{Name: "pool", Priority: 100, OnContextLost: record("pool")})
	r.Register(Handler{Name: "bloom", Priority: 50, OnContextLost: record("bloom")})
	r.Register(Handler{Name: "accumulate", Priority: 50, OnContextLost: record("accumulate")})

	if err := r.ContextLost(); err != nil {
		t.Fatalf("ContextLost() = %v", err)
	}

	want := []string{"pool", "accumulate", "bloom", "overlay"}
	if len(order) != len(want) {
		t.Fatalf("ran %d handlers, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

// TestErrorIsolation tests that one failing handler does not stop the
// walk and that all errors are reported.
func TestErrorIsolation(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	ran := false

	r.Register(Handler{Name: "failing", Priority: 100, OnContextRestored: func() error {
		return boom
	}})
	r.Register(Handler{Name: "healthy", Priority: 10, OnContextRestored: func() error {
		ran = true
		return nil
	}})

	err := r.ContextRestored()
	if !errors.Is(err, boom) {
		t.Errorf("ContextRestored() = %v, want wrapped boom", err)
	}
	if !ran {
		t.Error("healthy handler skipped after earlier failure")
	}
}

// TestNilCallbacks tests that handlers with a single direction are fine.
func TestNilCallbacks(t *testing.T) {
	r := Registry{}

	if err := r.Register(Handler{Name: "lost-only", OnContextLost: func() error { return nil }}); err != nil {
		t.Fatalf("Register() = %v", err)
	}
	if err := r.ContextLost(); err != nil {
		t.Errorf("ContextLost() = %v", err)
	}
	if err := r.ContextRestored(); err != nil {
		t.Errorf("ContextRestored() = %v", err)
	}
}
