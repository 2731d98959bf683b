package main

// Notes:
// - exporterPool: thin adapter; we verify the round-trip and the panic on a
//   foreign Renderer type, which would indicate a wiring bug.

import (
	"testing"
)

func TestExporterPoolAdapter(t *testing.T) {
	t.Parallel()

	pool := newExporterPool(1)
	defer func() { _ = pool.Close() }()

	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}

	r, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	pool.Release(r)
}

func TestExporterPoolReleaseWrongType(t *testing.T) {
	t.Parallel()

	pool := newExporterPool(1)
	defer func() { _ = pool.Close() }()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for foreign renderer type")
		}
	}()
	pool.Release(&mockRenderer{})
}
