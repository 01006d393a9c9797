package source

import (
	"fmt"
	"sync"
	"testing"
)

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID should resolve to the empty string, got %q, ok=%v", s, ok)
	}

	id1 := in.Intern("std")
	if id1 == NoStringID {
		t.Error("non-empty string must not get NoStringID")
	}
	if id2 := in.Intern("std"); id2 != id1 {
		t.Errorf("re-interning should return the same ID: %d != %d", id2, id1)
	}
	if s, ok := in.Lookup(id1); !ok || s != "std" {
		t.Errorf("Lookup = %q, ok=%v", s, ok)
	}
	if in.Intern("core") == id1 {
		t.Error("distinct strings share an ID")
	}
	if in.Len() != 3 { // "", "std", "core"
		t.Errorf("Len = %d, want 3", in.Len())
	}
}

func TestInternerInvalidID(t *testing.T) {
	in := NewInterner()
	if in.Has(StringID(100)) {
		t.Error("Has should reject an ID that was never issued")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustLookup must panic on an invalid ID")
		}
	}()
	in.MustLookup(StringID(100))
}

func TestInternerCopiesBytes(t *testing.T) {
	in := NewInterner()
	buf := []byte("original")
	id := in.InternBytes(buf)
	buf[0] = 'X'
	if s, _ := in.Lookup(id); s != "original" {
		t.Errorf("interner must keep its own copy, got %q", s)
	}
}

func TestInternerSnapshot(t *testing.T) {
	in := NewInterner()
	in.Intern("std")
	snap := in.Snapshot()
	snap[0] = "mutated"
	if s, _ := in.Lookup(NoStringID); s != "" {
		t.Error("mutating a snapshot must not affect the interner")
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()
	const goroutines = 32
	const strings = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for i := range strings {
				s := fmt.Sprintf("crate_%d", i)
				id := in.Intern(s)
				if got := in.MustLookup(id); got != s {
					t.Errorf("MustLookup(%d) = %q, want %q", id, got, s)
				}
			}
		}()
	}
	wg.Wait()

	if got := in.Len(); got != strings+1 {
		t.Errorf("Len = %d, want %d (every string interned exactly once)", got, strings+1)
	}
}
