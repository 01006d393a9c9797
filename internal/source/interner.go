// Package source holds the session-wide string interner shared by every
// compiler pass: crate names, library names and metadata identifiers are
// interned once and referenced by StringID afterwards.
package source

import (
	"fmt"
	"slices"
	"sync"

	"fortio.org/safecast"
)

// StringID is a stable handle for an interned string.
type StringID uint32

// NoStringID is reserved for the empty string.
const NoStringID StringID = 0

// Interner deduplicates strings and hands out stable IDs. It is shared
// across passes and safe for concurrent use; consumers treat it as an
// append-only external resource.
type Interner struct {
	mu    sync.RWMutex
	byID  []string // byID[0] = "" for NoStringID
	index map[string]StringID
}

// NewInterner builds an interner pre-seeded with the empty string.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID for s, allocating one on first sight.
func (in *Interner) Intern(s string) StringID {
	in.mu.RLock()
	id, ok := in.index[s]
	in.mu.RUnlock()
	if ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[s]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	// Own copy, so the ID does not pin the caller's backing buffer.
	cpy := string([]byte(s))
	id = StringID(n)
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

// InternBytes interns the string form of b.
func (in *Interner) InternBytes(b []byte) StringID {
	return in.Intern(string(b))
}

// Lookup returns the string behind id, or false if id was never issued.
func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup returns the string behind id and panics on an invalid ID.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("invalid string ID %d", id))
	}
	return s
}

// Has reports whether id was issued by this interner.
func (in *Interner) Has(id StringID) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return int(id) < len(in.byID)
}

// Len returns the number of interned strings, NoStringID included.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byID)
}

// Snapshot returns a copy of every interned string, indexed by ID.
func (in *Interner) Snapshot() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return slices.Clone(in.byID)
}
