package cstore

import "fmt"

// borrowCell enforces the store's single-threaded borrow discipline at
// runtime: any number of overlapping shared borrows, never a mutable
// borrow overlapping anything. A conflicting re-entrant access (say,
// SetCrateData called from inside IterCrateData) is an upstream-pass bug
// and must fail immediately and loudly, not deadlock or corrupt the
// registry, so conflicts panic. This is deliberately not an OS lock:
// concurrent access is not a design goal.
type borrowCell struct {
	what    string
	readers int
	mutable bool
}

// borrow takes a shared borrow and returns its release func.
func (c *borrowCell) borrow() func() {
	if c.mutable {
		panic(fmt.Sprintf("cstore: %s registry is already mutably borrowed", c.what))
	}
	c.readers++
	return func() { c.readers-- }
}

// borrowMut takes the exclusive borrow and returns its release func.
func (c *borrowCell) borrowMut() func() {
	if c.mutable || c.readers > 0 {
		panic(fmt.Sprintf("cstore: %s registry is already borrowed", c.what))
	}
	c.mutable = true
	return func() { c.mutable = false }
}
