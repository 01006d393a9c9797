// Package cstore is the crate store: the per-session registry for
// information collected about external crates and libraries.
//
// The store tracks decoded metadata for every externally-resolved crate,
// the on-disk artifacts it can be linked from, the native libraries and
// raw linker arguments codegen accumulates, and the per-use-site results
// of extern-crate resolution. At link time it derives the
// dependency-respecting order in which crate artifacts must be handed to
// the system linker.
//
// The store performs no I/O. Locating crate files is the loader's job and
// parsing metadata bytes is the decoder's; both are consumed here as
// opaque collaborators.
package cstore
