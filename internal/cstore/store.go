package cstore

import (
	"fmt"
	"strings"

	"ingot/internal/source"
)

// Store aggregates the five per-session crate registries. One Store is
// built per compilation session; entries accumulate monotonically until
// Reset. There is no way to remove a single entry.
type Store struct {
	metas      map[CrateNum]*CrateMetadata
	externMods map[NodeID]CrateNum
	sources    []CrateSource
	libs       []NativeLib
	linkArgs   []string

	metasCell   borrowCell
	externCell  borrowCell
	sourcesCell borrowCell
	libsCell    borrowCell
	argsCell    borrowCell

	strings *source.Interner
	dec     Decoder
}

// New builds an empty store around the session's shared string interner
// and the external metadata decoder. Both are externally owned; the store
// never mutates the interner and Reset leaves both in place.
func New(interner *source.Interner, dec Decoder) *Store {
	return &Store{
		metas:       make(map[CrateNum]*CrateMetadata),
		externMods:  make(map[NodeID]CrateNum),
		metasCell:   borrowCell{what: "crate metadata"},
		externCell:  borrowCell{what: "extern mod"},
		sourcesCell: borrowCell{what: "crate source"},
		libsCell:    borrowCell{what: "native library"},
		argsCell:    borrowCell{what: "link args"},
		strings:     interner,
		dec:         dec,
	}
}

// Strings returns the shared interner the store was constructed with.
func (s *Store) Strings() *source.Interner { return s.strings }

// SetCrateData registers metadata for a crate number. An existing record
// is silently replaced; no conflict check is performed, so a resolution
// pass that re-registers a crate gets last-write-wins semantics.
func (s *Store) SetCrateData(num CrateNum, meta *CrateMetadata) {
	release := s.metasCell.borrowMut()
	defer release()
	s.metas[num] = meta
}

// GetCrateData returns the metadata registered for num. Looking up a
// crate number that was never registered is an upstream resolution bug
// and panics.
func (s *Store) GetCrateData(num CrateNum) *CrateMetadata {
	release := s.metasCell.borrow()
	defer release()
	meta, ok := s.metas[num]
	if !ok {
		panic(fmt.Sprintf("cstore: no metadata registered for crate %d", num))
	}
	return meta
}

// HaveCrateData reports whether metadata is registered for num.
func (s *Store) HaveCrateData(num CrateNum) bool {
	release := s.metasCell.borrow()
	defer release()
	_, ok := s.metas[num]
	return ok
}

// IterCrateData applies visit to every registered crate. Iteration order
// is unspecified. The metadata registry stays borrowed for the duration,
// so visit must not register crates.
func (s *Store) IterCrateData(visit func(CrateNum, *CrateMetadata)) {
	release := s.metasCell.borrow()
	defer release()
	for num, meta := range s.metas {
		visit(num, meta)
	}
}

// CrateHash decodes the version hash out of num's metadata. The result is
// not cached; diagnostics call this rarely.
func (s *Store) CrateHash(num CrateNum) VersionHash {
	return s.dec.CrateHash(s.GetCrateData(num).Bytes())
}

// CrateID decodes the identity triple out of num's metadata.
func (s *Store) CrateID(num CrateNum) CrateID {
	return s.dec.CrateID(s.GetCrateData(num).Bytes())
}

// AddUsedCrateSource records where a used crate lives on disk. A source
// structurally equal to an already-recorded one is dropped; distinct
// paths for the same crate number are kept as distinct entries.
func (s *Store) AddUsedCrateSource(src CrateSource) {
	release := s.sourcesCell.borrowMut()
	defer release()
	for _, have := range s.sources {
		if have == src {
			return
		}
	}
	s.sources = append(s.sources, src)
}

// GetUsedCrateSource returns the first recorded source for num, in
// insertion order. Absence is a normal outcome, not an error.
func (s *Store) GetUsedCrateSource(num CrateNum) (CrateSource, bool) {
	release := s.sourcesCell.borrow()
	defer release()
	for _, src := range s.sources {
		if src.Num == num {
			return src, true
		}
	}
	return CrateSource{}, false
}

// UsedCrateSources returns a copy of the source registry in insertion
// order.
func (s *Store) UsedCrateSources() []CrateSource {
	release := s.sourcesCell.borrow()
	defer release()
	out := make([]CrateSource, len(s.sources))
	copy(out, s.sources)
	return out
}

// AddUsedLibrary records a native library requirement. The name must be
// non-empty regardless of kind; an empty name is a codegen bug and
// panics. Duplicates are recorded as-is; deduplication is the link-plan
// consumer's job.
func (s *Store) AddUsedLibrary(name string, kind NativeLibKind) {
	if name == "" {
		panic("cstore: native library name must not be empty")
	}
	release := s.libsCell.borrowMut()
	defer release()
	s.libs = append(s.libs, NativeLib{Name: name, Kind: kind})
}

// UsedLibraries returns a copy of the native library registry in
// insertion order, duplicates included.
func (s *Store) UsedLibraries() []NativeLib {
	release := s.libsCell.borrow()
	defer release()
	out := make([]NativeLib, len(s.libs))
	copy(out, s.libs)
	return out
}

// AddUsedLinkArgs splits args on single spaces and appends every token,
// preserving order. Empty tokens produced by runs of spaces are dropped:
// the linker must never see an empty argv entry.
func (s *Store) AddUsedLinkArgs(args string) {
	release := s.argsCell.borrowMut()
	defer release()
	for tok := range strings.SplitSeq(args, " ") {
		if tok == "" {
			continue
		}
		s.linkArgs = append(s.linkArgs, tok)
	}
}

// UsedLinkArgs returns a copy of the accumulated raw linker arguments.
func (s *Store) UsedLinkArgs() []string {
	release := s.argsCell.borrow()
	defer release()
	out := make([]string, len(s.linkArgs))
	copy(out, s.linkArgs)
	return out
}

// AddExternModStmtCnum records which crate an extern-crate use site
// resolved to. Re-registering a use site overwrites.
func (s *Store) AddExternModStmtCnum(useSite NodeID, num CrateNum) {
	release := s.externCell.borrowMut()
	defer release()
	s.externMods[useSite] = num
}

// FindExternModStmtCnum looks up the resolution recorded for a use site.
func (s *Store) FindExternModStmtCnum(useSite NodeID) (CrateNum, bool) {
	release := s.externCell.borrow()
	defer release()
	num, ok := s.externMods[useSite]
	return num, ok
}

// Reset empties all five registries in place so the store can be reused
// across incremental stages. The interner and decoder are untouched.
func (s *Store) Reset() {
	releaseMetas := s.metasCell.borrowMut()
	releaseExtern := s.externCell.borrowMut()
	releaseSources := s.sourcesCell.borrowMut()
	releaseLibs := s.libsCell.borrowMut()
	releaseArgs := s.argsCell.borrowMut()
	defer releaseMetas()
	defer releaseExtern()
	defer releaseSources()
	defer releaseLibs()
	defer releaseArgs()

	clear(s.metas)
	clear(s.externMods)
	s.sources = s.sources[:0]
	s.libs = s.libs[:0]
	s.linkArgs = s.linkArgs[:0]
}
