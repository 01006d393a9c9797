package cstore

import (
	"slices"
	"sort"
	"strconv"
)

// UsedCrates computes the order in which used crate artifacts must be
// handed to the system linker, selecting the dylib or rlib path of each
// recorded source per pref.
//
// The linker expects undefined symbols on the left of the command line to
// be defined in libraries on the right, so for every dependency edge the
// dependency must land strictly after its dependent. Registered crates
// form a DAG (cycles between external crates are rejected upstream); a
// depth-first post-order over every registered crate, reversed, gives
// exactly that ordering, with shared diamond dependencies visited once.
func (s *Store) UsedCrates(pref LinkagePreference) []UsedCrate {
	ordering := s.linkOrdering()

	pos := make(map[CrateNum]int, len(ordering))
	for i, num := range ordering {
		pos[num] = i
	}

	release := s.sourcesCell.borrow()
	libs := make([]UsedCrate, 0, len(s.sources))
	for _, src := range s.sources {
		path := src.Dylib
		if pref == RequireStatic {
			path = src.Rlib
		}
		libs = append(libs, UsedCrate{Num: src.Num, Path: path})
	}
	release()

	// Sources whose crate number is missing from the ordering cannot
	// occur for a consistent registry; sorting them last keeps the
	// comparator total and the result reproducible regardless.
	rank := func(num CrateNum) int {
		if i, ok := pos[num]; ok {
			return i
		}
		return len(ordering)
	}
	sort.SliceStable(libs, func(i, j int) bool {
		return rank(libs[i].Num) < rank(libs[j].Num)
	})
	return libs
}

// linkOrdering returns every registered crate in
// dependent-before-dependency order.
func (s *Store) linkOrdering() []CrateNum {
	release := s.metasCell.borrow()
	defer release()

	ordering := make([]CrateNum, 0, len(s.metas))
	visited := make(map[CrateNum]struct{}, len(s.metas))
	var visit func(num CrateNum)
	visit = func(num CrateNum) {
		if _, seen := visited[num]; seen {
			return
		}
		visited[num] = struct{}{}
		meta, ok := s.metas[num]
		if !ok {
			panic("cstore: link ordering reached unregistered crate " + strconv.FormatUint(uint64(num), 10))
		}
		for _, dep := range meta.DepMap {
			visit(dep)
		}
		ordering = append(ordering, num)
	}
	for num := range s.metas {
		visit(num)
	}
	slices.Reverse(ordering)
	return ordering
}
