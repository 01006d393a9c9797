// Package link turns the crate store's link-relevant registries into the
// ordered inputs a linker invocation needs: crate artifacts in
// dependent-before-dependency order, native library tokens, and the raw
// pass-through arguments. Running the linker is someone else's job.
package link

import "ingot/internal/cstore"

// Plan is everything the link driver hands to the system linker, already
// ordered.
type Plan struct {
	// Crates lists used crate artifacts, dependents first. Path is empty
	// when the preferred artifact form was not recorded for the crate.
	Crates []cstore.UsedCrate
	// NativeLibs holds one token sequence per required native library,
	// first-occurrence order, duplicates collapsed.
	NativeLibs []string
	// ExtraArgs are the raw link arguments, verbatim and in order.
	ExtraArgs []string
}

// BuildPlan assembles the plan for one linkage preference. The native
// library registry keeps duplicates; collapsing them belongs to the
// consumer, so it happens here.
func BuildPlan(st *cstore.Store, pref cstore.LinkagePreference) Plan {
	libs := st.UsedLibraries()
	tokens := make([]string, 0, len(libs))
	seen := make(map[cstore.NativeLib]struct{}, len(libs))
	for _, lib := range libs {
		if _, dup := seen[lib]; dup {
			continue
		}
		seen[lib] = struct{}{}
		tokens = append(tokens, libTokens(lib)...)
	}

	return Plan{
		Crates:     st.UsedCrates(pref),
		NativeLibs: tokens,
		ExtraArgs:  st.UsedLinkArgs(),
	}
}

func libTokens(lib cstore.NativeLib) []string {
	switch lib.Kind {
	case cstore.NativeFramework:
		return []string{"-framework", lib.Name}
	case cstore.NativeStatic, cstore.NativeUnknown:
		return []string{"-l" + lib.Name}
	}
	return nil
}
