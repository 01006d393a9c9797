package driver

import (
	"context"
	"fmt"
	"os"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"ingot/internal/cstore"
	"ingot/internal/metafile"
	"ingot/internal/source"
)

// Result is a populated session: the store plus the name→number
// assignment the driver made.
type Result struct {
	Store    *cstore.Store
	Manifest *Manifest
	Numbers  map[string]cstore.CrateNum
}

// Load reads a crates.toml and populates a fresh crate store from it:
// crate numbers are assigned in manifest order starting at 1, metadata
// blobs are read and validated concurrently, and sources, native
// libraries and link args are registered the way the resolution and
// codegen passes would register them.
func Load(ctx context.Context, manifestPath string) (*Result, error) {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return Populate(ctx, m, cstore.New(source.NewInterner(), metafile.Decoder{}))
}

// Populate fills st from an already-loaded manifest.
func Populate(ctx context.Context, m *Manifest, st *cstore.Store) (*Result, error) {
	numbers := make(map[string]cstore.CrateNum, len(m.Crates))
	for i, c := range m.Crates {
		num, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			return nil, fmt.Errorf("crate number overflow: %w", err)
		}
		numbers[c.Name] = cstore.CrateNum(num)
	}

	// Metadata reads are independent; fan out like the compile driver
	// does for source files.
	blobs := make([][]byte, len(m.Crates))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range m.Crates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(m.resolve(c.Metadata))
			if err != nil {
				return fmt.Errorf("failed to read metadata for crate %q: %w", c.Name, err)
			}
			h, err := metafile.DecodeHeader(data)
			if err != nil {
				return fmt.Errorf("crate %q: %w", c.Name, err)
			}
			if h.Name != c.Name {
				return fmt.Errorf("crate %q: metadata was compiled as %q", c.Name, h.Name)
			}
			blobs[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	interner := st.Strings()
	for i, c := range m.Crates {
		num := numbers[c.Name]
		interner.Intern(c.Name)

		// The crate's private numbering of its own dependencies is its
		// deps-list position, 1-based; DepMap remaps it into this
		// session's numbering.
		depMap := make(map[cstore.CrateNum]cstore.CrateNum, len(c.Deps))
		for j, dep := range c.Deps {
			foreign, err := safecast.Conv[uint32](j + 1)
			if err != nil {
				return nil, fmt.Errorf("crate number overflow: %w", err)
			}
			depMap[cstore.CrateNum(foreign)] = numbers[dep]
		}

		st.SetCrateData(num, &cstore.CrateMetadata{
			Name:   c.Name,
			Data:   cstore.OwnedBlob(blobs[i]),
			DepMap: depMap,
			Num:    num,
		})
		st.AddUsedCrateSource(cstore.CrateSource{
			Dylib: m.resolve(c.Dylib),
			Rlib:  m.resolve(c.Rlib),
			Num:   num,
		})
		// Each manifest entry stands in for one extern-crate statement.
		st.AddExternModStmtCnum(cstore.NodeID(num), num)

		for _, lib := range c.Libs {
			kind, err := parseLibKind(lib.Kind)
			if err != nil {
				return nil, fmt.Errorf("crate %q: %w", c.Name, err)
			}
			interner.Intern(lib.Name)
			st.AddUsedLibrary(lib.Name, kind)
		}
		if c.LinkArgs != "" {
			st.AddUsedLinkArgs(c.LinkArgs)
		}
	}

	return &Result{Store: st, Manifest: m, Numbers: numbers}, nil
}
