// Package driver plays the resolution-driver role for the CLI: it reads
// a crates.toml manifest describing the session's external crates, loads
// their metadata blobs, and populates a crate store the way the
// compiler's resolution pass would.
package driver

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"ingot/internal/cstore"
)

// Manifest mirrors crates.toml.
type Manifest struct {
	Package PackageConfig `toml:"package"`
	Crates  []CrateConfig `toml:"crate"`

	// Root is the directory the manifest was loaded from; relative paths
	// inside the manifest resolve against it.
	Root string `toml:"-"`
}

// PackageConfig describes the crate being compiled.
type PackageConfig struct {
	Name string `toml:"name"`
}

// CrateConfig describes one external crate of the session.
type CrateConfig struct {
	Name     string      `toml:"name"`
	Metadata string      `toml:"metadata"`
	Dylib    string      `toml:"dylib"`
	Rlib     string      `toml:"rlib"`
	Deps     []string    `toml:"deps"`
	Libs     []LibConfig `toml:"libs"`
	LinkArgs string      `toml:"link_args"`
}

// LibConfig is one native library requirement of a crate.
type LibConfig struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
}

// LoadManifest reads and validates a crates.toml.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	m.Root = filepath.Dir(path)

	seen := make(map[string]struct{}, len(m.Crates))
	for _, c := range m.Crates {
		if c.Name == "" {
			return nil, fmt.Errorf("manifest %q: crate entry without a name", path)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("manifest %q: duplicate crate %q", path, c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.Metadata == "" {
			return nil, fmt.Errorf("manifest %q: crate %q has no metadata path", path, c.Name)
		}
		if c.Dylib == "" && c.Rlib == "" {
			return nil, fmt.Errorf("manifest %q: crate %q has neither dylib nor rlib", path, c.Name)
		}
		for _, dep := range c.Deps {
			if _, ok := seen[dep]; !ok && !declaresLater(m.Crates, dep) {
				return nil, fmt.Errorf("manifest %q: crate %q depends on unknown crate %q", path, c.Name, dep)
			}
		}
		for _, lib := range c.Libs {
			if lib.Name == "" {
				return nil, fmt.Errorf("manifest %q: crate %q lists a native library without a name", path, c.Name)
			}
			if _, err := parseLibKind(lib.Kind); err != nil {
				return nil, fmt.Errorf("manifest %q: crate %q: %w", path, c.Name, err)
			}
		}
	}
	return &m, nil
}

func declaresLater(crates []CrateConfig, name string) bool {
	for _, c := range crates {
		if c.Name == name {
			return true
		}
	}
	return false
}

func parseLibKind(kind string) (cstore.NativeLibKind, error) {
	switch kind {
	case "static":
		return cstore.NativeStatic, nil
	case "framework":
		return cstore.NativeFramework, nil
	case "", "dylib":
		return cstore.NativeUnknown, nil
	}
	return 0, fmt.Errorf("unknown native library kind %q (must be static, framework or dylib)", kind)
}

// resolve makes a manifest-relative path absolute against the manifest
// root.
func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Root, path)
}
