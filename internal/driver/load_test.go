package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ingot/internal/cstore"
	"ingot/internal/metafile"
)

func writeMetadata(t *testing.T, dir, name, version, hash string) string {
	t.Helper()
	path := filepath.Join(dir, name+".igm")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	h := metafile.Header{Name: name, Version: version, Hash: hash}
	if err := metafile.Encode(f, h, []byte("payload-"+name)); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "crates.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const testManifest = `
[package]
name = "app"

[[crate]]
name = "base"
metadata = "base.igm"
rlib = "libbase.rlib"
dylib = "libbase.so"

[[crate]]
name = "middle"
metadata = "middle.igm"
rlib = "libmiddle.rlib"
deps = ["base"]
link_args = "-L vendor/lib"

[[crate.libs]]
name = "m"
kind = "dylib"

[[crate]]
name = "top"
metadata = "top.igm"
rlib = "libtop.rlib"
deps = ["middle", "base"]
`

func loadTestSession(t *testing.T) *Result {
	t.Helper()
	dir := t.TempDir()
	writeMetadata(t, dir, "base", "1.0.0", "aaaa")
	writeMetadata(t, dir, "middle", "0.3.0", "bbbb")
	writeMetadata(t, dir, "top", "0.1.0", "cccc")
	manifest := writeManifest(t, dir, testManifest)

	res, err := Load(context.Background(), manifest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return res
}

func TestLoadPopulatesStore(t *testing.T) {
	res := loadTestSession(t)
	st := res.Store

	if len(res.Numbers) != 3 {
		t.Fatalf("Numbers = %v", res.Numbers)
	}
	for name, num := range res.Numbers {
		if !st.HaveCrateData(num) {
			t.Errorf("crate %q (#%d) missing from the store", name, num)
		}
		if got := st.CrateID(num).Name; got != name {
			t.Errorf("decoded name for #%d = %q, want %q", num, got, name)
		}
		if resolved, ok := st.FindExternModStmtCnum(cstore.NodeID(num)); !ok || resolved != num {
			t.Errorf("use site for %q not registered", name)
		}
	}

	// DepMap of "top" remaps its private numbering {1,2} onto the
	// session numbers of middle and base.
	top := st.GetCrateData(res.Numbers["top"])
	if len(top.DepMap) != 2 {
		t.Fatalf("top.DepMap = %v", top.DepMap)
	}
	if top.DepMap[1] != res.Numbers["middle"] || top.DepMap[2] != res.Numbers["base"] {
		t.Errorf("top.DepMap = %v, numbers %v", top.DepMap, res.Numbers)
	}

	if got := st.CrateHash(res.Numbers["middle"]); got != "bbbb" {
		t.Errorf("middle hash = %q", got)
	}

	libs := st.UsedLibraries()
	if len(libs) != 1 || libs[0].Name != "m" || libs[0].Kind != cstore.NativeUnknown {
		t.Errorf("libraries = %v", libs)
	}
	args := st.UsedLinkArgs()
	if len(args) != 2 || args[0] != "-L" || args[1] != "vendor/lib" {
		t.Errorf("link args = %v", args)
	}

	// Crate names end up in the shared interner.
	snap := st.Strings().Snapshot()
	joined := strings.Join(snap, " ")
	for _, name := range []string{"base", "middle", "top"} {
		if !strings.Contains(joined, name) {
			t.Errorf("crate name %q not interned", name)
		}
	}
}

func TestLoadLinkOrder(t *testing.T) {
	res := loadTestSession(t)
	crates := res.Store.UsedCrates(cstore.RequireStatic)

	pos := make(map[cstore.CrateNum]int, len(crates))
	for i, c := range crates {
		pos[c.Num] = i
	}
	if !(pos[res.Numbers["top"]] < pos[res.Numbers["middle"]] &&
		pos[res.Numbers["middle"]] < pos[res.Numbers["base"]]) {
		t.Errorf("link order %v does not respect top -> middle -> base", crates)
	}
	for _, c := range crates {
		if c.Path == "" {
			t.Errorf("crate #%d has no rlib path in a static plan", c.Num)
		}
	}
}

func TestLoadManifestValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unnamed crate",
			body: "[[crate]]\nmetadata = \"x.igm\"\nrlib = \"x.rlib\"\n",
			want: "without a name",
		},
		{
			name: "duplicate crate",
			body: "[[crate]]\nname = \"a\"\nmetadata = \"a.igm\"\nrlib = \"a.rlib\"\n\n[[crate]]\nname = \"a\"\nmetadata = \"a.igm\"\nrlib = \"a.rlib\"\n",
			want: "duplicate crate",
		},
		{
			name: "no artifacts",
			body: "[[crate]]\nname = \"a\"\nmetadata = \"a.igm\"\n",
			want: "neither dylib nor rlib",
		},
		{
			name: "unknown dependency",
			body: "[[crate]]\nname = \"a\"\nmetadata = \"a.igm\"\nrlib = \"a.rlib\"\ndeps = [\"ghost\"]\n",
			want: "unknown crate",
		},
		{
			name: "bad lib kind",
			body: "[[crate]]\nname = \"a\"\nmetadata = \"a.igm\"\nrlib = \"a.rlib\"\n\n[[crate.libs]]\nname = \"m\"\nkind = \"shared\"\n",
			want: "unknown native library kind",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeManifest(t, dir, tc.body)
			_, err := LoadManifest(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadRejectsMismatchedMetadata(t *testing.T) {
	dir := t.TempDir()
	// Metadata compiled as "other" but declared as "base".
	path := writeMetadata(t, dir, "other", "1.0.0", "aaaa")
	if err := os.Rename(path, filepath.Join(dir, "base.igm")); err != nil {
		t.Fatal(err)
	}
	manifest := writeManifest(t, dir, "[[crate]]\nname = \"base\"\nmetadata = \"base.igm\"\nrlib = \"libbase.rlib\"\n")

	_, err := Load(context.Background(), manifest)
	if err == nil || !strings.Contains(err.Error(), "compiled as") {
		t.Errorf("err = %v, want metadata name mismatch", err)
	}
}
