package cstore

// VersionHash is the structural hash of a crate's interface, used to
// detect version skew between the crate as compiled and as referenced.
type VersionHash string

// CrateID names a specific crate build.
type CrateID struct {
	Name    string
	Version string
	Hash    VersionHash
}

// Decoder is the external metadata decoder, consumed as two pure
// functions over a crate's raw metadata bytes. The store never parses
// metadata itself and never caches decoder results.
type Decoder interface {
	CrateHash(data []byte) VersionHash
	CrateID(data []byte) CrateID
}

// CrateMetadata is one crate's registry record.
//
// DepMap translates crate numbers as the dependency itself enumerated
// them into this session's numbering. Every external crate was compiled
// independently with its own private numbering of its dependencies, so
// cross-crate references cannot be followed without this remap.
type CrateMetadata struct {
	Name   string
	Data   MetadataBlob
	DepMap map[CrateNum]CrateNum
	Num    CrateNum
}

// Bytes returns the record's raw metadata.
func (m *CrateMetadata) Bytes() []byte { return m.Data.Bytes() }

// LinkagePreference selects which artifact form of a crate the linker
// should be given when both exist.
type LinkagePreference uint8

const (
	RequireDynamic LinkagePreference = iota
	RequireStatic
)

func (p LinkagePreference) String() string {
	switch p {
	case RequireDynamic:
		return "dynamic"
	case RequireStatic:
		return "static"
	}
	return "unknown"
}

// NativeLibKind classifies a required native library.
type NativeLibKind uint8

const (
	// NativeStatic is a native static library (.a archive).
	NativeStatic NativeLibKind = iota
	// NativeFramework is an OSX framework.
	NativeFramework
	// NativeUnknown is the default way to specify a dynamic library.
	NativeUnknown
)

func (k NativeLibKind) String() string {
	switch k {
	case NativeStatic:
		return "static"
	case NativeFramework:
		return "framework"
	case NativeUnknown:
		return "dylib"
	}
	return "invalid"
}

// NativeLib is one native library codegen requires at link time.
type NativeLib struct {
	Name string
	Kind NativeLibKind
}

// CrateSource records where a crate lives on the local filesystem. An
// empty string means the artifact form is absent; at least one of Dylib
// and Rlib must be present.
type CrateSource struct {
	Dylib string
	Rlib  string
	Num   CrateNum
}

// UsedCrate is one entry of the link-order result: a crate number and the
// artifact path selected by the linkage preference (empty if the
// preferred form is absent).
type UsedCrate struct {
	Num  CrateNum
	Path string
}
