package cstore

// CrateNum identifies one external crate within a single compilation
// session. Numbers are assigned by the resolution driver; the store never
// invents them.
type CrateNum uint32

// NodeID identifies one extern-crate use site in the local crate's AST.
type NodeID uint32
