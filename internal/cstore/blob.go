package cstore

import "fmt"

// Archive is an externally-owned container (typically a memory-mapped
// static archive) that metadata blobs can borrow from. Views keep a
// pointer to their Archive, so the handle stays alive as long as any view
// does; the loader that produced the archive decides when the last
// reference drops.
type Archive struct {
	data []byte
}

// NewArchive wraps loader-produced archive bytes.
func NewArchive(data []byte) *Archive {
	return &Archive{data: data}
}

// Len returns the archive size in bytes.
func (a *Archive) Len() int { return len(a.data) }

// View carves a metadata blob out of the archive without copying.
func (a *Archive) View(off, length int) (MetadataBlob, error) {
	if off < 0 || length < 0 || off+length > len(a.data) {
		return MetadataBlob{}, fmt.Errorf("archive view [%d:%d) out of range (archive is %d bytes)", off, off+length, len(a.data))
	}
	return MetadataBlob{ar: a, off: off, n: length}, nil
}

// MetadataBlob is the raw metadata of one crate: either a buffer the blob
// owns outright, or a borrowed window into an Archive. Either way it reads
// as a plain byte slice.
type MetadataBlob struct {
	owned []byte
	ar    *Archive
	off   int
	n     int
}

// OwnedBlob wraps an owned metadata buffer.
func OwnedBlob(data []byte) MetadataBlob {
	return MetadataBlob{owned: data}
}

// Bytes returns the metadata as a byte slice. Callers must not mutate it.
func (b MetadataBlob) Bytes() []byte {
	if b.ar != nil {
		return b.ar.data[b.off : b.off+b.n]
	}
	return b.owned
}

// FromArchive reports whether the blob borrows from an archive rather
// than owning its buffer.
func (b MetadataBlob) FromArchive() bool { return b.ar != nil }
