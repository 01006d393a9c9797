// Package metafile defines the on-disk container for ingot crate
// metadata: a fixed magic, a small schema-versioned msgpack header with
// the crate's identity, then the opaque metadata payload. The crate store
// itself never looks inside metadata bytes; this package is the decoder
// collaborator it delegates to.
package metafile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"ingot/internal/cstore"
)

// SchemaVersion is bumped whenever the header format changes; readers
// reject anything newer than they understand.
const SchemaVersion uint16 = 1

var magic = [4]byte{'I', 'G', 'M', 'D'}

// ErrNotMetadata is returned when the input does not start with the
// metadata magic.
var ErrNotMetadata = errors.New("metafile: not an ingot metadata file")

// Header identifies the crate a metadata blob was compiled from.
type Header struct {
	Schema  uint16
	Name    string
	Version string
	Hash    string
}

// Encode writes magic, header and payload to w.
func Encode(w io.Writer, h Header, payload []byte) error {
	h.Schema = SchemaVersion
	raw, err := msgpack.Marshal(&h)
	if err != nil {
		return fmt.Errorf("metafile: failed to encode header: %w", err)
	}
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(raw)))
	if _, err := w.Write(size[:]); err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// DecodeHeader parses the header out of a metadata blob.
func DecodeHeader(data []byte) (Header, error) {
	h, _, err := split(data)
	return h, err
}

// Payload returns the opaque metadata payload that follows the header.
func Payload(data []byte) ([]byte, error) {
	_, rest, err := split(data)
	return rest, err
}

func split(data []byte) (Header, []byte, error) {
	if len(data) < len(magic)+4 || !bytes.Equal(data[:len(magic)], magic[:]) {
		return Header{}, nil, ErrNotMetadata
	}
	size := binary.BigEndian.Uint32(data[len(magic) : len(magic)+4])
	body := data[len(magic)+4:]
	if uint64(size) > uint64(len(body)) {
		return Header{}, nil, fmt.Errorf("metafile: truncated header (want %d bytes, have %d)", size, len(body))
	}
	var h Header
	if err := msgpack.Unmarshal(body[:size], &h); err != nil {
		return Header{}, nil, fmt.Errorf("metafile: failed to decode header: %w", err)
	}
	if h.Schema > SchemaVersion {
		return Header{}, nil, fmt.Errorf("metafile: unsupported schema version %d (max %d)", h.Schema, SchemaVersion)
	}
	return h, body[size:], nil
}

// Decoder implements cstore.Decoder over metafile blobs. The loader
// validates every blob before it reaches the store, so malformed bytes
// here are an invariant break and panic.
type Decoder struct{}

// CrateHash extracts the version hash from a metadata blob.
func (Decoder) CrateHash(data []byte) cstore.VersionHash {
	return cstore.VersionHash(mustHeader(data).Hash)
}

// CrateID extracts the identity triple from a metadata blob.
func (Decoder) CrateID(data []byte) cstore.CrateID {
	h := mustHeader(data)
	return cstore.CrateID{
		Name:    h.Name,
		Version: h.Version,
		Hash:    cstore.VersionHash(h.Hash),
	}
}

func mustHeader(data []byte) Header {
	h, err := DecodeHeader(data)
	if err != nil {
		panic(fmt.Errorf("metafile: undecodable metadata reached the crate store: %w", err))
	}
	return h
}
