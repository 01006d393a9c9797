package cstore

import (
	"bytes"
	"testing"
)

func TestOwnedBlob(t *testing.T) {
	b := OwnedBlob([]byte("metadata"))
	if !bytes.Equal(b.Bytes(), []byte("metadata")) {
		t.Errorf("Bytes = %q", b.Bytes())
	}
	if b.FromArchive() {
		t.Error("owned blob claims to be archive-backed")
	}
}

func TestArchiveView(t *testing.T) {
	ar := NewArchive([]byte("prefix<meta>suffix"))
	if ar.Len() != 18 {
		t.Fatalf("Len = %d", ar.Len())
	}

	view, err := ar.View(6, 6)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if got := string(view.Bytes()); got != "<meta>" {
		t.Errorf("view bytes = %q", got)
	}
	if !view.FromArchive() {
		t.Error("archive view claims to be owned")
	}
}

func TestArchiveViewOutOfRange(t *testing.T) {
	ar := NewArchive([]byte("short"))
	cases := []struct {
		name        string
		off, length int
	}{
		{"past end", 3, 10},
		{"negative offset", -1, 2},
		{"negative length", 0, -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ar.View(tc.off, tc.length); err == nil {
				t.Errorf("View(%d, %d) should fail", tc.off, tc.length)
			}
		})
	}
}

func TestZeroBlob(t *testing.T) {
	var b MetadataBlob
	if b.Bytes() != nil {
		t.Errorf("zero blob bytes = %v", b.Bytes())
	}
}
