package mmfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenReadOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	path := filepath.Join(t.TempDir(), "heap.img")
	want := []byte{0, 0, 0, 0, 0x09, 0, 0, 0, 0x09, 0, 0, 0, 0x01, 0, 0, 0}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	im, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if im.Path != path {
		t.Fatalf("Path = %q", im.Path)
	}
	if len(im.Data) != len(want) {
		t.Fatalf("len mismatch: got %d want %d", len(im.Data), len(want))
	}
	for i, b := range want {
		if im.Data[i] != b {
			t.Fatalf("byte %d mismatch: got 0x%x want 0x%x", i, im.Data[i], b)
		}
	}
	if err := im.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if im.Data != nil {
		t.Fatalf("Data still set after Close")
	}
	if err := im.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.img")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Open(path); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Open(empty) err = %v, want ErrEmpty", err)
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.img")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
