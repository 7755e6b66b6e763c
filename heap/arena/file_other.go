//go:build !linux && !darwin && !freebsd

package arena

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/heapkit/heap/dirty"
)

// File is an arena backed by a file on platforms without mmap support. The
// contents live in memory and Sync writes dirty pages back with WriteAt.
//
// NOT thread-safe.
type File struct {
	f    *os.File
	path string
	data []byte
	size int64
	max  int64
	mode dirty.FlushMode
	dt   *dirty.Tracker
}

// CreateFile creates (or truncates) path and returns an empty file arena.
func CreateFile(path string, opts *FileOptions) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	a := &File{f: f, path: path, max: opts.maxSize(), mode: opts.flushMode()}
	a.dt = dirty.NewTracker(a)
	return a, nil
}

// OpenFile loads an existing heap image into memory.
func OpenFile(path string, opts *FileOptions) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		f.Close()
		return nil, fmt.Errorf("arena: empty heap image: %s", path)
	}

	buf := make([]byte, sz)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, err
	}

	a := &File{f: f, path: path, data: buf, size: sz, max: opts.maxSize(), mode: opts.flushMode()}
	if sz > a.max {
		a.max = sz
	}
	a.dt = dirty.NewTracker(a)
	return a, nil
}

// Grow extends the in-memory buffer and the file by n bytes.
func (a *File) Grow(n int) (int, error) {
	if a.f == nil {
		return 0, ErrClosed
	}
	if n < 0 {
		return 0, ErrBadGrow
	}
	old := a.size
	if n == 0 {
		return int(old), nil
	}
	newSize := old + int64(n)
	if newSize > a.max {
		return 0, fmt.Errorf("%w: grow %d bytes, %d of %d in use", ErrExhausted, n, old, a.max)
	}

	if err := a.f.Truncate(newSize); err != nil {
		return 0, fmt.Errorf("%w: truncate: %w", ErrExhausted, err)
	}

	newData := make([]byte, newSize)
	copy(newData, a.data)
	a.data = newData
	a.size = newSize
	return int(old), nil
}

func (a *File) Bytes() []byte { return a.data }

// FD returns -1: there is no mapping to sync through a descriptor.
func (a *File) FD() int { return -1 }

func (a *File) sync(ctx context.Context) error {
	for _, r := range a.dt.Coalesced() {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := r.Off + r.Len
		if end > a.size {
			end = a.size
		}
		if r.Off >= end {
			continue
		}
		if _, err := a.f.WriteAt(a.data[r.Off:end], r.Off); err != nil {
			return err
		}
	}
	a.dt.Reset()
	if a.mode == dirty.FlushDataOnly {
		return nil
	}
	return a.f.Sync()
}

// Close closes the file. Call Sync first for durability.
func (a *File) Close() error {
	a.data = nil
	if a.f == nil {
		return nil
	}
	err := a.f.Close()
	a.f = nil
	return err
}
