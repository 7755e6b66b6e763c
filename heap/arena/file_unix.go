//go:build linux || darwin || freebsd

package arena

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/heap/dirty"
)

// File is an arena backed by a memory-mapped file. Grow extends the file with
// ftruncate and remaps it, so views returned by Bytes move on every Grow.
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

// OpenFile maps an existing heap image read-write.
func OpenFile(path string, opts *FileOptions) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("arena: empty heap image: %s", path)
	}

	a := &File{f: f, path: path, size: sz, max: opts.maxSize(), mode: opts.flushMode()}
	if sz > a.max {
		a.max = sz
	}
	data, err := a.mmap(sz)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("arena: mmap failed: %w", err)
	}
	a.data = data
	a.dt = dirty.NewTracker(a)
	return a, nil
}

func (a *File) mmap(size int64) ([]byte, error) {
	return unix.Mmap(int(a.f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

// Grow extends the file by n bytes and remaps it. The new bytes are
// zero-initialized by the OS. On failure the previous mapping is restored.
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

	// MAP_SHARED pages stay in the page cache across munmap, so dirty ranges
	// recorded against the old mapping remain valid offsets for the new one.
	if a.data != nil {
		if err := unix.Munmap(a.data); err != nil {
			return 0, fmt.Errorf("arena: unmap before grow: %w", err)
		}
		a.data = nil
	}

	if err := a.f.Truncate(newSize); err != nil {
		a.restore(old)
		return 0, fmt.Errorf("%w: truncate: %w", ErrExhausted, err)
	}

	data, err := a.mmap(newSize)
	if err != nil {
		_ = a.f.Truncate(old)
		a.restore(old)
		return 0, fmt.Errorf("%w: remap after grow: %w", ErrExhausted, err)
	}

	a.data = data
	a.size = newSize
	return int(old), nil
}

// restore remaps the previous size after a failed grow.
func (a *File) restore(size int64) {
	if size == 0 {
		return
	}
	data, err := a.mmap(size)
	if err == nil {
		a.data = data
	}
}

func (a *File) Bytes() []byte { return a.data }

// FD returns the file descriptor, or -1 once closed.
func (a *File) FD() int {
	if a.f == nil {
		return -1
	}
	return int(a.f.Fd())
}

func (a *File) sync(ctx context.Context) error {
	return a.dt.Flush(ctx, a.mode)
}

// Close flushes nothing; call Sync first for durability. It unmaps and
// closes the file.
func (a *File) Close() error {
	var errs []error
	if a.data != nil {
		if err := unix.Munmap(a.data); err != nil && !errors.Is(err, unix.EINVAL) {
			errs = append(errs, err)
		}
		a.data = nil
	}
	if a.f != nil {
		errs = append(errs, a.f.Close())
		a.f = nil
	}
	return errors.Join(errs...)
}
