package arena

import (
	"context"

	"github.com/joshuapare/heapkit/heap/dirty"
)

// FileOptions configures a File arena.
type FileOptions struct {
	// MaxSize caps the file size. Zero means DefaultMaxHeap.
	MaxSize int64

	// FlushMode selects the durability of Sync. Default: dirty.FlushAuto.
	FlushMode dirty.FlushMode
}

func (o *FileOptions) maxSize() int64 {
	if o == nil || o.MaxSize <= 0 {
		return DefaultMaxHeap
	}
	return o.MaxSize
}

func (o *FileOptions) flushMode() dirty.FlushMode {
	if o == nil {
		return dirty.FlushAuto
	}
	return o.FlushMode
}

// Tracker returns the dirty tracker the allocator should mark.
func (f *File) Tracker() *dirty.Tracker { return f.dt }

// Sync flushes the pages marked dirty since the last Sync.
func (f *File) Sync(ctx context.Context) error {
	if f.data == nil && f.f == nil {
		return ErrClosed
	}
	return f.sync(ctx)
}

func (f *File) Lo() int { return 0 }

func (f *File) Hi() int { return int(f.size) - 1 }

// Size returns the current file size in bytes.
func (f *File) Size() int64 { return f.size }

// Path returns the path the arena was opened with.
func (f *File) Path() string { return f.path }
