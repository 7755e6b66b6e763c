package alloc

import (
	"io"
	"log/slog"
	"os"

	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/internal/format"
)

// Runtime toggles, read once at startup.
var (
	logAlloc  = os.Getenv("HEAP_LOG_ALLOC") != ""
	debugHeap = os.Getenv("HEAP_DEBUG") != ""
)

// Options configures an Allocator. A nil *Options means DefaultOptions().
type Options struct {
	// ExtendSize is the smallest number of bytes requested from the arena
	// on a fit miss. Rounded up to a multiple of 8, at least MinChunkSize.
	// Default: format.ExtendSize (512).
	ExtendSize int

	// Logger receives allocator events at debug level and validation
	// failures at error level. Default: discard, or stderr when
	// HEAP_LOG_ALLOC is set.
	Logger *slog.Logger

	// Debug validates the whole heap after every public call.
	// Also enabled by a non-empty HEAP_DEBUG.
	Debug bool

	// Dirty is notified of every byte range the allocator writes. Pass the
	// tracker of a file arena so Sync flushes only touched pages.
	Dirty dirty.DirtyTracker

	// CheckOut receives verbose Check output. Default: os.Stdout.
	CheckOut io.Writer
}

// DefaultOptions returns the default allocator configuration.
func DefaultOptions() *Options {
	return &Options{
		ExtendSize: format.ExtendSize,
	}
}

func (o *Options) extendSize() int {
	if o == nil || o.ExtendSize <= 0 {
		return format.ExtendSize
	}
	n := format.Align8(o.ExtendSize)
	if n < format.MinChunkSize {
		n = format.MinChunkSize
	}
	return n
}

func (o *Options) logger() *slog.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return defaultLogger()
}

func (o *Options) debug() bool {
	return debugHeap || (o != nil && o.Debug)
}

func (o *Options) dirty() dirty.DirtyTracker {
	if o == nil || o.Dirty == nil {
		return noDirty{}
	}
	return o.Dirty
}

func (o *Options) checkOut() io.Writer {
	if o == nil || o.CheckOut == nil {
		return os.Stdout
	}
	return o.CheckOut
}

type noDirty struct{}

func (noDirty) Add(int, int) {}
