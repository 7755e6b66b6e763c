package dirty

import (
	"cmp"
	"context"
	"os"
	"slices"
)

// FlushMode controls durability guarantees for Flush.
type FlushMode int

const (
	// FlushAuto msyncs dirty pages, then fdatasyncs the descriptor.
	// On macOS, uses fsync.
	FlushAuto FlushMode = iota

	// FlushDataOnly only flushes dirty pages via msync().
	// The caller is responsible for calling fdatasync() later.
	FlushDataOnly

	// FlushFull msyncs dirty pages and fdatasyncs the descriptor.
	// On macOS, uses F_FULLFSYNC for power-loss durability.
	FlushFull
)

// Range represents a dirty byte range (absolute arena offsets).
type Range struct {
	Off int64 // Offset from the arena start
	Len int64 // Length in bytes
}

func (r Range) end() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges and flushes them page by page.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	m        Mapping
	ranges   []Range // raw ranges, page-aligned at flush time
	pageSize int64
}

// NewTracker creates a dirty tracker for the given mapping.
func NewTracker(m Mapping) *Tracker {
	return &Tracker{
		m:        m,
		ranges:   make([]Range, 0, 64),
		pageSize: int64(os.Getpagesize()),
	}
}

// Add records a dirty range. A range that overlaps or touches the previous
// one extends it in place; the allocator writes a header, a footer and the
// links of one block in quick succession.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	r := Range{Off: int64(off), Len: int64(length)}
	if n := len(t.ranges); n > 0 {
		last := &t.ranges[n-1]
		if r.Off <= last.end() && last.Off <= r.end() {
			lo := min(last.Off, r.Off)
			last.Len = max(last.end(), r.end()) - lo
			last.Off = lo
			return
		}
	}
	t.ranges = append(t.ranges, r)
}

// Flush writes every dirty page back to the backing file and, depending on
// mode, syncs the descriptor. Ranges are cleared only when every range was
// flushed.
//
// The context is checked between ranges. If cancelled during flushing, some
// ranges may have been flushed while others have not.
func (t *Tracker) Flush(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := t.m.Bytes()
	if len(t.ranges) > 0 && len(data) > 0 {
		if err := t.flushRanges(ctx, data); err != nil {
			return err
		}
	}
	t.ranges = t.ranges[:0]

	if mode == FlushDataOnly {
		return nil
	}

	// Check for cancellation before fdatasync
	if err := ctx.Err(); err != nil {
		return err
	}

	fd := t.m.FD()
	if fd < 0 {
		return nil
	}
	return fdatasync(fd, mode == FlushFull)
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Pending reports whether any range is waiting to be flushed.
func (t *Tracker) Pending() bool {
	return len(t.ranges) > 0
}

// DebugRanges returns a copy of the raw ranges recorded so far.
func (t *Tracker) DebugRanges() []Range {
	return slices.Clone(t.ranges)
}

// Coalesced returns the page-aligned, sorted, merged ranges that a flush
// would write.
func (t *Tracker) Coalesced() []Range {
	return t.coalesce()
}

// coalesce rounds every range out to page boundaries and merges the ones
// that overlap or touch. The result is sorted by offset.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	ps := t.pageSize
	pages := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		lo := r.Off / ps * ps
		hi := (r.end() + ps - 1) / ps * ps
		pages[i] = Range{Off: lo, Len: hi - lo}
	}
	slices.SortFunc(pages, func(a, b Range) int { return cmp.Compare(a.Off, b.Off) })

	out := pages[:1]
	for _, r := range pages[1:] {
		last := &out[len(out)-1]
		if r.Off > last.end() {
			out = append(out, r)
			continue
		}
		last.Len = max(last.end(), r.end()) - last.Off
	}
	return out
}

// clamp trims r to a mapping of n bytes. ok is false when nothing remains.
func clamp(r Range, n int) (start, end int, ok bool) {
	start, end = int(r.Off), min(int(r.end()), n)
	return start, end, start < end
}
