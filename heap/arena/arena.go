// Package arena provides the contiguous memory regions a heapkit allocator
// manages. An arena only grows at its high end; the allocator asks for more
// space through Grow and never obtains memory any other way.
//
// # Implementations
//
//   - Memory: a fixed-ceiling in-memory region (the classic memlib model)
//   - File: a memory-mapped file grown by ftruncate + remap
//   - Static: an existing byte image that cannot grow
//
// # Stability of views
//
// Bytes returns a view of the current extent. A File arena remaps on Grow, so
// any slice obtained before a Grow call must be considered stale afterwards.
// Allocators hold offsets, never slices.
package arena

import "errors"

var (
	// ErrExhausted indicates the arena cannot grow by the requested amount.
	ErrExhausted = errors.New("arena: exhausted")

	// ErrClosed indicates an operation on a closed arena.
	ErrClosed = errors.New("arena: closed")

	// ErrBadGrow indicates a negative growth request.
	ErrBadGrow = errors.New("arena: negative grow")
)

// Arena is the growth primitive consumed by the allocator.
type Arena interface {
	// Grow extends the arena by n bytes and returns the offset at which the
	// newly appended region starts. On failure the arena is unchanged.
	Grow(n int) (int, error)

	// Bytes returns the arena contents from Lo to Hi inclusive.
	Bytes() []byte

	// Lo returns the offset of the first byte of the arena.
	Lo() int

	// Hi returns the offset of the last byte of the arena (Lo-1 when empty).
	Hi() int
}

// Contains reports whether off lies within the current bounds of a.
func Contains(a Arena, off int) bool {
	return off >= a.Lo() && off <= a.Hi()
}
