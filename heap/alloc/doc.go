// Package alloc implements a boundary-tag allocator with an explicit free
// list over a single growable arena.
//
// # Overview
//
// The allocator carves variable-length blocks out of an arena.Arena. Each
// block is bracketed by identical 4-byte header and footer tags holding its
// size and allocation bit, so both neighbours of any block are reachable in
// O(1) without a side table. Free blocks are threaded onto a doubly linked
// list stored in their own payloads.
//
// # Heap Layout
//
//	0x00  pad        4 bytes, always zero
//	0x04  prologue   header + footer, size 8, allocated
//	0x0C  blocks     header | payload | footer, size >= 24, multiple of 8
//	 ...  epilogue   header only, size 0, allocated, last word of the arena
//
// A Ptr is the arena offset of a block payload. Payloads are 8-byte aligned.
// Offset 0 is the pad word, so Null == 0 is never a valid payload.
//
// # Policy
//
//   - First fit from the head of the free list
//   - Freed and split-off blocks are appended at the tail
//   - Split on placement when the remainder is at least MinChunkSize
//   - Coalescing is exhaustive: merge left, then right, until both
//     neighbours are allocated
//   - Growth requests max(adjusted size, ExtendSize) bytes from the arena
//
// # Usage Example
//
//	a := arena.NewMemory(0)
//	h, err := alloc.New(a, nil)
//	if err != nil {
//	    return err
//	}
//
//	p, err := h.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	buf, _ := h.Bytes(p)
//	copy(buf, payload)
//
//	p, err = h.Realloc(p, 400)
//	...
//	err = h.Free(p)
//
// # Validation
//
// Check and Validate run the heap/verify validator over the live heap. With
// Options.Debug (or HEAP_DEBUG set in the environment) every public call
// validates before returning and fails with a *verify.Error, which unwraps to
// ErrCorrupt.
//
// # Thread Safety
//
// An Allocator is not safe for concurrent use. Independent allocators over
// independent arenas share no state.
package alloc
