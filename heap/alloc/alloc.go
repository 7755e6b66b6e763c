package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Alloc allocates a block with at least size bytes of payload and returns
// its payload offset. size must be positive.
//
// The free list is searched first fit. On a miss the arena grows by
// max(adjusted size, ExtendSize) and the new region is coalesced with a
// free predecessor before placement. If growth fails the heap is unchanged
// and the error wraps ErrExhausted.
func (al *Allocator) Alloc(size int) (Ptr, error) {
	al.stats.AllocCalls++
	bp, err := al.alloc(size)
	if err != nil {
		al.stats.AllocFailures++
		return Null, err
	}
	if err := al.checkAfter("alloc"); err != nil {
		return Null, err
	}
	return Ptr(bp), nil
}

func (al *Allocator) alloc(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: alloc size %d", ErrInvalidArgument, size)
	}
	asize, ok := format.AdjustedSize(size)
	if !ok {
		return 0, fmt.Errorf("%w: alloc size %d exceeds %d", ErrInvalidArgument, size, format.MaxBlockSize-tagOverhead)
	}

	if bp := al.findFit(asize); bp != format.NilLink {
		al.stats.AllocFastPath++
		al.place(bp, asize)
		return bp, nil
	}

	al.stats.AllocSlowPath++
	bp, err := al.extendHeap(max(asize, al.extend))
	if err != nil {
		return 0, err
	}
	al.place(bp, asize)
	return bp, nil
}

// place marks asize bytes of the free block bp allocated. A remainder of at
// least MinChunkSize is split off, appended to the free list and coalesced
// with its right neighbour; a smaller remainder stays inside the block.
func (al *Allocator) place(bp, asize int) {
	data := al.data()
	csize := format.BlockSize(data, bp)
	al.remove(bp)

	if csize-asize >= minChunkSize {
		al.setTags(data, bp, asize, true)
		rest := bp + asize
		al.setTags(data, rest, csize-asize, false)
		al.insertTail(rest)
		al.coalesce(rest)
		al.stats.SplitCount++
	} else {
		al.setTags(data, bp, csize, true)
		asize = csize
	}
	al.stats.BytesAllocated += int64(asize)
}

// Free releases the block at p. Freeing Null is a no-op. A pointer that
// does not address a block returns ErrBadPointer; a block that is already
// free returns ErrDoubleFree. Neither mutates the heap.
func (al *Allocator) Free(p Ptr) error {
	if p == Null {
		return nil
	}
	al.stats.FreeCalls++
	bp, err := al.allocated(p)
	if err != nil {
		return err
	}
	al.free(bp)
	return al.checkAfter("free")
}

func (al *Allocator) free(bp int) {
	data := al.data()
	size := format.BlockSize(data, bp)
	al.setTags(data, bp, size, false)
	al.insertTail(bp)
	al.coalesce(bp)
	al.stats.BytesFreed += int64(size)
}

// Calloc allocates count*elemSize bytes and zeroes the whole payload. An
// overflowing or non-positive product returns ErrInvalidArgument. Nothing is
// written when the allocation fails.
func (al *Allocator) Calloc(count, elemSize int) (Ptr, error) {
	al.stats.CallocCalls++
	if count < 0 || elemSize < 0 {
		return Null, fmt.Errorf("%w: calloc(%d, %d)", ErrInvalidArgument, count, elemSize)
	}
	n, ok := buf.MulOverflowSafe(count, elemSize)
	if !ok {
		return Null, fmt.Errorf("%w: calloc(%d, %d) overflows", ErrInvalidArgument, count, elemSize)
	}

	al.stats.AllocCalls++
	bp, err := al.alloc(n)
	if err != nil {
		al.stats.AllocFailures++
		return Null, err
	}
	data := al.data()
	payload := format.BlockSize(data, bp) - tagOverhead
	clear(data[bp : bp+payload])
	al.dt.Add(bp, payload)

	if err := al.checkAfter("calloc"); err != nil {
		return Null, err
	}
	return Ptr(bp), nil
}

// Bytes returns a writable view of the payload of the allocated block at p,
// covering its full usable size. The whole payload is marked dirty.
//
// The view is invalidated by any call that can grow the arena (Alloc,
// Calloc, Realloc) when the arena remaps on growth.
func (al *Allocator) Bytes(p Ptr) ([]byte, error) {
	bp, err := al.allocated(p)
	if err != nil {
		return nil, err
	}
	data := al.data()
	payload := format.BlockSize(data, bp) - tagOverhead
	al.dt.Add(bp, payload)
	return data[bp : bp+payload : bp+payload], nil
}

// UsableSize returns the payload capacity of the allocated block at p, or 0
// if p does not address an allocated block.
func (al *Allocator) UsableSize(p Ptr) int {
	bp, err := al.allocated(p)
	if err != nil {
		return 0
	}
	return format.BlockSize(al.data(), bp) - tagOverhead
}
