package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Realloc resizes the block at p to hold at least size bytes.
//
//   - size == 0 frees p and returns Null
//   - p == Null behaves as Alloc(size)
//   - shrinking happens in place; a remainder of at least MinChunkSize is
//     split off and freed
//   - growing first absorbs a free right neighbour in place, splitting off
//     any excess of at least MinChunkSize, with no copy
//   - otherwise a new block is allocated, min(old payload, size) bytes are
//     copied and p is freed
//
// If the new block cannot be allocated, p is left untouched and the error
// wraps ErrExhausted.
func (al *Allocator) Realloc(p Ptr, size int) (Ptr, error) {
	al.stats.ReallocCalls++
	if size == 0 {
		if err := al.Free(p); err != nil {
			return Null, err
		}
		return Null, nil
	}
	if p == Null {
		return al.Alloc(size)
	}

	bp, err := al.allocated(p)
	if err != nil {
		return Null, err
	}
	if size < 0 {
		return Null, fmt.Errorf("%w: realloc size %d", ErrInvalidArgument, size)
	}
	asize, ok := format.AdjustedSize(size)
	if !ok {
		return Null, fmt.Errorf("%w: realloc size %d exceeds %d", ErrInvalidArgument, size, format.MaxBlockSize-tagOverhead)
	}

	data := al.data()
	csize := format.BlockSize(data, bp)

	if asize <= csize {
		al.stats.ReallocShrink++
		al.shrink(bp, asize)
		return al.reallocDone(bp)
	}

	next := format.NextBlock(data, bp)
	if !format.BlockAlloc(data, next) {
		next = al.coalesce(next)
		merged := csize + format.BlockSize(data, next)
		if merged >= asize {
			al.remove(next)
			al.setTags(data, bp, merged, true)
			al.stats.BytesAllocated += int64(merged - csize)
			al.shrink(bp, asize)
			al.stats.ReallocInPlace++
			al.log.Debug("realloc in place", "ptr", bp, "from", csize, "to", format.BlockSize(data, bp))
			return al.reallocDone(bp)
		}
	}

	nbp, err := al.alloc(size)
	if err != nil {
		al.log.Debug("realloc failed, block kept", "ptr", bp, "size", size, "error", err)
		return Null, err
	}
	data = al.data()
	n := min(csize-tagOverhead, size)
	copy(data[nbp:nbp+n], data[bp:bp+n])
	al.dt.Add(nbp, n)
	al.free(bp)
	al.stats.ReallocCopy++
	al.log.Debug("realloc moved", "from", bp, "to", nbp, "copied", n)
	return al.reallocDone(nbp)
}

func (al *Allocator) reallocDone(bp int) (Ptr, error) {
	if err := al.checkAfter("realloc"); err != nil {
		return Null, err
	}
	return Ptr(bp), nil
}

// shrink trims the allocated block bp to asize bytes when the remainder can
// stand as a block of its own. The remainder is freed and coalesced.
func (al *Allocator) shrink(bp, asize int) {
	data := al.data()
	csize := format.BlockSize(data, bp)
	if csize-asize < minChunkSize {
		return
	}
	al.setTags(data, bp, asize, true)
	rest := bp + asize
	al.setTags(data, rest, csize-asize, false)
	al.insertTail(rest)
	al.coalesce(rest)
	al.stats.SplitCount++
	al.stats.BytesFreed += int64(csize - asize)
}
