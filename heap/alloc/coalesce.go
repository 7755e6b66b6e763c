package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesce merges the free block bp with every free neighbour and returns
// the surviving block. bp must be on the free list.
//
// Merging left keeps the left block's list position and unlinks bp; merging
// right unlinks the right block. The loop ends when both neighbours are
// allocated, which the prologue and epilogue guarantee at the heap edges.
func (al *Allocator) coalesce(bp int) int {
	data := al.data()
	for {
		prev := format.PrevBlock(data, bp)
		if !format.BlockAlloc(data, prev) {
			al.remove(bp)
			al.setTags(data, prev, format.BlockSize(data, prev)+format.BlockSize(data, bp), false)
			al.stats.CoalesceBackward++
			bp = prev
			continue
		}

		next := format.NextBlock(data, bp)
		if !format.BlockAlloc(data, next) {
			al.remove(next)
			al.setTags(data, bp, format.BlockSize(data, bp)+format.BlockSize(data, next), false)
			al.stats.CoalesceForward++
			continue
		}

		return bp
	}
}
