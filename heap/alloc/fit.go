package alloc

import "github.com/joshuapare/heapkit/internal/format"

// findFit returns the first free block of at least asize bytes, scanning
// from the head, or 0 when none fits.
func (al *Allocator) findFit(asize int) int {
	data := al.data()
	for bp := al.head; bp != format.NilLink; bp = format.NextLink(data, bp) {
		al.stats.FitScans++
		if format.BlockSize(data, bp) >= asize {
			return bp
		}
	}
	return format.NilLink
}
