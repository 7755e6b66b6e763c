package format

// Boundary tags.
//
// A tag word packs the block size (a multiple of 8) with the allocation
// flag in the low bit. Every helper below takes bp, the payload offset of a
// block, and derives the rest from the sizes stored in the arena itself;
// there is no side table of blocks.

// Pack combines a block size and allocation flag into a boundary tag word.
func Pack(size int, alloc bool) uint32 {
	w := uint32(size) & sizeMask
	if alloc {
		w |= allocBit
	}
	return w
}

// TagSize extracts the block size from a tag word.
func TagSize(w uint32) int {
	return int(w & sizeMask)
}

// TagAlloc extracts the allocation flag from a tag word.
func TagAlloc(w uint32) bool {
	return w&allocBit != 0
}

// GetWord reads the tag word at off.
func GetWord(data []byte, off int) uint32 {
	return ReadU32(data, off)
}

// PutWord writes the tag word w at off.
func PutWord(data []byte, off int, w uint32) {
	PutU32(data, off, w)
}

// Header returns the offset of the header of the block at bp.
func Header(bp int) int {
	return bp - WordSize
}

// Footer returns the offset of the footer of the block at bp, using the
// size recorded in its header.
func Footer(data []byte, bp int) int {
	return bp + BlockSize(data, bp) - DoubleSize
}

// BlockSize returns the size recorded in the header of the block at bp.
func BlockSize(data []byte, bp int) int {
	return TagSize(GetWord(data, Header(bp)))
}

// BlockAlloc reports whether the header of the block at bp has the
// allocation flag set.
func BlockAlloc(data []byte, bp int) bool {
	return TagAlloc(GetWord(data, Header(bp)))
}

// NextBlock returns the payload offset of the block that follows bp.
func NextBlock(data []byte, bp int) int {
	return bp + BlockSize(data, bp)
}

// PrevBlock returns the payload offset of the block that precedes bp, read
// from the footer that sits just below bp's header.
func PrevBlock(data []byte, bp int) int {
	return bp - TagSize(GetWord(data, bp-DoubleSize))
}

// SetTags writes matching header and footer words for a block of size
// bytes at bp. The footer position follows from size, not from whatever
// the header held before.
func SetTags(data []byte, bp, size int, alloc bool) {
	w := Pack(size, alloc)
	PutWord(data, Header(bp), w)
	PutWord(data, bp+size-DoubleSize, w)
}

// Free-list links. They are only meaningful while the block is free.

// PrevLink returns the prev link stored in the free block at bp.
func PrevLink(data []byte, bp int) int {
	return int(ReadU64(data, bp))
}

// NextLink returns the next link stored in the free block at bp.
func NextLink(data []byte, bp int) int {
	return int(ReadU64(data, bp+RefSize))
}

// SetPrevLink stores the prev link of the free block at bp.
func SetPrevLink(data []byte, bp, prev int) {
	PutU64(data, bp, uint64(prev))
}

// SetNextLink stores the next link of the free block at bp.
func SetNextLink(data []byte, bp, next int) {
	PutU64(data, bp+RefSize, uint64(next))
}
