// Package format houses the low-level block codec for heapkit arenas: the
// boundary-tag word layout, header/footer addressing, neighbour navigation
// and the free-list link words stored inside free payloads. It is kept free
// of allocator policy so the allocator, the validator and the printers all
// decode the same bytes the same way.
package format

// Arena layout (little-endian, offsets relative to the arena start):
//
//	Offset  Size  Description
//	0x00    4     Alignment padding (always zero)
//	0x04    4     Prologue header  Pack(8, allocated)
//	0x08    4     Prologue footer  Pack(8, allocated)
//	0x0C    ...   Real blocks, each: header | payload | footer
//	end-4   4     Epilogue header  Pack(0, allocated)
//
// Block layout:
//
//	bp-4    4     Header: size (bytes, incl. header+footer) | alloc bit
//	bp      n     Payload. While free: prev link (8) | next link (8) | ...
//	bp+n    4     Footer: copy of the header
const (
	// WordSize is the width of a boundary tag (header or footer).
	WordSize = 4

	// DoubleSize is the payload alignment and the granularity of block sizes.
	DoubleSize = 8

	// RefSize is the width of one free-list link stored in a free payload.
	RefSize = 8

	// TagOverhead is the header plus footer bytes every block carries.
	TagOverhead = 2 * WordSize

	// MinPayload is the smallest payload a block carries: room for the
	// prev and next links once the block is freed.
	MinPayload = 2 * RefSize

	// MinChunkSize is the smallest legal block: header, two links, footer.
	MinChunkSize = TagOverhead + MinPayload

	// ExtendSize is the default minimum number of bytes requested from the
	// arena when the free list has no fit.
	ExtendSize = 1 << 9

	// PrologueSize is the total size of the prologue block.
	PrologueSize = DoubleSize

	// InitialSize is the prefix laid down at init: padding word, prologue
	// header and footer, epilogue header.
	InitialSize = 4 * WordSize

	// PrologueBlock is the payload offset of the prologue sentinel.
	PrologueBlock = 2 * WordSize

	// FirstBlock is the payload offset of the first real block.
	FirstBlock = InitialSize

	// Alignment is the payload alignment guaranteed to callers.
	Alignment = DoubleSize

	// AlignmentMask masks the low bits that must be zero in an aligned size.
	AlignmentMask = Alignment - 1

	// MaxBlockSize is the largest block size the allocator will encode. Sizes
	// stay within int32 so offsets are safe on 32-bit platforms.
	MaxBlockSize = 0x7FFFFFF8

	// NilLink marks the end of the free list. Offset 0 is the padding word,
	// which is never a payload.
	NilLink = 0

	sizeMask = ^uint32(AlignmentMask)
	allocBit = uint32(0x1)
)
