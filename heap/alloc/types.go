package alloc

// Ptr is the arena offset of a block payload.
type Ptr uint64

// Null is the nil block reference.
const Null Ptr = 0

// Block describes one block of the chain, as reported by Walk.
type Block struct {
	Ptr   Ptr  // payload offset
	Size  int  // total size including header and footer
	Alloc bool // allocation bit
}

// Payload returns the usable payload capacity of the block.
func (b Block) Payload() int { return b.Size - tagOverhead }
