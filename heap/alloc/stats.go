package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Stats holds allocator counters since creation.
type Stats struct {
	GrowCalls    int   // successful arena growths (including init)
	GrowBytes    int64 // bytes added by growth
	GrowFailures int   // growth requests the arena refused

	AllocCalls    int // Alloc and Calloc calls
	AllocFastPath int // satisfied from the free list
	AllocSlowPath int // required growth
	AllocFailures int // returned an error

	FreeCalls   int
	CallocCalls int

	ReallocCalls   int
	ReallocShrink  int // shrunk (or kept) in place
	ReallocInPlace int // grew by absorbing the right neighbour
	ReallocCopy    int // moved to a new block

	BytesAllocated int64 // block bytes handed out, tags included
	BytesFreed     int64 // block bytes returned

	SplitCount       int   // blocks split on placement or shrink
	CoalesceForward  int   // merges with a right neighbour
	CoalesceBackward int   // merges into a left neighbour
	FitScans         int64 // free-list nodes visited by first fit

	CheckFailures int // debug-mode validations that failed
}

// Stats returns a snapshot of the allocator counters.
func (al *Allocator) Stats() Stats { return al.stats }

// Usage summarises the block chain.
type Usage struct {
	HeapBytes   int `json:"heap_bytes"`
	Blocks      int `json:"blocks"`
	AllocBlocks int `json:"alloc_blocks"`
	FreeBlocks  int `json:"free_blocks"`
	AllocBytes  int `json:"alloc_bytes"` // block sizes, tags included
	FreeBytes   int `json:"free_bytes"`
	LargestFree int `json:"largest_free"`
}

// Utilization returns allocated block bytes over heap bytes.
func (u Usage) Utilization() float64 {
	if u.HeapBytes == 0 {
		return 0
	}
	return float64(u.AllocBytes) / float64(u.HeapBytes)
}

// Fragmentation returns 1 - largest free block / free bytes: 0 when all
// free space is one block.
func (u Usage) Fragmentation() float64 {
	if u.FreeBytes == 0 {
		return 0
	}
	return 1 - float64(u.LargestFree)/float64(u.FreeBytes)
}

// Usage walks the block chain and returns its summary.
func (al *Allocator) Usage() Usage {
	u := Usage{HeapBytes: len(al.data())}
	al.Walk(func(b Block) bool {
		u.Blocks++
		if b.Alloc {
			u.AllocBlocks++
			u.AllocBytes += b.Size
		} else {
			u.FreeBlocks++
			u.FreeBytes += b.Size
			u.LargestFree = max(u.LargestFree, b.Size)
		}
		return true
	})
	return u
}

// Walk calls fn for every block from the first block up to the epilogue,
// stopping early when fn returns false.
func (al *Allocator) Walk(fn func(Block) bool) {
	WalkImage(al.data(), fn)
}

// WalkImage walks the block chain of a raw heap image. It stops at the
// epilogue or at the first tag that would leave the image.
func WalkImage(data []byte, fn func(Block) bool) {
	if len(data) < format.InitialSize {
		return
	}
	for bp := format.FirstBlock; bp <= len(data); {
		size := format.BlockSize(data, bp)
		if size < minChunkSize || bp+size > len(data) {
			return
		}
		if !fn(Block{Ptr: Ptr(bp), Size: size, Alloc: format.BlockAlloc(data, bp)}) {
			return
		}
		bp += size
	}
}
