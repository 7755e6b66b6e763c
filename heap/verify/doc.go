// Package verify checks the structural consistency of a heapkit heap.
//
// A heap is a byte image laid out as
//
//	pad | prologue | block | block | ... | epilogue
//
// where each block carries matching 4-byte boundary tags and free blocks
// are threaded onto an explicit doubly linked list through their payloads.
//
// # Checks
//
// Heap walks the block chain from the first block to the epilogue and then
// walks the free list from its head. It reports, in chain order:
//
//   - prologue and epilogue shape (the epilogue must be the last word)
//   - block size, alignment and bounds
//   - header/footer agreement
//   - adjacent free blocks that escaped coalescing
//   - broken prev/next links, list nodes outside the heap or allocated
//   - cycles, wrong list ends, and free-count disagreement
//
// Image runs only the chain checks, for images whose free-list head and tail
// are not known (a persisted heap inspected from disk).
//
// # Usage
//
//	rep := verify.Heap(view, verify.Options{})
//	if err := rep.Err(); err != nil {
//	    // err unwraps to verify.ErrCorrupt
//	}
package verify
