package alloc

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

const (
	tagOverhead  = format.TagOverhead
	minChunkSize = format.MinChunkSize
)

// Allocator manages the blocks of one arena.
//
// All state lives in the arena except the free-list ends, so an Allocator
// can be rebuilt over a persisted arena with Attach.
type Allocator struct {
	a   arena.Arena
	dt  dirty.DirtyTracker
	log *slog.Logger

	extend   int
	debug    bool
	checkOut io.Writer

	// Free list ends (payload offsets, 0 when empty) and length.
	head  int
	tail  int
	nfree int

	stats Stats

	// Test hook: called with the byte count before every arena growth.
	onGrow func(n int)
}

func newAllocator(a arena.Arena, opts *Options) *Allocator {
	return &Allocator{
		a:        a,
		dt:       opts.dirty(),
		log:      opts.logger(),
		extend:   opts.extendSize(),
		debug:    opts.debug(),
		checkOut: opts.checkOut(),
	}
}

// New lays down an empty heap in a and returns its allocator. The arena must
// be empty: New writes the pad word, the prologue and the epilogue, then
// grows by one minimum chunk to create the first free block.
func New(a arena.Arena, opts *Options) (*Allocator, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil arena", ErrInvalidArgument)
	}
	if a.Hi() >= a.Lo() {
		return nil, fmt.Errorf("%w: %d bytes in use, use Attach", ErrNotEmpty, a.Hi()-a.Lo()+1)
	}

	al := newAllocator(a, opts)

	if _, err := al.grow(format.InitialSize); err != nil {
		return nil, err
	}
	data := a.Bytes()
	format.PutWord(data, 0, 0)
	format.SetTags(data, format.PrologueBlock, format.PrologueSize, true)
	format.PutWord(data, format.Header(format.FirstBlock), format.Pack(0, true))
	al.dt.Add(0, format.InitialSize)

	if _, err := al.extendHeap(minChunkSize); err != nil {
		return nil, err
	}

	al.log.Debug("heap initialised", "heap_bytes", len(al.data()), "extend", al.extend)
	if err := al.checkAfter("init"); err != nil {
		return nil, err
	}
	return al, nil
}

// Attach rebuilds an allocator over an arena that already holds a heap
// image. The block chain is validated first; the free list is then rebuilt
// from the free blocks in address order, rewriting their links.
func Attach(a arena.Arena, opts *Options) (*Allocator, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil arena", ErrInvalidArgument)
	}
	al := newAllocator(a, opts)

	if err := verify.Image(al.data(), verify.Options{}).Err(); err != nil {
		al.log.Error("attach: heap image rejected", "error", err)
		return nil, err
	}

	data := al.data()
	for bp := format.FirstBlock; format.BlockSize(data, bp) > 0; bp = format.NextBlock(data, bp) {
		if !format.BlockAlloc(data, bp) {
			al.insertTail(bp)
		}
	}

	al.log.Debug("heap attached", "heap_bytes", len(data), "free_blocks", al.nfree)
	if err := al.checkAfter("attach"); err != nil {
		return nil, err
	}
	return al, nil
}

// Arena returns the arena the allocator manages.
func (al *Allocator) Arena() arena.Arena { return al.a }

// data returns the current arena view. It must be re-read after any growth.
func (al *Allocator) data() []byte { return al.a.Bytes() }

// grow asks the arena for n more bytes and returns the start of the new region.
func (al *Allocator) grow(n int) (int, error) {
	if al.onGrow != nil {
		al.onGrow(n)
	}
	old, err := al.a.Grow(n)
	if err != nil {
		al.stats.GrowFailures++
		al.log.Debug("grow failed", "bytes", n, "heap_bytes", len(al.data()), "error", err)
		return 0, fmt.Errorf("%w: grow %d bytes: %w", ErrExhausted, n, err)
	}
	al.stats.GrowCalls++
	al.stats.GrowBytes += int64(n)
	return old, nil
}

// extendHeap grows the arena by size bytes, turns the new region into a
// free block in place of the old epilogue, and coalesces it with a free
// predecessor. It returns the resulting free block.
func (al *Allocator) extendHeap(size int) (int, error) {
	size = format.Align8(size)
	bp, err := al.grow(size)
	if err != nil {
		return 0, err
	}

	data := al.data()
	al.setTags(data, bp, size, false)
	format.PutWord(data, format.Header(bp+size), format.Pack(0, true))
	al.dt.Add(format.Header(bp+size), format.WordSize)

	al.log.Debug("heap extended", "bytes", size, "block", bp, "heap_bytes", len(data))

	al.insertTail(bp)
	return al.coalesce(bp), nil
}

// setTags writes the boundary tags of a block and marks them dirty.
func (al *Allocator) setTags(data []byte, bp, size int, alloc bool) {
	format.SetTags(data, bp, size, alloc)
	al.dt.Add(format.Header(bp), format.WordSize)
	al.dt.Add(bp+size-format.DoubleSize, format.WordSize)
}

// block resolves p to a payload offset, rejecting pointers that cannot be
// the start of a block.
func (al *Allocator) block(p Ptr) (int, error) {
	data := al.data()
	if p < format.FirstBlock || p > Ptr(len(data)) {
		return 0, fmt.Errorf("%w: 0x%X outside heap [0x%X, 0x%X)", ErrBadPointer, uint64(p), format.FirstBlock, len(data))
	}
	bp := int(p)
	if !format.IsAligned(bp) {
		return 0, fmt.Errorf("%w: 0x%X not %d-byte aligned", ErrBadPointer, bp, format.Alignment)
	}
	w := format.GetWord(data, format.Header(bp))
	size := format.TagSize(w)
	if size < minChunkSize || !buf.Has(data, bp, size) || format.GetWord(data, bp+size-format.DoubleSize) != w {
		return 0, fmt.Errorf("%w: 0x%X does not address a block", ErrBadPointer, bp)
	}
	return bp, nil
}

// allocated is block plus a check that the block is in use.
func (al *Allocator) allocated(p Ptr) (int, error) {
	bp, err := al.block(p)
	if err != nil {
		return 0, err
	}
	if !format.BlockAlloc(al.data(), bp) {
		return 0, fmt.Errorf("%w: 0x%X", ErrDoubleFree, bp)
	}
	return bp, nil
}
