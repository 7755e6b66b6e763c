package verify

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// View is the read-only state a validation pass needs: the arena contents
// and the free-list ends kept by the allocator.
type View struct {
	Data []byte
	Head int // payload offset of the first free-list node, 0 when empty
	Tail int // payload offset of the last free-list node, 0 when empty
}

// Options configures a validation pass.
type Options struct {
	// Verbose writes one line per block to Out.
	Verbose bool

	// Out receives verbose output. Default: os.Stdout.
	Out io.Writer
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// Heap validates the block chain and the free list of v.
func Heap(v View, opts Options) Report {
	c := newChecker(v.Data, opts)
	if !c.chain() {
		return c.rep
	}
	c.list(v.Head, v.Tail)
	return c.rep
}

// Image validates only the block chain of data. Free-list checks need the
// head and tail kept outside the image, so they are skipped.
func Image(data []byte, opts Options) Report {
	c := newChecker(data, opts)
	c.chain()
	return c.rep
}

type checker struct {
	data []byte
	opts Options
	rep  Report

	// free holds the payload offset of every free block seen on the chain.
	free *roaring.Bitmap
}

func newChecker(data []byte, opts Options) *checker {
	return &checker{
		data: data,
		opts: opts,
		rep:  Report{HeapBytes: len(data)},
		free: roaring.New(),
	}
}

func (c *checker) add(k Kind, off int, msg string, args ...any) {
	c.rep.Diagnostics = append(c.rep.Diagnostics, Diagnostic{
		Kind:    k,
		Offset:  off,
		Message: fmt.Sprintf(msg, args...),
	})
}

// chain walks prologue, blocks and epilogue. It returns false when the
// image is too damaged for the free-list walk to mean anything.
func (c *checker) chain() bool {
	data := c.data
	n := len(data)

	if n < format.InitialSize {
		c.add(BadPrologue, -1, "heap too small: %d bytes (need %d)", n, format.InitialSize)
		return false
	}
	if uint64(n) > math.MaxUint32 {
		c.add(OutOfBounds, -1, "heap of %d bytes exceeds the 4 GiB offset range", n)
		return false
	}

	pro := format.Pack(format.PrologueSize, true)
	if h := format.GetWord(data, format.Header(format.PrologueBlock)); h != pro {
		c.add(BadPrologue, format.PrologueBlock, "prologue header 0x%08X, want 0x%08X", h, pro)
	}
	if f := format.GetWord(data, format.PrologueBlock); f != pro {
		c.add(BadPrologue, format.PrologueBlock, "prologue footer 0x%08X, want 0x%08X", f, pro)
	}

	verbose := c.opts.Verbose
	var out io.Writer
	if verbose {
		out = c.opts.out()
		fmt.Fprintf(out, "heap (%d bytes):\n", n)
	}

	prevFree := false
	bp := format.FirstBlock
	for {
		h := format.Header(bp)
		if h+format.WordSize > n {
			c.add(BadEpilogue, bp, "block chain runs past the end of the heap")
			return false
		}

		w := format.GetWord(data, h)
		size := format.TagSize(w)
		if size == 0 {
			if !format.TagAlloc(w) {
				c.add(BadEpilogue, bp, "epilogue header 0x%08X is not marked allocated", w)
			}
			if h != n-format.WordSize {
				c.add(BadEpilogue, bp, "epilogue at 0x%X is not the last word (heap ends at 0x%X)", h, n)
			}
			if verbose {
				fmt.Fprintf(out, "0x%08X: EOL\n", bp)
			}
			return true
		}

		if !format.IsAligned(bp) {
			c.add(BlockMisaligned, bp, "payload not %d-byte aligned", format.Alignment)
		}
		if w&^(format.Pack(size, true)) != 0 {
			c.add(SizeUnaligned, bp, "tag 0x%08X has reserved bits set", w)
		}
		if size < format.MinChunkSize {
			c.add(BlockTooSmall, bp, "block size %d below minimum %d", size, format.MinChunkSize)
			return false
		}
		// The next header (or the epilogue) must still fit in the heap.
		if _, err := buf.CheckRange(n, bp, size); err != nil {
			c.add(OutOfBounds, bp, "block of %d bytes: %v", size, err)
			return false
		}

		ft := format.GetWord(data, bp+size-format.DoubleSize)
		if ft != w {
			c.add(TagMismatch, bp, "header 0x%08X does not match footer 0x%08X", w, ft)
		}
		if verbose {
			fmt.Fprintf(out, "0x%08X: header [%d:%c] footer [%d:%c]\n",
				bp, size, allocChar(w), format.TagSize(ft), allocChar(ft))
		}

		c.rep.Blocks++
		free := !format.TagAlloc(w)
		if free {
			c.rep.FreeBlocks++
			c.free.Add(uint32(bp))
			if prevFree {
				c.add(AdjacentFree, bp, "free block follows another free block")
			}
		}
		prevFree = free
		bp += size
	}
}

// list walks the free list from head, cross-checking each node against the
// free blocks recorded by chain.
func (c *checker) list(head, tail int) {
	data := c.data
	n := len(data)

	if (head == format.NilLink) != (tail == format.NilLink) {
		c.add(FreeListEnds, head, "head 0x%X and tail 0x%X disagree on emptiness", head, tail)
	}

	seen := roaring.New()
	prev := format.NilLink
	node := head
	complete := true
	for node != format.NilLink {
		if node < format.FirstBlock || node+2*format.RefSize > n {
			c.add(FreeNodeOutOfBounds, node, "free-list node outside the heap (reached from 0x%X)", prev)
			complete = false
			break
		}
		if !format.IsAligned(node) {
			c.add(BlockMisaligned, node, "free-list node not %d-byte aligned", format.Alignment)
			complete = false
			break
		}
		if !seen.CheckedAdd(uint32(node)) {
			c.add(FreeListCycle, node, "free-list node revisited (reached from 0x%X)", prev)
			complete = false
			break
		}
		if !c.free.Contains(uint32(node)) {
			c.add(FreeNodeAllocated, node, "free-list node is not a free block")
			complete = false
			break
		}
		if p := format.PrevLink(data, node); p != prev {
			c.add(LinkInconsistent, node, "prev link 0x%X, want 0x%X", p, prev)
		}
		c.rep.ListNodes++
		prev = node
		node = format.NextLink(data, node)
	}

	if complete && prev != tail {
		c.add(FreeListEnds, tail, "free-list walk ended at 0x%X, tail is 0x%X", prev, tail)
	}
	if c.rep.ListNodes != c.rep.FreeBlocks {
		msg := fmt.Sprintf("%d free blocks on the chain, %d on the list", c.rep.FreeBlocks, c.rep.ListNodes)
		missing := roaring.AndNot(c.free, seen)
		off := -1
		if !missing.IsEmpty() {
			off = int(missing.Minimum())
			msg += fmt.Sprintf(", first unlisted block 0x%X", off)
		}
		c.add(FreeCountMismatch, off, "%s", msg)
	}
}

func allocChar(w uint32) byte {
	if format.TagAlloc(w) {
		return 'a'
	}
	return 'f'
}
