package alloc

import "github.com/joshuapare/heapkit/internal/format"

// insertTail appends the free block bp to the free list.
func (al *Allocator) insertTail(bp int) {
	data := al.data()
	format.SetNextLink(data, bp, format.NilLink)
	if al.tail == format.NilLink {
		format.SetPrevLink(data, bp, format.NilLink)
		al.head = bp
	} else {
		format.SetPrevLink(data, bp, al.tail)
		format.SetNextLink(data, al.tail, bp)
		al.dt.Add(al.tail+format.RefSize, format.RefSize)
	}
	al.dt.Add(bp, 2*format.RefSize)
	al.tail = bp
	al.nfree++
}

// remove unlinks the free block bp. It does not search: bp must be on the list.
func (al *Allocator) remove(bp int) {
	data := al.data()
	prev := format.PrevLink(data, bp)
	next := format.NextLink(data, bp)

	if prev == format.NilLink {
		al.head = next
	} else {
		format.SetNextLink(data, prev, next)
		al.dt.Add(prev+format.RefSize, format.RefSize)
	}
	if next == format.NilLink {
		al.tail = prev
	} else {
		format.SetPrevLink(data, next, prev)
		al.dt.Add(next, format.RefSize)
	}
	al.nfree--
}

// FreeList returns the free blocks in list order.
func (al *Allocator) FreeList() []Ptr {
	data := al.data()
	out := make([]Ptr, 0, al.nfree)
	for bp := al.head; bp != format.NilLink && len(out) < al.nfree; bp = format.NextLink(data, bp) {
		out = append(out, Ptr(bp))
	}
	return out
}

// FreeCount returns the length of the free list.
func (al *Allocator) FreeCount() int { return al.nfree }
