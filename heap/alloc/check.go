package alloc

import (
	"github.com/joshuapare/heapkit/heap/verify"
)

// View returns the validator's view of the live heap.
func (al *Allocator) View() verify.View {
	return verify.View{Data: al.data(), Head: al.head, Tail: al.tail}
}

// Check validates the heap and returns the full report. Verbose writes one
// line per block to Options.CheckOut.
func (al *Allocator) Check(verbose bool) verify.Report {
	return verify.Heap(al.View(), verify.Options{Verbose: verbose, Out: al.checkOut})
}

// Validate is Check reduced to an error: nil for a consistent heap,
// otherwise a *verify.Error that unwraps to ErrCorrupt.
func (al *Allocator) Validate(verbose bool) error {
	return al.Check(verbose).Err()
}

// checkAfter runs the validator after a public call in debug mode.
func (al *Allocator) checkAfter(op string) error {
	if !al.debug {
		return nil
	}
	rep := al.Check(false)
	if rep.OK() {
		return nil
	}
	al.stats.CheckFailures++
	for _, d := range rep.Diagnostics {
		al.log.Error("heap check failed", "op", op, "kind", d.Kind.String(), "offset", d.Offset, "msg", d.Message)
	}
	return rep.Err()
}
