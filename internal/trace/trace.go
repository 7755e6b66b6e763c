// Package trace reads, writes, generates and replays allocation traces in
// the malloclab text format:
//
//	<suggested heap size>
//	<number of ids>
//	<number of ops>
//	<weight>
//	a <id> <size>
//	r <id> <size>
//	f <id>
//
// Files ending in .zst are zstd streams and files ending in .lz4 are lz4
// frames; anything else is plain text.
package trace

import (
	"errors"
	"fmt"
)

// ErrSyntax indicates a malformed trace.
var ErrSyntax = errors.New("trace: syntax error")

// Kind is the operation code of a trace line.
type Kind byte

const (
	Alloc   Kind = 'a'
	Realloc Kind = 'r'
	Free    Kind = 'f'
)

func (k Kind) String() string {
	switch k {
	case Alloc:
		return "alloc"
	case Realloc:
		return "realloc"
	case Free:
		return "free"
	}
	return fmt.Sprintf("Kind(%q)", byte(k))
}

// Op is one trace operation. Size is unused for Free.
type Op struct {
	Kind Kind
	ID   int
	Size int
}

// Trace is a parsed trace file.
type Trace struct {
	Name          string
	SuggestedHeap int
	NumIDs        int
	Weight        int
	Ops           []Op
}

// MaxLive returns the peak sum of live request sizes over the trace, the
// denominator of the malloclab utilization score.
func (t *Trace) MaxLive() int {
	live := make(map[int]int, t.NumIDs)
	cur, peak := 0, 0
	for _, op := range t.Ops {
		switch op.Kind {
		case Alloc, Realloc:
			cur += op.Size - live[op.ID]
			live[op.ID] = op.Size
		case Free:
			cur -= live[op.ID]
			delete(live, op.ID)
		}
		peak = max(peak, cur)
	}
	return peak
}
