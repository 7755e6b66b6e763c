package trace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// ErrPayload indicates a block's payload changed while it was live.
var ErrPayload = errors.New("trace: payload corrupted")

// Heap is the allocator surface a trace drives.
type Heap interface {
	Alloc(size int) (alloc.Ptr, error)
	Realloc(p alloc.Ptr, size int) (alloc.Ptr, error)
	Free(p alloc.Ptr) error
	Bytes(p alloc.Ptr) ([]byte, error)
	Validate(verbose bool) error
}

// ReplayOptions configures Replay.
type ReplayOptions struct {
	// Check validates the whole heap after every operation.
	Check bool
	// Fill writes a per-id pattern into every payload and verifies it before
	// the block is freed or resized.
	Fill bool
}

// Result describes one replay.
type Result struct {
	Name    string
	Ops     int // operations completed
	Elapsed time.Duration
	MaxLive int // peak live request bytes
}

// ctxEvery is how many operations run between context checks.
const ctxEvery = 1024

// Replay runs the operations of t against h. It stops at the first failing
// operation and reports how many completed.
func Replay(ctx context.Context, t *Trace, h Heap, opts ReplayOptions) (res Result, err error) {
	res = Result{Name: t.Name, MaxLive: t.MaxLive()}
	ptrs := make([]alloc.Ptr, t.NumIDs)
	sizes := make([]int, t.NumIDs)

	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	for i, op := range t.Ops {
		if i%ctxEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if err := step(h, op, ptrs, sizes, opts.Fill); err != nil {
			return res, fmt.Errorf("op %d (%s id=%d size=%d): %w", i, op.Kind, op.ID, op.Size, err)
		}
		if opts.Check {
			if err := h.Validate(false); err != nil {
				return res, fmt.Errorf("op %d (%s id=%d): %w", i, op.Kind, op.ID, err)
			}
		}
		res.Ops++
	}
	return res, nil
}

func step(h Heap, op Op, ptrs []alloc.Ptr, sizes []int, fill bool) error {
	id := op.ID
	switch op.Kind {
	case Alloc:
		if op.Size == 0 {
			ptrs[id], sizes[id] = alloc.Null, 0
			return nil
		}
		p, err := h.Alloc(op.Size)
		if err != nil {
			return err
		}
		ptrs[id], sizes[id] = p, op.Size
		if fill {
			return stamp(h, p, id, 0, op.Size)
		}

	case Realloc:
		old := sizes[id]
		if fill && ptrs[id] != alloc.Null {
			if err := verifyStamp(h, ptrs[id], id, old); err != nil {
				return err
			}
		}
		p, err := h.Realloc(ptrs[id], op.Size)
		if err != nil {
			return err
		}
		ptrs[id], sizes[id] = p, op.Size
		if p == alloc.Null {
			sizes[id] = 0
			return nil
		}
		if fill {
			if err := verifyStamp(h, p, id, min(old, op.Size)); err != nil {
				return fmt.Errorf("after move: %w", err)
			}
			return stamp(h, p, id, old, op.Size)
		}

	case Free:
		if fill && ptrs[id] != alloc.Null {
			if err := verifyStamp(h, ptrs[id], id, sizes[id]); err != nil {
				return err
			}
		}
		if err := h.Free(ptrs[id]); err != nil {
			return err
		}
		ptrs[id], sizes[id] = alloc.Null, 0
	}
	return nil
}

func pattern(id, i int) byte { return byte(id*131 + i) }

// stamp writes the pattern for id into payload bytes [from, to).
func stamp(h Heap, p alloc.Ptr, id, from, to int) error {
	b, err := h.Bytes(p)
	if err != nil {
		return err
	}
	for i := from; i < to; i++ {
		b[i] = pattern(id, i)
	}
	return nil
}

// verifyStamp checks the first n payload bytes of p against id's pattern.
func verifyStamp(h Heap, p alloc.Ptr, id, n int) error {
	b, err := h.Bytes(p)
	if err != nil {
		return err
	}
	if len(b) < n {
		return fmt.Errorf("%w: payload at 0x%X holds %d bytes, want %d", ErrPayload, uint64(p), len(b), n)
	}
	for i := range n {
		if b[i] != pattern(id, i) {
			return fmt.Errorf("%w: id %d byte %d at 0x%X", ErrPayload, id, i, uint64(p))
		}
	}
	return nil
}
