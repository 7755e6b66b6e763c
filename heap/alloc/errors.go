package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/verify"
)

var (
	// ErrExhausted indicates the arena could not grow to satisfy a request.
	// The heap is unchanged when it is returned.
	ErrExhausted = fmt.Errorf("alloc: heap exhausted: %w", arena.ErrExhausted)

	// ErrInvalidArgument indicates a zero, negative, oversized or overflowing request.
	ErrInvalidArgument = errors.New("alloc: invalid argument")

	// ErrBadPointer indicates a pointer that does not address a block payload.
	ErrBadPointer = errors.New("alloc: bad pointer")

	// ErrDoubleFree indicates an operation on a block that is already free.
	ErrDoubleFree = errors.New("alloc: block is not allocated")

	// ErrNotEmpty indicates New was given an arena that already holds data.
	ErrNotEmpty = errors.New("alloc: arena is not empty")

	// ErrCorrupt is returned (wrapped in a *verify.Error) when validation fails.
	ErrCorrupt = verify.ErrCorrupt
)
