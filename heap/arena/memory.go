package arena

import "fmt"

// DefaultMaxHeap is the ceiling of a Memory arena created with max <= 0.
const DefaultMaxHeap = 20 << 20

// Memory is an in-memory arena backed by a single preallocated buffer. The
// break advances on Grow and never moves the buffer, so views stay valid.
//
// NOT thread-safe.
type Memory struct {
	data []byte
	brk  int

	growCalls int
}

// NewMemory creates an empty in-memory arena that can grow to max bytes.
func NewMemory(max int) *Memory {
	if max <= 0 {
		max = DefaultMaxHeap
	}
	return &Memory{data: make([]byte, max)}
}

// NewMemoryImage creates an in-memory arena holding a copy of img, able to
// grow to max bytes. It is how a persisted heap is reopened in memory.
func NewMemoryImage(img []byte, max int) (*Memory, error) {
	if max <= 0 {
		max = DefaultMaxHeap
	}
	if len(img) > max {
		return nil, fmt.Errorf("%w: image of %d bytes exceeds ceiling %d", ErrExhausted, len(img), max)
	}
	m := &Memory{data: make([]byte, max), brk: len(img)}
	copy(m.data, img)
	return m, nil
}

// Grow advances the break by n bytes.
func (m *Memory) Grow(n int) (int, error) {
	if n < 0 {
		return 0, ErrBadGrow
	}
	if n > len(m.data)-m.brk {
		return 0, fmt.Errorf("%w: grow %d bytes, %d of %d in use", ErrExhausted, n, m.brk, len(m.data))
	}
	old := m.brk
	m.brk += n
	m.growCalls++
	return old, nil
}

func (m *Memory) Bytes() []byte { return m.data[:m.brk] }

func (m *Memory) Lo() int { return 0 }

func (m *Memory) Hi() int { return m.brk - 1 }

// Size returns the number of bytes currently in the arena.
func (m *Memory) Size() int { return m.brk }

// Cap returns the ceiling the arena can grow to.
func (m *Memory) Cap() int { return len(m.data) }

// GrowCalls returns how many successful Grow calls the arena has served.
func (m *Memory) GrowCalls() int { return m.growCalls }

// Reset zeroes the used region and returns the break to the start.
func (m *Memory) Reset() {
	clear(m.data[:m.brk])
	m.brk = 0
	m.growCalls = 0
}
