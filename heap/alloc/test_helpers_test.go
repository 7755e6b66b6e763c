package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// newTestAllocator creates an allocator over a fresh Memory arena with the
// given ceiling (0 for the default).
func newTestAllocator(t testing.TB, max int, opts *Options) (*Allocator, *arena.Memory) {
	t.Helper()

	m := arena.NewMemory(max)
	al, err := New(m, opts)
	require.NoError(t, err, "failed to create allocator")
	return al, m
}

// assertInvariants runs the validator and fails the test on any diagnostic.
func assertInvariants(t testing.TB, al *Allocator) verify.Report {
	t.Helper()

	rep := al.Check(false)
	require.True(t, rep.OK(), "heap invariants violated: %v", rep.Diagnostics)
	require.Equal(t, al.FreeCount(), rep.ListNodes, "free count out of sync with list walk")
	return rep
}

// snapshot copies the arena contents.
func snapshot(al *Allocator) []byte {
	return append([]byte(nil), al.Arena().Bytes()...)
}

// blockAt returns the size and allocation bit of the block at p.
func blockAt(al *Allocator, p Ptr) (int, bool) {
	data := al.Arena().Bytes()
	return format.BlockSize(data, int(p)), format.BlockAlloc(data, int(p))
}

// fill writes a pattern derived from seed into the payload of p.
func fill(t testing.TB, al *Allocator, p Ptr, n int, seed byte) {
	t.Helper()
	b, err := al.Bytes(p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		b[i] = seed + byte(i)
	}
}

// checkFill verifies the pattern written by fill.
func checkFill(t testing.TB, al *Allocator, p Ptr, n int, seed byte) {
	t.Helper()
	b, err := al.Bytes(p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(b), n)
	for i := range n {
		if b[i] != seed+byte(i) {
			t.Fatalf("payload of 0x%X corrupted at byte %d: got 0x%02X want 0x%02X", p, i, b[i], seed+byte(i))
		}
	}
}

// recorder is a DirtyTracker that keeps every range.
type recorder struct {
	ranges [][2]int
}

func (r *recorder) Add(off, length int) {
	r.ranges = append(r.ranges, [2]int{off, length})
}

func (r *recorder) covers(off, length int) bool {
	for _, rg := range r.ranges {
		if rg[0] <= off && off+length <= rg[0]+rg[1] {
			return true
		}
	}
	return false
}
