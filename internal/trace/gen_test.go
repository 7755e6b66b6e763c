package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_WellFormed(t *testing.T) {
	tr := Generate(GenOptions{Ops: 2000, IDs: 50, MaxSize: 1000, Seed: 1})

	require.NotEmpty(t, tr.Ops)
	live := make(map[int]bool)
	for i, op := range tr.Ops {
		require.Less(t, op.ID, tr.NumIDs, "op %d", i)
		switch op.Kind {
		case Alloc:
			require.False(t, live[op.ID], "op %d allocs a live id", i)
			require.Positive(t, op.Size)
			live[op.ID] = true
		case Realloc:
			require.True(t, live[op.ID], "op %d reallocs a dead id", i)
			require.LessOrEqual(t, op.Size, 1000)
		case Free:
			require.True(t, live[op.ID], "op %d frees a dead id", i)
			delete(live, op.ID)
		}
	}
	assert.Empty(t, live, "every id is freed by the end")
	assert.Equal(t, tr.MaxLive(), tr.SuggestedHeap)
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(GenOptions{Ops: 300, Seed: 99})
	b := Generate(GenOptions{Ops: 300, Seed: 99})
	c := Generate(GenOptions{Ops: 300, Seed: 100})
	assert.Equal(t, a.Ops, b.Ops)
	assert.NotEqual(t, a.Ops, c.Ops)
}

func TestGenerate_Defaults(t *testing.T) {
	tr := Generate(GenOptions{})
	assert.Equal(t, 100, tr.NumIDs)
	assert.GreaterOrEqual(t, len(tr.Ops), 1000)
}
