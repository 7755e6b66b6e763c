package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

func newHeap(t *testing.T) (*alloc.Allocator, alloc.Ptr) {
	t.Helper()
	al, err := alloc.New(arena.NewMemory(0), nil)
	require.NoError(t, err)

	p, err := al.Alloc(5000)
	require.NoError(t, err)
	b, err := al.Bytes(p)
	require.NoError(t, err)
	copy(b, "heap\x00\x01caf\xe9")

	q, err := al.Alloc(32)
	require.NoError(t, err)
	require.NoError(t, al.Free(q))
	return al, p
}

func TestPrinter_UsageText(t *testing.T) {
	al, _ := newHeap(t)
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Usage(al.Usage()))

	out := buf.String()
	u := al.Usage()
	require.Greater(t, u.HeapBytes, 1000)
	assert.Contains(t, out, "heap:")
	assert.Contains(t, out, ",", "byte counts are grouped")
	assert.Contains(t, out, "utilization:")
	assert.Contains(t, out, "%")
}

func TestPrinter_StatsText(t *testing.T) {
	al, _ := newHeap(t)
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Stats(al.Stats()))
	assert.Contains(t, buf.String(), "allocs:        2 (")
	assert.Contains(t, buf.String(), "frees:         1")
}

func TestPrinter_ReportText(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())

	require.NoError(t, p.Report(verify.Report{Blocks: 3, FreeBlocks: 1, ListNodes: 1}))
	assert.Contains(t, buf.String(), "check:         ok (3 blocks, 1 free, 1 listed)")

	buf.Reset()
	rep := verify.Report{Diagnostics: []verify.Diagnostic{
		{Kind: verify.TagMismatch, Offset: 0x10, Message: "header 0x19 does not match footer 0x18"},
	}}
	require.NoError(t, p.Report(rep))
	assert.Contains(t, buf.String(), "1 problems")
	assert.Contains(t, buf.String(), "tag-mismatch at offset 0x10")
}

func TestPrinter_ReportJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON

	rep := verify.Report{Diagnostics: []verify.Diagnostic{{Kind: verify.FreeListCycle, Offset: 64, Message: "x"}}}
	require.NoError(t, New(&buf, opts).Report(rep))

	var decoded struct {
		Diagnostics []struct {
			Kind   string `json:"kind"`
			Offset int    `json:"offset"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Diagnostics, 1)
	assert.Equal(t, "free-list-cycle", decoded.Diagnostics[0].Kind)
	assert.Equal(t, 64, decoded.Diagnostics[0].Offset)
}

func TestPrinter_UsageJSON(t *testing.T) {
	al, _ := newHeap(t)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).Usage(al.Usage()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "heap_bytes")
	assert.Contains(t, decoded, "utilization")
	assert.Contains(t, decoded, "fragmentation")
}

func TestPrinter_Blocks(t *testing.T) {
	al, p := newHeap(t)
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Blocks(al.Arena().Bytes()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, al.Usage().Blocks)
	assert.True(t, strings.HasPrefix(lines[0], fmt.Sprintf("0x%08X  alloc", uint64(p))), "got %q", lines[0])
	assert.Contains(t, lines[0], "68 65 61 70 00 01")
	assert.Contains(t, lines[0], "|heap..café")
	assert.Contains(t, lines[1], "free")
}

func TestPrinter_BlocksHideFree(t *testing.T) {
	al, _ := newHeap(t)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowFree = false
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).Blocks(al.Arena().Bytes()))

	var blocks []blockJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &blocks))
	require.NotEmpty(t, blocks)
	for _, b := range blocks {
		assert.True(t, b.Alloc)
		assert.Zero(t, b.Offset%format.Alignment)
	}
}

func TestPrinter_Summary(t *testing.T) {
	al, _ := newHeap(t)
	st := al.Stats()
	rep := al.Check(false)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Summary(Summary{
		Name:   "short1.rep",
		Ops:    12000,
		Stats:  &st,
		Usage:  al.Usage(),
		Report: &rep,
	}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "short1.rep\n"))
	assert.Contains(t, out, "ops:           12,000")
	assert.Contains(t, out, "check:         ok")
}
