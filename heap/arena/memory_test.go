package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GrowAdvancesBreak(t *testing.T) {
	m := NewMemory(1024)
	require.Equal(t, 0, m.Size())
	require.Equal(t, -1, m.Hi(), "empty arena has Hi = Lo-1")

	off, err := m.Grow(16)
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	off, err = m.Grow(24)
	require.NoError(t, err)
	assert.Equal(t, 16, off)

	assert.Equal(t, 40, m.Size())
	assert.Equal(t, 39, m.Hi())
	assert.Len(t, m.Bytes(), 40)
	assert.Equal(t, 2, m.GrowCalls())
	assert.True(t, Contains(m, 39))
	assert.False(t, Contains(m, 40))
}

func TestMemory_GrowPastCeiling(t *testing.T) {
	m := NewMemory(64)
	_, err := m.Grow(48)
	require.NoError(t, err)

	_, err = m.Grow(32)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 48, m.Size(), "failed grow must not move the break")
	assert.Equal(t, 1, m.GrowCalls())

	_, err = m.Grow(16)
	require.NoError(t, err, "exact fit to the ceiling")
	assert.Equal(t, m.Cap(), m.Size())
}

func TestMemory_NegativeGrow(t *testing.T) {
	m := NewMemory(64)
	_, err := m.Grow(-8)
	require.ErrorIs(t, err, ErrBadGrow)
}

func TestMemory_ViewsStableAcrossGrow(t *testing.T) {
	m := NewMemory(128)
	_, err := m.Grow(8)
	require.NoError(t, err)
	m.Bytes()[0] = 0xAB

	_, err = m.Grow(64)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), m.Bytes()[0])
}

func TestMemory_Reset(t *testing.T) {
	m := NewMemory(128)
	_, err := m.Grow(32)
	require.NoError(t, err)
	m.Bytes()[5] = 1

	m.Reset()
	assert.Equal(t, 0, m.Size())
	assert.Equal(t, 0, m.GrowCalls())

	_, err = m.Grow(32)
	require.NoError(t, err)
	assert.Equal(t, byte(0), m.Bytes()[5], "reset must zero the used region")
}

func TestMemory_DefaultCeiling(t *testing.T) {
	m := NewMemory(0)
	assert.Equal(t, DefaultMaxHeap, m.Cap())
}

func TestMemory_Image(t *testing.T) {
	img := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	m, err := NewMemoryImage(img, 64)
	require.NoError(t, err)
	assert.Equal(t, 8, m.Size())
	assert.Equal(t, img, m.Bytes())

	img[0] = 9
	assert.Equal(t, byte(1), m.Bytes()[0], "image must be copied")

	off, err := m.Grow(8)
	require.NoError(t, err)
	assert.Equal(t, 8, off)

	_, err = NewMemoryImage(make([]byte, 128), 64)
	require.ErrorIs(t, err, ErrExhausted)
}
