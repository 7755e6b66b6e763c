package arena

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_GrowSyncReopen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file-backed arena test in short mode")
	}
	path := filepath.Join(t.TempDir(), "heap.img")

	f, err := CreateFile(path, &FileOptions{MaxSize: 1 << 16})
	require.NoError(t, err)

	off, err := f.Grow(4096)
	require.NoError(t, err)
	assert.Equal(t, 0, off)
	require.Len(t, f.Bytes(), 4096)

	copy(f.Bytes()[100:], "hello")
	f.Tracker().Add(100, 5)

	off, err = f.Grow(4096)
	require.NoError(t, err)
	assert.Equal(t, 4096, off)
	assert.Equal(t, 8191, f.Hi())
	assert.Equal(t, "hello", string(f.Bytes()[100:105]), "contents survive a remap")

	copy(f.Bytes()[5000:], "world")
	f.Tracker().Add(5000, 5)

	require.NoError(t, f.Sync(context.Background()))
	assert.False(t, f.Tracker().Pending())
	require.NoError(t, f.Close())

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(8192), st.Size())

	g, err := OpenFile(path, nil)
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, "hello", string(g.Bytes()[100:105]))
	assert.Equal(t, "world", string(g.Bytes()[5000:5005]))
}

func TestFile_GrowPastMax(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file-backed arena test in short mode")
	}
	path := filepath.Join(t.TempDir(), "heap.img")

	f, err := CreateFile(path, &FileOptions{MaxSize: 8192})
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Grow(4096)
	require.NoError(t, err)
	f.Bytes()[10] = 0x5A

	_, err = f.Grow(8192)
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, int64(4096), f.Size())
	assert.Equal(t, byte(0x5A), f.Bytes()[10], "failed grow keeps the mapping")
}

func TestFile_OpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.img")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := OpenFile(path, nil)
	require.Error(t, err)
}

func TestFile_Closed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.img")
	f, err := CreateFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = f.Grow(8)
	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, -1, f.FD())
}
