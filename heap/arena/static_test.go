package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	img := make([]byte, 40)
	s := NewStatic(img)

	assert.Equal(t, 0, s.Lo())
	assert.Equal(t, 39, s.Hi())

	off, err := s.Grow(0)
	require.NoError(t, err)
	assert.Equal(t, 40, off)

	_, err = s.Grow(8)
	require.ErrorIs(t, err, ErrExhausted)

	_, err = s.Grow(-1)
	require.ErrorIs(t, err, ErrBadGrow)

	s.Bytes()[3] = 7
	assert.Equal(t, byte(7), img[3], "Static must not copy the image")
}
