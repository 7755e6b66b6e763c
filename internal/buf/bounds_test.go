package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	cases := []struct {
		a, b int
		want int
		ok   bool
	}{
		{16, 24, 40, true},
		{math.MaxInt, 0, math.MaxInt, true},
		{math.MaxInt, 1, 0, false},
		{math.MinInt, -1, 0, false},
		{-8, 8, 0, true},
	}
	for _, tc := range cases {
		got, ok := AddOverflowSafe(tc.a, tc.b)
		assert.Equal(t, tc.ok, ok, "AddOverflowSafe(%d, %d)", tc.a, tc.b)
		assert.Equal(t, tc.want, got, "AddOverflowSafe(%d, %d)", tc.a, tc.b)
	}
}

func TestMulOverflowSafe(t *testing.T) {
	cases := []struct {
		a, b int
		want int
		ok   bool
	}{
		{3, 8, 24, true},
		{0, math.MaxInt, 0, true},
		{math.MaxInt, 0, 0, true},
		{-4, 6, -24, true},
		{-4, -6, 24, true},
		{math.MaxInt/2 + 1, 2, 0, false},
		{math.MaxInt, -2, 0, false},
		{math.MinInt, -1, 0, false},
		{-1, math.MinInt, 0, false},
		{1 << 32, 1 << 32, 0, false},
		{math.MaxInt, 1, math.MaxInt, true},
	}
	for _, tc := range cases {
		got, ok := MulOverflowSafe(tc.a, tc.b)
		assert.Equal(t, tc.ok, ok, "MulOverflowSafe(%d, %d)", tc.a, tc.b)
		assert.Equal(t, tc.want, got, "MulOverflowSafe(%d, %d)", tc.a, tc.b)
	}
}

func TestCheckRange(t *testing.T) {
	end, err := CheckRange(64, 16, 24)
	require.NoError(t, err)
	assert.Equal(t, 40, end)

	end, err = CheckRange(40, 16, 24)
	require.NoError(t, err, "range ending exactly at the region end")
	assert.Equal(t, 40, end)

	for name, in := range map[string][3]int{
		"past end":   {64, 48, 24},
		"neg offset": {64, -1, 1},
		"neg length": {64, 1, -1},
		"overflow":   {math.MaxInt, math.MaxInt, 1},
	} {
		_, err := CheckRange(in[0], in[1], in[2])
		assert.Error(t, err, name)
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}

	got, ok := Slice(data, 1, 3)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)

	got, ok = Slice(data, 5, 0)
	require.True(t, ok, "empty slice at the end")
	assert.Empty(t, got)

	_, ok = Slice(data, 4, 2)
	assert.False(t, ok)
	_, ok = Slice(data, -1, 1)
	assert.False(t, ok)

	assert.True(t, Has(data, 2, 1))
	assert.False(t, Has(data, 2, 4))
	assert.False(t, Has(data, 1, -1))
}
