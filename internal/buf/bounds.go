// Package buf holds the overflow-checked arithmetic used wherever an offset
// or size comes from untrusted input: user request sizes, heap images read
// from disk and trace files.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe returns a+b, or ok = false if the sum does not fit in int.
func AddOverflowSafe(a, b int) (int, bool) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, false
	}
	return a + b, true
}

// MulOverflowSafe returns a*b, or ok = false if the product does not fit in
// int. Calloc sizes its request with it.
func MulOverflowSafe(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

// CheckRange reports whether n bytes at offset fit in a region of size
// bytes and returns the end offset.
//
//	if _, err := buf.CheckRange(len(data), bp, size); err != nil {
//	    return fmt.Errorf("block 0x%X: %w", bp, err)
//	}
func CheckRange(size, offset, n int) (int, error) {
	switch {
	case offset < 0:
		return 0, fmt.Errorf("negative offset %d", offset)
	case n < 0:
		return 0, fmt.Errorf("negative length %d", n)
	}
	end, ok := AddOverflowSafe(offset, n)
	if !ok {
		return 0, fmt.Errorf("offset %d + length %d overflows", offset, n)
	}
	if end > size {
		return 0, fmt.Errorf("end 0x%X past region end 0x%X", end, size)
	}
	return end, nil
}

// Slice returns b[off:off+n] when the range is inside b.
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, err := CheckRange(len(b), off, n)
	if err != nil {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is inside b.
func Has(b []byte, off, n int) bool {
	_, err := CheckRange(len(b), off, n)
	return err == nil
}
