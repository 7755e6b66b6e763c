// Package mmfile maps saved heap images read-only for inspection.
package mmfile

import (
	"errors"
	"fmt"
)

// ErrEmpty indicates a zero-length image file.
var ErrEmpty = errors.New("mmfile: empty image")

// Image is a read-only view of a heap image file. Data must not be used
// after Close.
type Image struct {
	Path string
	Data []byte

	unmap func() error
}

// Close releases the mapping. It is safe to call more than once.
func (im *Image) Close() error {
	if im.unmap == nil {
		return nil
	}
	err := im.unmap()
	im.unmap = nil
	im.Data = nil
	return err
}

func checkSize(path string, size int64) error {
	if size == 0 {
		return fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	if size > int64(^uint(0)>>1) {
		return fmt.Errorf("mmfile: %s too large to map (%d bytes)", path, size)
	}
	return nil
}
