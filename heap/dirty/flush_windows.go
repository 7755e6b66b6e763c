//go:build windows

package dirty

import (
	"context"
	"unsafe"

	"golang.org/x/sys/windows"
)

// flushRanges flushes dirty ranges with FlushViewOfFile.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, end, ok := clamp(r, len(data))
		if !ok {
			continue
		}
		region := data[start:end]
		addr := uintptr(unsafe.Pointer(&region[0]))
		if err := windows.FlushViewOfFile(addr, uintptr(len(region))); err != nil {
			return err
		}
	}
	return nil
}

// fdatasync performs file descriptor sync using FlushFileBuffers.
// The fullfsync parameter is ignored on Windows.
func fdatasync(fd int, _ bool) error {
	return windows.FlushFileBuffers(windows.Handle(fd))
}
