//go:build linux || freebsd

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges flushes individual dirty ranges to disk.
//
// On Linux and FreeBSD, msync() can handle page-aligned sub-slices correctly.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, end, ok := clamp(r, len(data))
		if !ok {
			continue
		}
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}

// fdatasync performs file descriptor sync.
//
// On Linux/FreeBSD, fdatasync() provides sufficient guarantees.
// The fullfsync parameter is ignored on Linux/FreeBSD.
func fdatasync(fd int, _ bool) error {
	return unix.Fdatasync(fd)
}
