//go:build darwin

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges flushes dirty ranges to disk.
//
// On macOS, msync() requires the address to match the original mmap() address.
// We cannot pass sub-slices because their base pointer differs from the mmap address.
// Flush the entire mapped region instead; the kernel only writes dirty pages.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return unix.Msync(data, unix.MS_SYNC)
}

// fdatasync performs file descriptor sync.
//
// On macOS, if fullfsync is true, use F_FULLFSYNC for maximum durability.
// Otherwise, use regular fsync.
func fdatasync(fd int, fullfsync bool) error {
	if fullfsync {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0)
		return err
	}
	// macOS doesn't have fdatasync, use fsync
	return unix.Fsync(fd)
}
