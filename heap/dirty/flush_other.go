//go:build !linux && !freebsd && !darwin && !windows

package dirty

import "context"

// flushRanges is a no-op where the arena is not memory-mapped; the arena
// writes its buffer back itself.
func (t *Tracker) flushRanges(ctx context.Context, _ []byte) error {
	return ctx.Err()
}

func fdatasync(int, bool) error { return nil }
