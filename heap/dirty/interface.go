package dirty

// DirtyTracker is the minimal interface for tracking dirty (modified) byte ranges.
//
// This interface is intended for components that only need to notify about
// dirty regions but don't manage flushing themselves (the allocator).
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the arena, length is the number of bytes.
	Add(off, length int)
}

// Mapping is the memory region a Tracker flushes.
type Mapping interface {
	// Bytes returns the current mapped contents.
	Bytes() []byte

	// FD returns the backing file descriptor, or -1 when there is none.
	FD() int
}
