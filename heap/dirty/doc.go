// Package dirty provides page-level dirty tracking for file-backed heap arenas.
//
// # Overview
//
// The allocator marks every boundary tag, free-list link and payload view it
// hands out. A file arena flushes only the pages touched since the last sync
// instead of the whole mapping.
//
// # Usage
//
//	tracker := dirty.NewTracker(mapping)
//
//	// After rewriting the header at offset 0x5000
//	tracker.Add(0x5000, 4)
//
//	// Flush dirty pages and fdatasync the descriptor
//	err := tracker.Flush(ctx, dirty.FlushAuto)
//
// # Page-Level Granularity
//
// Ranges are rounded out to 4KB page boundaries and merged at flush time:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// # Thread Safety
//
// Trackers are not thread-safe, matching the allocator they serve.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap/arena: File arena that owns a tracker
//   - github.com/joshuapare/heapkit/heap/alloc: Allocator that marks ranges dirty
package dirty
