package dirty

import (
	"context"
	"testing"
)

// fakeMapping is an unmapped region; Flush on it only exercises the
// bookkeeping paths.
type fakeMapping struct {
	data []byte
}

func (f *fakeMapping) Bytes() []byte { return f.data }
func (f *fakeMapping) FD() int       { return -1 }

// newTestTracker pins the page size so expectations do not depend on the host.
func newTestTracker() *Tracker {
	t := NewTracker(&fakeMapping{})
	t.pageSize = 4096
	return t
}

func Test_DirtyTracker_PageAlignment(t *testing.T) {
	tracker := newTestTracker()

	tracker.Add(100, 200)

	// Start: 100 rounds down to 0
	// End: 300 rounds up to 4096
	coalesced := tracker.coalesce()
	if len(coalesced) != 1 {
		t.Fatalf("Expected 1 coalesced range, got %d", len(coalesced))
	}
	if coalesced[0].Off != 0 {
		t.Errorf("Start not aligned: got %d, want 0", coalesced[0].Off)
	}
	if coalesced[0].Len != 4096 {
		t.Errorf("Length not aligned: got %d, want 4096", coalesced[0].Len)
	}
}

func Test_DirtyTracker_Coalesce_Adjacent(t *testing.T) {
	tracker := newTestTracker()

	tracker.Add(4096, 4096)
	tracker.Add(8192, 4096)

	coalesced := tracker.coalesce()
	if len(coalesced) != 1 {
		t.Fatalf("Expected 1 range, got %d: %+v", len(coalesced), coalesced)
	}
	if coalesced[0].Off != 4096 || coalesced[0].Len != 8192 {
		t.Errorf("got %+v, want {4096 8192}", coalesced[0])
	}
}

func Test_DirtyTracker_Coalesce_Disjoint(t *testing.T) {
	tracker := newTestTracker()

	// Added out of order; boundary tags on pages 5 and 0.
	tracker.Add(5*4096+12, 4)
	tracker.Add(16, 8)
	tracker.Add(5*4096+4000, 200)

	coalesced := tracker.Coalesced()
	if len(coalesced) != 2 {
		t.Fatalf("Expected 2 ranges, got %d: %+v", len(coalesced), coalesced)
	}
	if coalesced[0] != (Range{Off: 0, Len: 4096}) {
		t.Errorf("first range = %+v", coalesced[0])
	}
	if coalesced[1] != (Range{Off: 5 * 4096, Len: 2 * 4096}) {
		t.Errorf("second range = %+v", coalesced[1])
	}
}

func Test_DirtyTracker_IgnoresEmpty(t *testing.T) {
	tracker := newTestTracker()
	tracker.Add(64, 0)
	tracker.Add(64, -4)
	if tracker.Pending() {
		t.Fatalf("empty ranges must not be tracked")
	}
	if got := tracker.Coalesced(); got != nil {
		t.Fatalf("Coalesced() = %+v, want nil", got)
	}
}

func Test_DirtyTracker_DebugRangesCopy(t *testing.T) {
	tracker := newTestTracker()
	tracker.Add(8, 16)

	r := tracker.DebugRanges()
	r[0].Off = 999
	if tracker.DebugRanges()[0].Off != 8 {
		t.Fatalf("DebugRanges must return a copy")
	}
}

func Test_DirtyTracker_FlushClearsWithoutMapping(t *testing.T) {
	tracker := newTestTracker()
	tracker.Add(0, 4096)

	if err := tracker.Flush(context.Background(), FlushAuto); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if tracker.Pending() {
		t.Fatalf("ranges not cleared after flush")
	}
}

func Test_DirtyTracker_FlushCancelled(t *testing.T) {
	tracker := newTestTracker()
	tracker.Add(0, 4096)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tracker.Flush(ctx, FlushFull); err == nil {
		t.Fatalf("expected context error")
	}
	if !tracker.Pending() {
		t.Fatalf("cancelled flush must keep ranges")
	}
}

func Test_Clamp(t *testing.T) {
	start, end, ok := clamp(Range{Off: 4096, Len: 4096}, 6000)
	if !ok || start != 4096 || end != 6000 {
		t.Fatalf("clamp = %d,%d,%v", start, end, ok)
	}
	if _, _, ok := clamp(Range{Off: 8192, Len: 4096}, 6000); ok {
		t.Fatalf("range past the mapping must clamp to nothing")
	}
}

func Test_DirtyTracker_AddExtendsLast(t *testing.T) {
	tracker := newTestTracker()

	// header, links, then footer of one 32-byte block at 40
	tracker.Add(36, 4)
	tracker.Add(40, 16)
	tracker.Add(64, 4)

	raw := tracker.DebugRanges()
	if len(raw) != 2 {
		t.Fatalf("Expected 2 raw ranges, got %d: %+v", len(raw), raw)
	}
	if raw[0] != (Range{Off: 36, Len: 20}) {
		t.Errorf("first raw range = %+v, want {36 20}", raw[0])
	}
	if raw[1] != (Range{Off: 64, Len: 4}) {
		t.Errorf("second raw range = %+v, want {64 4}", raw[1])
	}
}
