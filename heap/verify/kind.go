package verify

// Kind enumerates the consistency violations the validator reports.
type Kind int

const (
	BadPrologue Kind = iota + 1
	BadEpilogue
	BlockTooSmall
	BlockMisaligned
	SizeUnaligned
	OutOfBounds
	TagMismatch
	AdjacentFree
	LinkInconsistent
	FreeNodeOutOfBounds
	FreeNodeAllocated
	FreeListCycle
	FreeListEnds
	FreeCountMismatch
)

var kindNames = map[Kind]string{
	BadPrologue:         "bad-prologue",
	BadEpilogue:         "bad-epilogue",
	BlockTooSmall:       "block-too-small",
	BlockMisaligned:     "block-misaligned",
	SizeUnaligned:       "size-unaligned",
	OutOfBounds:         "out-of-bounds",
	TagMismatch:         "tag-mismatch",
	AdjacentFree:        "adjacent-free",
	LinkInconsistent:    "link-inconsistent",
	FreeNodeOutOfBounds: "free-node-out-of-bounds",
	FreeNodeAllocated:   "free-node-allocated",
	FreeListCycle:       "free-list-cycle",
	FreeListEnds:        "free-list-ends",
	FreeCountMismatch:   "free-count-mismatch",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText lets reports render kinds by name in JSON.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
