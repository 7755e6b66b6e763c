package format

// Align8 returns n aligned up to the next 8-byte boundary.
// Used for block sizes and payload offsets.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// IsAligned reports whether off sits on an 8-byte boundary.
func IsAligned(off int) bool {
	return off&AlignmentMask == 0
}

// AdjustedSize returns the block size needed to carry a payload of size
// bytes: the payload is floored at MinPayload, aligned to 8, and the two
// boundary tags are added. ok is false when the result cannot be encoded.
//
// Example:
//
//	AdjustedSize(1)   = 24
//	AdjustedSize(16)  = 24
//	AdjustedSize(17)  = 32
//	AdjustedSize(100) = 112
func AdjustedSize(size int) (int, bool) {
	if size < 0 || size > MaxBlockSize-TagOverhead {
		return 0, false
	}
	if size < MinPayload {
		size = MinPayload
	}
	return Align8(size) + TagOverhead, true
}
