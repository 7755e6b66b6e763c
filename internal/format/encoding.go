package format

import "encoding/binary"

// Heap words are little-endian: 32-bit boundary tags and 64-bit free-list
// links. The helpers panic on a short buffer; callers bounds-check first.

// PutU32 stores v at b[off:off+4].
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutU64 stores v at b[off:off+8].
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU32 loads the word at b[off:off+4].
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadU64 loads the link at b[off:off+8].
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}
