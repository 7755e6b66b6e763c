package verify

import (
	"errors"
	"fmt"
)

// ErrCorrupt is the sentinel every validation failure unwraps to.
var ErrCorrupt = errors.New("heap: corrupt")

// Diagnostic is a single consistency violation.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Offset  int    `json:"offset"` // payload offset of the offending block, -1 if none
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", d.Kind, d.Offset, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Report is the outcome of a validation pass.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	Blocks     int `json:"blocks"`      // blocks between prologue and epilogue
	FreeBlocks int `json:"free_blocks"` // of those, blocks with the alloc bit clear
	ListNodes  int `json:"list_nodes"`  // nodes reached walking the free list
	HeapBytes  int `json:"heap_bytes"`  // arena extent inspected
}

// OK reports whether no violation was found.
func (r Report) OK() bool { return len(r.Diagnostics) == 0 }

// Err returns nil for a consistent heap, otherwise an *Error.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Diagnostics: r.Diagnostics}
}

// Has reports whether any diagnostic of kind k was recorded.
func (r Report) Has(k Kind) bool {
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// Error carries the diagnostics of a failed validation.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	switch len(e.Diagnostics) {
	case 0:
		return ErrCorrupt.Error()
	case 1:
		return fmt.Sprintf("%v: %s", ErrCorrupt, e.Diagnostics[0])
	}
	return fmt.Sprintf("%v: %d problems, first: %s", ErrCorrupt, len(e.Diagnostics), e.Diagnostics[0])
}

func (e *Error) Unwrap() error { return ErrCorrupt }
