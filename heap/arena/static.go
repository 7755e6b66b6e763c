package arena

// Static wraps an existing heap image. It never grows, so it is suited to
// inspecting persisted or read-only mapped images.
type Static struct {
	data []byte
}

// NewStatic wraps data without copying it.
func NewStatic(data []byte) *Static {
	return &Static{data: data}
}

func (s *Static) Grow(n int) (int, error) {
	if n < 0 {
		return 0, ErrBadGrow
	}
	if n == 0 {
		return len(s.data), nil
	}
	return 0, ErrExhausted
}

func (s *Static) Bytes() []byte { return s.data }

func (s *Static) Lo() int { return 0 }

func (s *Static) Hi() int { return len(s.data) - 1 }
