package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Parse reads a trace from r.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var header [4]int
	line := 0
	for i := range header {
		f, err := nextFields(sc, &line)
		if err != nil {
			return nil, fmt.Errorf("%w: header field %d: %w", ErrSyntax, i+1, err)
		}
		if len(f) != 1 {
			return nil, fmt.Errorf("%w: line %d: header expects one integer, got %q", ErrSyntax, line, strings.Join(f, " "))
		}
		n, err := strconv.Atoi(f[0])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: line %d: bad header integer %q", ErrSyntax, line, f[0])
		}
		header[i] = n
	}

	t := &Trace{
		SuggestedHeap: header[0],
		NumIDs:        header[1],
		Weight:        header[3],
		Ops:           make([]Op, 0, min(header[2], 1<<20)),
	}

	for {
		f, err := nextFields(sc, &line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		op, err := parseOp(f)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrSyntax, line, err)
		}
		if op.ID >= t.NumIDs {
			return nil, fmt.Errorf("%w: line %d: id %d outside [0, %d)", ErrSyntax, line, op.ID, t.NumIDs)
		}
		t.Ops = append(t.Ops, op)
	}

	if len(t.Ops) != header[2] {
		return nil, fmt.Errorf("%w: header declares %d ops, found %d", ErrSyntax, header[2], len(t.Ops))
	}
	return t, nil
}

// nextFields returns the fields of the next non-blank line, or io.EOF.
func nextFields(sc *bufio.Scanner, line *int) ([]string, error) {
	for sc.Scan() {
		*line++
		f := strings.Fields(sc.Text())
		if len(f) > 0 {
			return f, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func parseOp(f []string) (Op, error) {
	if len(f[0]) != 1 {
		return Op{}, fmt.Errorf("unknown op %q", f[0])
	}
	op := Op{Kind: Kind(f[0][0])}

	want := 3
	switch op.Kind {
	case Alloc, Realloc:
	case Free:
		want = 2
	default:
		return Op{}, fmt.Errorf("unknown op %q", f[0])
	}
	if len(f) != want {
		return Op{}, fmt.Errorf("%s expects %d fields, got %d", op.Kind, want, len(f))
	}

	id, err := strconv.Atoi(f[1])
	if err != nil || id < 0 {
		return Op{}, fmt.Errorf("bad id %q", f[1])
	}
	op.ID = id

	if want == 3 {
		size, err := strconv.Atoi(f[2])
		if err != nil || size < 0 {
			return Op{}, fmt.Errorf("bad size %q", f[2])
		}
		op.Size = size
	}
	return op, nil
}

// Open reads the trace at path, decompressing by file suffix.
func Open(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch filepath.Ext(path) {
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("trace: zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	case ".lz4":
		r = lz4.NewReader(f)
	}

	t, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = filepath.Base(path)
	return t, nil
}
