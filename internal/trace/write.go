package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Write encodes t to w in the text format.
func Write(w io.Writer, t *Trace) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n%d\n%d\n", t.SuggestedHeap, t.NumIDs, len(t.Ops), t.Weight)
	for _, op := range t.Ops {
		if op.Kind == Free {
			fmt.Fprintf(bw, "%c %d\n", op.Kind, op.ID)
			continue
		}
		fmt.Fprintf(bw, "%c %d %d\n", op.Kind, op.ID, op.Size)
	}
	return bw.Flush()
}

// Create writes t to path, compressing by file suffix.
func Create(path string, t *Trace) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	switch filepath.Ext(path) {
	case ".zst":
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("trace: zstd: %w", err)
		}
		if err := Write(enc, t); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	case ".lz4":
		zw := lz4.NewWriter(f)
		if err := Write(zw, t); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	}
	return Write(f, t)
}
