package printer

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/buf"
)

// usageJSONView adds the derived ratios to alloc.Usage.
type usageJSONView struct {
	alloc.Usage
	Utilization   float64 `json:"utilization"`
	Fragmentation float64 `json:"fragmentation"`
}

func usageJSON(u alloc.Usage) usageJSONView {
	return usageJSONView{Usage: u, Utilization: u.Utilization(), Fragmentation: u.Fragmentation()}
}

// blockJSON represents one block of a dump.
type blockJSON struct {
	Offset  int    `json:"offset"`
	Size    int    `json:"size"`
	Alloc   bool   `json:"alloc"`
	Preview string `json:"preview,omitempty"` // hex of the first payload bytes
	Text    string `json:"text,omitempty"`    // the same bytes decoded as Windows-1252
}

func (p *Printer) collect(data []byte) []blockJSON {
	var out []blockJSON
	alloc.WalkImage(data, func(b alloc.Block) bool {
		if !b.Alloc && !p.opts.ShowFree {
			return true
		}
		bj := blockJSON{Offset: int(b.Ptr), Size: b.Size, Alloc: b.Alloc}
		if b.Alloc && p.opts.PreviewBytes > 0 {
			if raw, ok := buf.Slice(data, int(b.Ptr), min(p.opts.PreviewBytes, b.Payload())); ok {
				bj.Preview = spacedHex(raw)
				bj.Text = printable(raw)
			}
		}
		out = append(out, bj)
		return true
	})
	return out
}

func spacedHex(raw []byte) string {
	var sb strings.Builder
	for i, c := range raw {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hex.EncodeToString([]byte{c}))
	}
	return sb.String()
}

// printable decodes raw as Windows-1252 and replaces control characters
// with dots.
func printable(raw []byte) string {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		decoded = raw
	}
	var sb strings.Builder
	for _, r := range string(decoded) {
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r < 0xA0) {
			sb.WriteByte('.')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (p *Printer) printJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
