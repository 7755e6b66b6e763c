// Package printer renders allocator statistics, heap usage, validation
// reports and block dumps as text or JSON.
package printer

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
)

const DefaultPreviewBytes = 16

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text with grouped numbers.
	FormatText Format = "text"

	// FormatJSON outputs one JSON document per call.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// Language selects digit grouping for text output.
	// Default: language.English
	Language language.Tag

	// PreviewBytes is how many payload bytes a block dump shows per
	// allocated block. Set to 0 to omit previews.
	// Default: 16
	PreviewBytes int

	// ShowFree includes free blocks in block dumps.
	// Default: true
	ShowFree bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		Language:     language.English,
		PreviewBytes: DefaultPreviewBytes,
		ShowFree:     true,
	}
}

// Printer writes reports to an io.Writer.
type Printer struct {
	w    io.Writer
	opts Options
	msg  *message.Printer
}

// New creates a printer writing to w.
func New(w io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	return &Printer{w: w, opts: opts, msg: message.NewPrinter(opts.Language)}
}

// Summary is the outcome of one run over a heap: a trace replay or an image
// check.
type Summary struct {
	Name    string         `json:"name"`
	Ops     int            `json:"ops,omitempty"`
	Elapsed time.Duration  `json:"elapsed_ns,omitempty"`
	Stats   *alloc.Stats   `json:"stats,omitempty"`
	Usage   alloc.Usage    `json:"usage"`
	Report  *verify.Report `json:"report,omitempty"`
	Err     string         `json:"error,omitempty"`
}

// Summary prints s.
func (p *Printer) Summary(s Summary) error {
	if p.opts.Format == FormatJSON {
		return p.printJSON(s)
	}
	return p.summaryText(s)
}

// Stats prints allocator counters.
func (p *Printer) Stats(s alloc.Stats) error {
	if p.opts.Format == FormatJSON {
		return p.printJSON(s)
	}
	return p.statsText(s, "")
}

// Usage prints a heap usage summary.
func (p *Printer) Usage(u alloc.Usage) error {
	if p.opts.Format == FormatJSON {
		return p.printJSON(usageJSON(u))
	}
	return p.usageText(u, "")
}

// Report prints a validation report.
func (p *Printer) Report(r verify.Report) error {
	if p.opts.Format == FormatJSON {
		return p.printJSON(r)
	}
	return p.reportText(r, "")
}

// Blocks prints every block of a heap image.
func (p *Printer) Blocks(data []byte) error {
	blocks := p.collect(data)
	if p.opts.Format == FormatJSON {
		return p.printJSON(blocks)
	}
	return p.blocksText(blocks)
}

func (p *Printer) printf(format string, args ...any) error {
	_, err := p.msg.Fprintf(p.w, format, args...)
	return err
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
