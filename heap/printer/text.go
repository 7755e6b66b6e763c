package printer

import (
	"strings"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
)

func (p *Printer) summaryText(s Summary) error {
	if err := p.printf("%s\n", s.Name); err != nil {
		return err
	}
	if s.Ops > 0 {
		if err := p.printf("  ops:           %d\n", s.Ops); err != nil {
			return err
		}
	}
	if s.Elapsed > 0 {
		if err := p.printf("  elapsed:       %v\n", s.Elapsed); err != nil {
			return err
		}
	}
	if s.Err != "" {
		if err := p.printf("  error:         %s\n", s.Err); err != nil {
			return err
		}
	}
	if err := p.usageText(s.Usage, "  "); err != nil {
		return err
	}
	if s.Stats != nil {
		if err := p.statsText(*s.Stats, "  "); err != nil {
			return err
		}
	}
	if s.Report != nil {
		return p.reportText(*s.Report, "  ")
	}
	return nil
}

func (p *Printer) usageText(u alloc.Usage, indent string) error {
	return p.printf(
		"%sheap:          %d bytes\n"+
			"%sblocks:        %d (%d allocated, %d free)\n"+
			"%sallocated:     %d bytes\n"+
			"%sfree:          %d bytes (largest %d)\n"+
			"%sutilization:   %s\n"+
			"%sfragmentation: %s\n",
		indent, u.HeapBytes,
		indent, u.Blocks, u.AllocBlocks, u.FreeBlocks,
		indent, u.AllocBytes,
		indent, u.FreeBytes, u.LargestFree,
		indent, percent(u.Utilization()),
		indent, percent(u.Fragmentation()),
	)
}

func (p *Printer) statsText(s alloc.Stats, indent string) error {
	return p.printf(
		"%sgrows:         %d (%d bytes, %d refused)\n"+
			"%sallocs:        %d (%d fit, %d grew, %d failed)\n"+
			"%sfrees:         %d\n"+
			"%sreallocs:      %d (%d shrink, %d in place, %d moved)\n"+
			"%ssplits:        %d\n"+
			"%scoalesces:     %d forward, %d backward\n"+
			"%sfit scans:     %d\n",
		indent, s.GrowCalls, s.GrowBytes, s.GrowFailures,
		indent, s.AllocCalls, s.AllocFastPath, s.AllocSlowPath, s.AllocFailures,
		indent, s.FreeCalls,
		indent, s.ReallocCalls, s.ReallocShrink, s.ReallocInPlace, s.ReallocCopy,
		indent, s.SplitCount,
		indent, s.CoalesceForward, s.CoalesceBackward,
		indent, s.FitScans,
	)
}

func (p *Printer) reportText(r verify.Report, indent string) error {
	if r.OK() {
		return p.printf("%scheck:         ok (%d blocks, %d free, %d listed)\n",
			indent, r.Blocks, r.FreeBlocks, r.ListNodes)
	}
	if err := p.printf("%scheck:         %d problems\n", indent, len(r.Diagnostics)); err != nil {
		return err
	}
	for _, d := range r.Diagnostics {
		if err := p.printf("%s  %s\n", indent, d); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) blocksText(blocks []blockJSON) error {
	for _, b := range blocks {
		state := "free "
		if b.Alloc {
			state = "alloc"
		}
		if err := p.printf("0x%08X  %s  %8d", b.Offset, state, b.Size); err != nil {
			return err
		}
		if b.Preview != "" {
			pad := max(0, 3*p.opts.PreviewBytes-1-len(b.Preview))
			if err := p.printf("  %s%s  |%s|", b.Preview, strings.Repeat(" ", pad), b.Text); err != nil {
				return err
			}
		}
		if err := p.printf("\n"); err != nil {
			return err
		}
	}
	return nil
}
