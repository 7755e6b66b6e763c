package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/mmfile"
)

var checkBlocks bool

func init() {
	cmd := newCheckCmd()
	cmd.Flags().BoolVar(&checkBlocks, "blocks", false, "List every block with a payload preview")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <image>",
		Short: "Validate a saved heap image",
		Long: `The check command maps a heap image read-only and walks its block
chain: prologue, per-block tags, alignment, coalescing and the epilogue.
A consistent image is also attached to a scratch arena to rebuild its free
list and report usage.

Example:
  heapctl check out/amptjp-bal.rep.heap
  heapctl check out/amptjp-bal.rep.heap --blocks
  heapctl check out/amptjp-bal.rep.heap --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckImage(args)
		},
	}
	return cmd
}

func runCheckImage(args []string) error {
	path := args[0]
	printVerbose("Checking image: %s\n", path)

	im, err := mmfile.Open(path)
	if err != nil {
		return err
	}
	defer im.Close()

	opts := verify.Options{Verbose: verbose && !jsonOut && !quiet, Out: os.Stdout}
	rep := verify.Image(im.Data, opts)

	sum := printer.Summary{Name: path, Report: &rep}
	if rep.OK() {
		u, err := imageUsage(im.Data)
		if err != nil {
			return err
		}
		sum.Usage = u
	}

	p := newPrinter()
	if err := p.Summary(sum); err != nil {
		return err
	}
	if checkBlocks {
		if err := p.Blocks(im.Data); err != nil {
			return err
		}
	}
	if !rep.OK() {
		return fmt.Errorf("%s: %w", path, rep.Err())
	}
	return nil
}

// imageUsage attaches to a private copy of data and summarises it. Attach
// rewrites free-list links, so the read-only mapping is not used directly.
func imageUsage(data []byte) (alloc.Usage, error) {
	al, err := alloc.Attach(arena.NewStatic(slices.Clone(data)), nil)
	if err != nil {
		return alloc.Usage{}, err
	}
	return al.Usage(), nil
}
