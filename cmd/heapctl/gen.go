package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	genOps     int
	genIDs     int
	genMaxSize int
	genSeed    uint64
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().IntVar(&genOps, "ops", 1000, "Number of operations")
	cmd.Flags().IntVar(&genIDs, "ids", 100, "Number of distinct block ids")
	cmd.Flags().IntVar(&genMaxSize, "max-size", 4096, "Largest request size")
	cmd.Flags().Uint64Var(&genSeed, "seed", 1, "Random seed")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <out>",
		Short: "Generate a random trace",
		Long: `The gen command writes a random, well-formed trace: every free and
realloc names a live id and every id is freed by the end. The output is
compressed with zstd or lz4 when <out> ends in .zst or .lz4.

Example:
  heapctl gen random.rep --ops 10000 --ids 500
  heapctl gen random.rep.zst --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(args)
		},
	}
	return cmd
}

func runGen(args []string) error {
	out := args[0]
	tr := trace.Generate(trace.GenOptions{
		Ops:     genOps,
		IDs:     genIDs,
		MaxSize: genMaxSize,
		Seed:    genSeed,
	})
	if err := trace.Create(out, tr); err != nil {
		return err
	}
	printInfo("Wrote %d ops over %d ids to %s (peak live %d bytes)\n", len(tr.Ops), tr.NumIDs, out, tr.SuggestedHeap)
	return nil
}
