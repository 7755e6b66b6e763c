package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/arena"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	runParallel int
	runCheck    bool
	runFill     bool
	runMode     string
	runMaxHeap  int
	runImageDir string
	runBase     string
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVarP(&runParallel, "parallel", "p", runtime.GOMAXPROCS(0), "Traces to replay concurrently")
	cmd.Flags().BoolVar(&runCheck, "check", false, "Validate the heap after every operation")
	cmd.Flags().BoolVar(&runFill, "fill", true, "Write and verify payload patterns")
	cmd.Flags().StringVar(&runMode, "mode", "memory", "Arena backing (memory, file)")
	cmd.Flags().IntVar(&runMaxHeap, "max-heap", arena.DefaultMaxHeap, "Arena ceiling in bytes")
	cmd.Flags().StringVar(&runImageDir, "image", "", "Directory to persist final heap images in")
	cmd.Flags().StringVar(&runBase, "base", "", "Heap image to start every replay from (memory mode)")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <trace>...",
		Short: "Replay allocation traces",
		Long: `The run command replays one or more trace files, each on its own arena
and allocator, and prints allocator statistics and heap usage per trace.

Traces ending in .zst or .lz4 are decompressed on the fly. With --mode file
each arena is a memory-mapped file; with --image the final heap of every
trace is kept as <image>/<trace>.heap for later inspection with check.
With --base every replay starts from a copy of a saved heap instead of an
empty arena, which replays a trace against an already fragmented heap.

Example:
  heapctl run traces/*.rep
  heapctl run --check --parallel 1 amptjp-bal.rep
  heapctl run --mode file --image out/ coalescing-bal.rep.zst`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args)
		},
	}
	return cmd
}

// runSummaries collects per-trace summaries from concurrent replays.
type runSummaries struct {
	mu sync.Mutex
	m  map[string]printer.Summary
}

func (s *runSummaries) put(path string, sum printer.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[path] = sum
}

func runRun(ctx context.Context, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if runMode != "memory" && runMode != "file" {
		return fmt.Errorf("unknown mode: %s (must be memory or file)", runMode)
	}
	var base []byte
	if runBase != "" {
		if runMode != "memory" {
			return fmt.Errorf("--base requires --mode memory")
		}
		img, err := os.ReadFile(runBase)
		if err != nil {
			return err
		}
		base = img
	}

	dir := runImageDir
	if dir == "" && runMode == "file" {
		tmp, err := os.MkdirTemp("", "heapctl-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	sums := &runSummaries{m: make(map[string]printer.Summary, len(paths))}
	jobs, err := trace.RunAll(ctx, paths, runParallel, func(ctx context.Context, path string) (trace.Result, error) {
		printVerbose("Replaying %s\n", path)
		return replayOne(ctx, path, dir, base, sums)
	})
	if err != nil {
		return err
	}

	p := newPrinter()
	failed := 0
	for _, j := range jobs {
		sum, ok := sums.m[j.Path]
		if !ok {
			sum = printer.Summary{Name: filepath.Base(j.Path)}
		}
		if j.Err != nil {
			failed++
			sum.Err = j.Err.Error()
		}
		if err := p.Summary(sum); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(jobs))
	}
	return nil
}

func replayOne(ctx context.Context, path, dir string, base []byte, sums *runSummaries) (res trace.Result, err error) {
	tr, err := trace.Open(path)
	if err != nil {
		return res, err
	}

	a, finish, err := openArena(tr.Name, dir, base)
	if err != nil {
		return res, err
	}
	defer func() {
		err = errors.Join(err, finish(ctx))
	}()

	opts := alloc.DefaultOptions()
	opts.Debug = runCheck
	if f, ok := a.(*arena.File); ok {
		opts.Dirty = f.Tracker()
	}
	newHeap := alloc.New
	if base != nil {
		newHeap = alloc.Attach
	}
	al, err := newHeap(a, opts)
	if err != nil {
		return res, err
	}

	res, err = trace.Replay(ctx, tr, al, trace.ReplayOptions{Fill: runFill})
	stats := al.Stats()
	sums.put(path, printer.Summary{
		Name:    tr.Name,
		Ops:     res.Ops,
		Elapsed: res.Elapsed,
		Stats:   &stats,
		Usage:   al.Usage(),
	})
	return res, err
}

// openArena returns the arena for one trace and a function that persists
// and releases it.
func openArena(name, dir string, base []byte) (arena.Arena, func(context.Context) error, error) {
	image := ""
	if dir != "" {
		image = filepath.Join(dir, strings.TrimSuffix(strings.TrimSuffix(name, ".zst"), ".lz4")+".heap")
	}

	if runMode == "file" {
		f, err := arena.CreateFile(image, &arena.FileOptions{MaxSize: int64(runMaxHeap)})
		if err != nil {
			return nil, nil, err
		}
		return f, func(ctx context.Context) error {
			return errors.Join(f.Sync(ctx), f.Close())
		}, nil
	}

	m := arena.NewMemory(runMaxHeap)
	if base != nil {
		var err error
		if m, err = arena.NewMemoryImage(base, runMaxHeap); err != nil {
			return nil, nil, err
		}
	}
	return m, func(context.Context) error {
		if image == "" {
			return nil
		}
		return os.WriteFile(image, m.Bytes(), 0o644)
	}, nil
}
