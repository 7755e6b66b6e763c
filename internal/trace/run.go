package trace

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is the outcome of one trace in RunAll.
type Job struct {
	Path   string
	Result Result
	Err    error
}

// RunFunc replays the trace at path on a heap it owns.
type RunFunc func(ctx context.Context, path string) (Result, error)

// RunAll runs fn for every path with at most limit in flight (limit <= 0
// means unbounded). Per-trace failures are recorded in the corresponding Job;
// the returned error is non-nil only if ctx was cancelled. Jobs are returned
// in path order.
func RunAll(ctx context.Context, paths []string, limit int, fn RunFunc) ([]Job, error) {
	jobs := make([]Job, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				jobs[i] = Job{Path: path, Err: err}
				return err
			}
			res, err := fn(gctx, path)
			jobs[i] = Job{Path: path, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return jobs, err
	}
	return jobs, ctx.Err()
}
