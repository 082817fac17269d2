// Package pool runs per-chunk work over a shared input with bounded
// parallelism. One deadline covers the whole operation; any chunk error
// cancels the siblings and the partial results already collected are
// discarded. Chunk functions must not share mutable state — results flow
// back by value and meet only in the combiner.
package pool

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ptengelmann/ProfilanIQ/internal/errors"
)

// Task names with dedicated combiner strategies.
const (
	TaskProfileColumns        = "profileColumns"
	TaskCalculateCorrelations = "calculateCorrelations"
)

// ChunkFunc computes one chunk's partial result over the item range
// [start, end). The items themselves are captured read-only by the closure.
type ChunkFunc func(ctx context.Context, start, end int) (interface{}, error)

// Options configure one ProcessInParallel operation.
type Options struct {
	MaxWorkers int
	ChunkSize  int
	Timeout    time.Duration
	TaskName   string
}

// Pool dispatches chunked work. A zero-value pool is usable; New applies
// CPU-based defaults.
type Pool struct {
	defaultWorkers int
}

// New creates a pool defaulting to max(1, CPUs−1) workers.
func New() *Pool {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	return &Pool{defaultWorkers: workers}
}

// ProcessInParallel splits n items into contiguous chunks, runs them under
// at most MaxWorkers concurrent workers, and combines the partials with the
// task's strategy. Chunk dispatch is FIFO; completion order is unspecified
// and the combiner does not depend on it.
func (p *Pool) ProcessInParallel(ctx context.Context, n int, fn ChunkFunc, opts Options) (interface{}, error) {
	if n <= 0 {
		return combine(opts.TaskName, nil), nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = p.defaultWorkers
	}
	if workers <= 0 {
		workers = 1
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = (n + workers - 1) / workers
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	chunks := (n + chunkSize - 1) / chunkSize
	partials := make([]interface{}, chunks)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for c := 0; c < chunks; c++ {
		start := c * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		idx := c
		group.Go(func() error {
			// Cancellation is observed at chunk boundaries.
			if err := groupCtx.Err(); err != nil {
				return err
			}
			partial, err := fn(groupCtx, start, end)
			if err != nil {
				return err
			}
			partials[idx] = partial
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.TimeoutError("parallel operation exceeded its deadline")
		}
		return nil, err
	}

	return combine(opts.TaskName, partials), nil
}
