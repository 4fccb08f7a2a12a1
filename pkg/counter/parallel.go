package counter

import (
	"context"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/fasty/models"
	"github.com/dtnitsch/fasty/pkg/analytics"
	"github.com/dtnitsch/fasty/pkg/mapreduce"
)

// CountParallel splits paths into at most c.Workers() contiguous chunks and
// counts each chunk on its own goroutine. It waits for every worker before
// summing. Any worker failure fails the whole operation; a worker panic is
// reported as a *WorkerAbortedError.
func (c *Counter) CountParallel(paths []string, set analytics.MatchSet) (models.CountOutput, error) {
	start := time.Now()

	chunks := mapreduce.Split(paths, c.workers)
	partials := make([]uint64, len(chunks))
	// completed[i] is set only when worker i returns its partial sum, so a
	// worker that exits its goroutine early (runtime.Goexit) is still detected.
	completed := make([]bool, len(chunks))

	// The group context only lets siblings stop early after a failure.
	g, ctx := errgroup.WithContext(context.Background())
	for i, chunk := range chunks {
		workerID := i + 1
		workerSet := set.Clone()
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("Worker aborted", "worker_id", workerID, "panic", r)
					err = &WorkerAbortedError{
						Worker: workerID,
						Files:  len(chunk),
						Panic:  r,
						Stack:  debug.Stack(),
					}
				}
			}()

			c.logger.Debug("Worker started chunk", "worker_id", workerID, "files", len(chunk))
			count, err := c.sumFiles(ctx, chunk, workerSet)
			if err != nil {
				c.logger.Debug("Worker failed", "worker_id", workerID, "error", err)
				return err
			}
			partials[i] = count
			completed[i] = true
			c.logger.Debug("Worker finished chunk", "worker_id", workerID, "files", len(chunk), "counts", count)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.CountOutput{}, err
	}
	for i, done := range completed {
		if !done {
			c.logger.Error("Worker exited without a result", "worker_id", i+1)
			return models.CountOutput{}, &WorkerAbortedError{Worker: i + 1, Files: len(chunks[i])}
		}
	}

	return models.NewCountOutput(mapreduce.Reduce(partials), start), nil
}
