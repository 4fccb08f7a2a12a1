// Package counter counts match-set characters across text files, either
// one file at a time on the caller's goroutine or fanned out over a fixed
// number of workers.
package counter

import (
	"context"
	"log/slog"
	"time"

	"github.com/dtnitsch/fasty/models"
	"github.com/dtnitsch/fasty/pkg/analytics"
	"github.com/dtnitsch/fasty/pkg/storage"
)

// Counter runs counting operations. It holds configuration only and is safe
// for concurrent use.
type Counter struct {
	workers   int
	logger    *slog.Logger
	countFile func(path string, set analytics.MatchSet) (uint64, error)
}

// Option configures a Counter.
type Option func(*Counter)

// WithWorkers sets the parallel fan-out. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(c *Counter) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger used for per-worker debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Counter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Counter with models.DefaultWorkerCount workers and no logging.
func New(opts ...Option) *Counter {
	c := &Counter{
		workers:   models.DefaultWorkerCount,
		logger:    slog.New(slog.DiscardHandler),
		countFile: countFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workers returns the configured fan-out.
func (c *Counter) Workers() int {
	return c.workers
}

var defaultCounter = New()

// CountFile reads path as UTF-8 text and returns how many of its characters
// belong to set.
func CountFile(path string, set analytics.MatchSet) (uint64, error) {
	return countFile(path, set)
}

// CountSequential counts every file in order on the calling goroutine.
func CountSequential(paths []string, set analytics.MatchSet) (models.CountOutput, error) {
	return defaultCounter.CountSequential(paths, set)
}

// CountParallel counts files using models.DefaultWorkerCount workers.
func CountParallel(paths []string, set analytics.MatchSet) (models.CountOutput, error) {
	return defaultCounter.CountParallel(paths, set)
}

func countFile(path string, set analytics.MatchSet) (uint64, error) {
	s := &storage.Storage{}
	text, err := s.ReadText(path)
	if err != nil {
		return 0, err
	}
	return set.Count(text), nil
}

// CountFile is the package-level CountFile routed through c.
func (c *Counter) CountFile(path string, set analytics.MatchSet) (uint64, error) {
	return c.countFile(path, set)
}

// CountSequential sums the counts of paths in order. The first failing file
// ends the operation and no partial sum is returned.
func (c *Counter) CountSequential(paths []string, set analytics.MatchSet) (models.CountOutput, error) {
	start := time.Now()

	counts, err := c.sumFiles(context.Background(), paths, set)
	if err != nil {
		return models.CountOutput{}, err
	}

	return models.NewCountOutput(counts, start), nil
}

// sumFiles counts paths in order and stops at the first error, or before the
// next file once ctx is done.
func (c *Counter) sumFiles(ctx context.Context, paths []string, set analytics.MatchSet) (uint64, error) {
	var total uint64
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := c.countFile(path, set)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
