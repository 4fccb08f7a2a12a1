package counter

import (
	"errors"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/fasty/models"
	"github.com/dtnitsch/fasty/pkg/analytics"
	"github.com/dtnitsch/fasty/pkg/corpus"
	"github.com/dtnitsch/fasty/pkg/storage"
)

const glueSQL = "Concurrency is awesome! Of course, GlueSQL is more awesome :)"

const (
	defaultWait  = 2 * time.Second
	pollInterval = 5 * time.Millisecond
)

func mustMatchSet(t *testing.T, chars string) analytics.MatchSet {
	t.Helper()
	set, err := analytics.ParseMatchSet(chars)
	require.NoError(t, err)
	return set
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// generateCorpus writes files lorem-ipsum files and returns their paths along
// with the number of 'a' and 'c' characters they hold, counted with the
// strings package.
func generateCorpus(t *testing.T, files, words int) ([]string, uint64) {
	t.Helper()
	paths, err := corpus.NewGenerator(rand.Uint64()).WriteFiles(t.TempDir(), files, words)
	require.NoError(t, err)

	var want uint64
	for _, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		want += uint64(strings.Count(string(data), "a") + strings.Count(string(data), "c"))
	}
	return paths, want
}

func TestCountFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("counts given characters from a text file", func(t *testing.T) {
		path := writeFile(t, dir, "very_easy.txt", glueSQL)
		got, err := CountFile(path, mustMatchSet(t, "ac"))
		require.NoError(t, err)
		assert.Equal(t, uint64(5), got)
	})

	t.Run("empty file counts zero", func(t *testing.T) {
		path := writeFile(t, dir, "empty.txt", "")
		got, err := CountFile(path, mustMatchSet(t, "ac"))
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("missing file is a read error with its path", func(t *testing.T) {
		path := filepath.Join(dir, "missing.txt")
		_, err := CountFile(path, mustMatchSet(t, "ac"))

		var readErr *storage.ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, path, readErr.Path)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("invalid utf8 is a read error", func(t *testing.T) {
		path := writeFile(t, dir, "binary.bin", string([]byte{0xc3, 0x28}))
		_, err := CountFile(path, mustMatchSet(t, "ac"))
		assert.ErrorIs(t, err, storage.ErrInvalidUTF8)
	})
}

func TestCountSequential(t *testing.T) {
	dir := t.TempDir()
	set := mustMatchSet(t, "ac")

	t.Run("sums files in order", func(t *testing.T) {
		paths := []string{
			writeFile(t, dir, "one.txt", glueSQL),
			writeFile(t, dir, "two.txt", "abc cab"),
		}
		out, err := CountSequential(paths, set)
		require.NoError(t, err)
		assert.Equal(t, uint64(9), out.Counts)
		assert.GreaterOrEqual(t, out.Elapsed, int64(0))
	})

	t.Run("empty list counts zero", func(t *testing.T) {
		out, err := CountSequential(nil, set)
		require.NoError(t, err)
		assert.Zero(t, out.Counts)
	})

	t.Run("fails fast without partial sum", func(t *testing.T) {
		var calls atomic.Int32
		c := New()
		c.countFile = func(path string, set analytics.MatchSet) (uint64, error) {
			calls.Add(1)
			if path == "bad" {
				return 0, &storage.ReadError{Path: path, Err: fs.ErrPermission}
			}
			return 10, nil
		}

		out, err := c.CountSequential([]string{"ok", "bad", "never"}, set)
		assert.ErrorIs(t, err, fs.ErrPermission)
		assert.Equal(t, models.CountOutput{}, out)
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestCountParallel(t *testing.T) {
	set := mustMatchSet(t, "ac")

	t.Run("sixteen generated files match sequential", func(t *testing.T) {
		paths, want := generateCorpus(t, 16, 20000)

		seq, err := CountSequential(paths, set)
		require.NoError(t, err)
		par, err := CountParallel(paths, set)
		require.NoError(t, err)

		assert.Equal(t, want, seq.Counts)
		assert.Equal(t, want, par.Counts)
		assert.GreaterOrEqual(t, par.Elapsed, int64(0))
	})

	t.Run("empty list counts zero", func(t *testing.T) {
		out, err := CountParallel([]string{}, set)
		require.NoError(t, err)
		assert.Zero(t, out.Counts)
	})

	t.Run("fewer files than workers", func(t *testing.T) {
		dir := t.TempDir()
		paths := []string{
			writeFile(t, dir, "a.txt", glueSQL),
			writeFile(t, dir, "b.txt", glueSQL),
			writeFile(t, dir, "c.txt", glueSQL),
		}
		out, err := CountParallel(paths, set)
		require.NoError(t, err)
		assert.Equal(t, uint64(15), out.Counts)
	})

	t.Run("single unreadable path fails the whole operation", func(t *testing.T) {
		paths, _ := generateCorpus(t, 12, 200)
		paths[7] = filepath.Join(t.TempDir(), "missing.txt")

		out, err := CountParallel(paths, set)
		var readErr *storage.ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, paths[7], readErr.Path)
		assert.Equal(t, models.CountOutput{}, out)

		_, err = CountSequential(paths, set)
		assert.ErrorAs(t, err, &readErr)
	})
}

func TestCountParallel_Invariance(t *testing.T) {
	paths, want := generateCorpus(t, 10, 1000)

	t.Run("file order", func(t *testing.T) {
		shuffled := slices.Clone(paths)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		slices.Reverse(paths)

		for _, list := range [][]string{paths, shuffled} {
			out, err := CountParallel(list, mustMatchSet(t, "ac"))
			require.NoError(t, err)
			assert.Equal(t, want, out.Counts)
		}
	})

	t.Run("match set order", func(t *testing.T) {
		ac, err := CountParallel(paths, mustMatchSet(t, "ac"))
		require.NoError(t, err)
		ca, err := CountParallel(paths, mustMatchSet(t, "ca"))
		require.NoError(t, err)
		assert.Equal(t, ac.Counts, ca.Counts)
	})

	t.Run("worker count", func(t *testing.T) {
		for _, workers := range []int{1, 2, 3, 8, 16} {
			out, err := New(WithWorkers(workers)).CountParallel(paths, mustMatchSet(t, "ac"))
			require.NoError(t, err)
			assert.Equal(t, want, out.Counts, "workers=%d", workers)
		}
	})
}

func TestCountParallel_WorkerFanOut(t *testing.T) {
	var active, peak atomic.Int32
	release := make(chan struct{})

	c := New(WithWorkers(4))
	c.countFile = func(path string, set analytics.MatchSet) (uint64, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		active.Add(-1)
		return 1, nil
	}

	paths := make([]string, 20)
	set := mustMatchSet(t, "a")
	done := make(chan models.CountOutput)
	go func() {
		out, err := c.CountParallel(paths, set)
		assert.NoError(t, err)
		done <- out
	}()

	require.Eventually(t, func() bool { return active.Load() == 4 }, defaultWait, pollInterval)
	close(release)

	out := <-done
	assert.Equal(t, uint64(20), out.Counts)
	assert.Equal(t, int32(4), peak.Load())
}

func TestCountParallel_WorkerPanic(t *testing.T) {
	c := New(WithWorkers(2))
	c.countFile = func(path string, set analytics.MatchSet) (uint64, error) {
		if path == "boom" {
			panic("index out of range")
		}
		return 3, nil
	}

	out, err := c.CountParallel([]string{"ok", "ok", "boom", "ok"}, mustMatchSet(t, "a"))
	require.ErrorIs(t, err, ErrWorkerAborted)

	var aborted *WorkerAbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, 2, aborted.Worker)
	assert.Equal(t, 2, aborted.Files)
	assert.Equal(t, "index out of range", aborted.Panic)
	assert.NotEmpty(t, aborted.Stack)
	assert.Equal(t, models.CountOutput{}, out)

	var readErr *storage.ReadError
	assert.False(t, errors.As(err, &readErr))
}

func TestCountParallel_WorkersReceiveSameMembers(t *testing.T) {
	set := mustMatchSet(t, "ac")
	seen := make(chan analytics.MatchSet, 8)

	c := New()
	c.countFile = func(path string, s analytics.MatchSet) (uint64, error) {
		seen <- s
		return 0, nil
	}

	_, err := c.CountParallel([]string{"1", "2", "3", "4", "5", "6", "7", "8"}, set)
	require.NoError(t, err)
	close(seen)

	for s := range seen {
		assert.Equal(t, set.Runes(), s.Runes())
	}
}

func TestCountParallel_WorkerExitsWithoutResult(t *testing.T) {
	c := New(WithWorkers(2))
	c.countFile = func(path string, set analytics.MatchSet) (uint64, error) {
		if path == "boom" {
			runtime.Goexit()
		}
		return 3, nil
	}

	out, err := c.CountParallel([]string{"ok", "ok", "boom", "ok"}, mustMatchSet(t, "a"))
	require.ErrorIs(t, err, ErrWorkerAborted)

	var aborted *WorkerAbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, 2, aborted.Worker)
	assert.Equal(t, 2, aborted.Files)
	assert.Nil(t, aborted.Panic)
	assert.Contains(t, aborted.Error(), "exited without a result")
	assert.Equal(t, models.CountOutput{}, out)
}

func TestNew(t *testing.T) {
	assert.Equal(t, models.DefaultWorkerCount, New().Workers())
	assert.Equal(t, 3, New(WithWorkers(3)).Workers())
	assert.Equal(t, models.DefaultWorkerCount, New(WithWorkers(0)).Workers())
	assert.NotNil(t, New(WithLogger(nil)).logger)
}
