package counter

import (
	"errors"
	"fmt"
)

// ErrWorkerAborted is matched by every *WorkerAbortedError.
var ErrWorkerAborted = errors.New("worker aborted")

// WorkerAbortedError reports a parallel worker that stopped without a result,
// as opposed to one that reported an I/O failure. Panic is nil when the worker
// exited without panicking.
type WorkerAbortedError struct {
	Worker int
	Files  int
	Panic  any
	Stack  []byte
}

func (e *WorkerAbortedError) Error() string {
	if e.Panic == nil {
		return fmt.Sprintf("worker %d exited without a result while counting %d files", e.Worker, e.Files)
	}
	return fmt.Sprintf("worker %d aborted while counting %d files: %v", e.Worker, e.Files, e.Panic)
}

func (e *WorkerAbortedError) Unwrap() error {
	return ErrWorkerAborted
}
