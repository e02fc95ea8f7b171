// Package bridge implements the synchronous bridge collaborator of
// spec.md §6: a way for a thread that is not itself a scheduled task —
// a test's main goroutine, or an external program's main() — to submit
// work to an executor and block for its result. Everything inside the
// runtime (spawn, join, the resumption primitives) stays non-blocking on
// the scheduler's own goroutines; bridge is the one place a plain
// goroutine is allowed to block waiting on the executor.
package bridge

import (
	"context"

	"github.com/ygrebnov/taskrt"
)

// Future is the handle PostWaitable returns: a single result slot that
// resolves once, mirroring the original's future-like post_waitable
// return value.
type Future[R any] struct {
	task *taskrt.Task[R]
}

// PostWaitable submits work to ex at priority prio and returns a Future
// the calling thread can Wait or Get on. It is grounded directly on
// taskrt.Spawn — a bridge is simply a task whose only consumer is a
// thread that is not itself running inside the executor.
func PostWaitable[R any](ctx context.Context, ex taskrt.Submitter, prio int, work func(context.Context) (R, error)) *Future[R] {
	return &Future[R]{task: taskrt.Spawn(ctx, ex, prio, work)}
}

// Wait blocks the calling thread until work completes, discarding its
// result. Equivalent to the original's future.wait().
func (f *Future[R]) Wait(ctx context.Context) error {
	_, err := f.task.Join(ctx)
	return err
}

// Get blocks the calling thread until work completes and returns its
// result and error. Equivalent to the original's future.get().
func (f *Future[R]) Get(ctx context.Context) (R, error) {
	return f.task.Join(ctx)
}
