package taskrt

import (
	"context"
	"fmt"

	"github.com/ygrebnov/taskrt/executor"
)

// Submitter is anything that accepts prioritized work: *executor.Executor,
// *executor.Manual, or *braid.Braid.
type Submitter interface {
	Submit(ctx context.Context, fn func(context.Context), prio int)
}

// Task is a handle to a resumable computation running on a Submitter. Its
// fields stand in for the original's promise (spec.md §3): done is the
// result_slot's readiness signal, executor/prio are continuation_executor
// and prio, and consumed is the flags bit the debug build checks against
// double-consumption.
type Task[R any] struct {
	ex   Submitter
	prio int

	done     chan struct{}
	result   R
	err      error
	consumed bool
}

// Spawn submits fn to ex at priority prio and returns a Task handle.
// Spawning does not block the caller; the returned Task must be Joined
// (or explicitly Detach'd) exactly once — spec.md §3: "dropping a task
// without consuming it is a programmer error in debug builds."
func Spawn[R any](ctx context.Context, ex Submitter, prio int, fn func(context.Context) (R, error)) *Task[R] {
	t := &Task[R]{ex: ex, prio: prio, done: make(chan struct{})}
	ex.Submit(ctx, func(taskCtx context.Context) {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			}
		}()
		t.result, t.err = fn(taskCtx)
	}, prio)
	return t
}

// Join suspends the caller until the task completes, returning its result
// and error. It is the consuming operation of spec.md §3's "co-awaited or
// joined exactly once."
//
// When called from inside another task body — the recursive fork-join
// shape of spec.md §8.1/§8.6 — the calling goroutine is a worker's own
// run-loop goroutine (executor/worker.go's loop->execute->runOne). A bare
// channel receive here would freeze that worker until fn completes, and
// a fixed-size pool deadlocks the moment recursion depth exceeds worker
// count. HelpUntil instead pumps the calling worker's own pop/steal cycle
// while waiting, so it keeps draining queues — very possibly t's own
// child — instead of sitting blocked.
func (t *Task[R]) Join(ctx context.Context) (R, error) {
	markConsumed(&t.consumed, "Join")
	if err := executor.HelpUntil(ctx, t.done); err != nil {
		var zero R
		return zero, err
	}
	return t.result, t.err
}

// Detach marks the task as intentionally not joined: its result is
// discarded once it completes, and no goroutine blocks waiting for it.
// The debug build still records this as the one permitted consumption.
func (t *Task[R]) Detach() {
	markConsumed(&t.consumed, "Detach")
}

// Done reports whether the task has completed, without blocking.
func (t *Task[R]) Done() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
