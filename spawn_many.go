package taskrt

import (
	"context"
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/ygrebnov/taskrt/executor"
)

// Group is the joinable handle returned by SpawnMany/SpawnTuple
// (spec.md §4.7). A shared done-counter, initialized to len(fns), is
// decremented by each child on completion; the last decrementer closes
// done, waking Join. This replaces the teacher's run_all.go/map.go
// goroutine-per-task fan-out with submission through a Submitter, and its
// preserve_order.go reorderer (a streaming buffer-plus-cursor built for
// channel output) with direct indexed writes into a pre-sized slice —
// order falls out of the index itself, so no buffering is needed for the
// Join path. The reorderer's buffering idea is instead what Each below
// borrows, for the genuinely unordered as-completed path.
type Group[R any] struct {
	results []R
	errs    []error
	prio    int

	remaining atomic.Int64
	done      chan struct{}
	events    chan int
}

// SpawnMany submits one child per element of fns to ex at priority prio
// and returns a Group joining all of them.
func SpawnMany[R any](ctx context.Context, ex Submitter, prio int, fns []func(context.Context) (R, error)) *Group[R] {
	g := &Group[R]{
		results: make([]R, len(fns)),
		errs:    make([]error, len(fns)),
		prio:    prio,
		done:    make(chan struct{}),
		events:  make(chan int, len(fns)),
	}
	g.remaining.Store(int64(len(fns)))

	if len(fns) == 0 {
		close(g.done)
		close(g.events)
		return g
	}

	for i, fn := range fns {
		i, fn := i, fn
		ex.Submit(ctx, func(taskCtx context.Context) {
			g.results[i], g.errs[i] = runCaptured(taskCtx, fn)
			g.events <- i
			if g.remaining.Add(-1) == 0 {
				close(g.done)
				close(g.events)
			}
		}, prio)
	}
	return g
}

// SpawnManyBounded is the MaxTasks-bounded spawn_many of spec.md §4.7/§8:
// given a half-open index range [begin, end) of exact size K = end-begin
// and a cap maxTasks = B, it submits fn(i) for exactly min(K, B) values of
// i starting at begin, in order, and returns a Group over just that many
// results. Unlike SpawnMany, the caller need not materialize a slice of
// closures up front — fn is invoked lazily, once per submitted index, as
// the scheduler's own submit loop runs, so values of i beyond the bound
// are never even constructed, not merely submitted-then-cancelled.
func SpawnManyBounded[R any](
	ctx context.Context,
	ex Submitter,
	prio int,
	begin, end, maxTasks int,
	fn func(context.Context, int) (R, error),
) *Group[R] {
	k := end - begin
	if k < 0 {
		k = 0
	}
	n := k
	if maxTasks >= 0 && maxTasks < n {
		n = maxTasks
	}

	fns := make([]func(context.Context) (R, error), n)
	for j := 0; j < n; j++ {
		i := begin + j
		fns[j] = func(taskCtx context.Context) (R, error) { return fn(taskCtx, i) }
	}
	return SpawnMany(ctx, ex, prio, fns)
}

// SpawnTuple submits a heterogeneous fixed-size group built from already-
// boxed child functions; its done-counter and Join behavior are identical
// to SpawnMany, which is simply called with the boxed slice.
func SpawnTuple[R any](ctx context.Context, ex Submitter, prio int, fns ...func(context.Context) (R, error)) *Group[R] {
	return SpawnMany(ctx, ex, prio, fns)
}

func runCaptured[R any](ctx context.Context, fn func(context.Context) (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return fn(ctx)
}

// Join blocks until every child has completed, then returns the results
// in submission order and a combined error built from every non-nil child
// error, each tagged with its index via error_tagging.go.
//
// Like Task.Join, this pumps the calling worker's own run loop (via
// executor.HelpUntil) rather than blocking it outright, so a group whose
// children fan out recursively (skynet, spec.md §8.1) does not starve the
// very workers it depends on to make progress.
func (g *Group[R]) Join(ctx context.Context) ([]R, error) {
	if err := executor.HelpUntil(ctx, g.done); err != nil {
		return nil, err
	}
	var combined error
	for i, e := range g.errs {
		if e != nil {
			combined = multierr.Append(combined, newTaskTaggedError(e, g.prio, i))
		}
	}
	return g.results, combined
}

// Each returns a channel yielding each child's index as it completes, in
// completion order (not submission order); it closes once every child has
// completed. This is the as-completed consumption path of spec.md §4.7's
// `.each()`.
func (g *Group[R]) Each() <-chan int {
	return g.events
}

// Result returns child i's result and error. It is safe to call once i
// has been observed on Each(), or any time after Join returns.
func (g *Group[R]) Result(i int) (R, error) {
	return g.results[i], g.errs[i]
}

// ResultEach is a convenience wrapper over Each that returns the result
// directly alongside its index, corresponding to `.result_each()`.
func (g *Group[R]) ResultEach(ctx context.Context, fn func(idx int, result R, err error)) error {
	for {
		select {
		case idx, ok := <-g.events:
			if !ok {
				return nil
			}
			r, err := g.Result(idx)
			fn(idx, r, err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
