package taskrt

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// OpenGroup is the long-lived, incrementally-built variant of spawn_many
// from spec.md §4.7 ("spawn_group"/"fork_group"): children may be added
// one at a time, rather than all at once up front.
type OpenGroup[R any] struct {
	ex   Submitter
	prio int

	mu       sync.Mutex
	wg       sync.WaitGroup
	results  []R
	errs     []error
}

// NewOpenGroup returns an empty OpenGroup submitting children to ex at
// priority prio.
func NewOpenGroup[R any](ex Submitter, prio int) *OpenGroup[R] {
	return &OpenGroup[R]{ex: ex, prio: prio}
}

// Add submits one more child, returning its index for later correlation
// via Result.
func (g *OpenGroup[R]) Add(ctx context.Context, fn func(context.Context) (R, error)) int {
	g.mu.Lock()
	idx := len(g.results)
	g.results = append(g.results, *new(R))
	g.errs = append(g.errs, nil)
	g.mu.Unlock()

	g.wg.Add(1)
	g.ex.Submit(ctx, func(taskCtx context.Context) {
		defer g.wg.Done()
		r, err := runCaptured(taskCtx, fn)
		g.mu.Lock()
		g.results[idx] = r
		g.errs[idx] = err
		g.mu.Unlock()
	}, g.prio)
	return idx
}

// Join blocks (spawn_group's synchronous join) until every child added so
// far has completed, then returns all results and a combined, per-index
// tagged error.
func (g *OpenGroup[R]) Join() ([]R, error) {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	var combined error
	for i, e := range g.errs {
		if e != nil {
			combined = multierr.Append(combined, newTaskTaggedError(e, g.prio, i))
		}
	}
	out := make([]R, len(g.results))
	copy(out, g.results)
	return out, combined
}

// ForkGroupHandle is fork_group's non-blocking join handle: callers decide
// when (and whether) to wait.
type ForkGroupHandle[R any] struct {
	group *OpenGroup[R]
}

// Fork returns a handle that can be Joined later, without blocking now.
func (g *OpenGroup[R]) Fork() *ForkGroupHandle[R] {
	return &ForkGroupHandle[R]{group: g}
}

// Join blocks until every child added to the underlying group (as of the
// time this is called, plus any added concurrently) has completed.
func (h *ForkGroupHandle[R]) Join() ([]R, error) {
	return h.group.Join()
}
