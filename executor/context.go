package executor

import "context"

// ctxKey is the private key type for the ambient scheduling identity carried
// on a task's context.Context. A task body calls composition APIs (Join,
// resumption primitives, channel operations) without passing its executor
// and priority around explicitly; instead those APIs recover "where and at
// what priority am I currently running" from ctx, the same way the original
// tracked it on the coroutine's promise (spec.md §3's continuation_executor
// / prio fields). This is the idiomatic-Go substitute for a promise object:
// see SPEC_FULL.md §0.
type ctxKey struct{}

type identity struct {
	ex   *Executor
	w    *worker
	prio int
}

// WithCurrent returns a context carrying the given executor/priority as the
// ambient scheduling identity. Executors call this once per dispatched work
// item; application code does not normally need it directly.
func WithCurrent(ctx context.Context, ex *Executor, w *worker, prio int) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity{ex: ex, w: w, prio: prio})
}

func currentIdentity(ctx context.Context) (identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(identity)
	return id, ok
}

// Current reports the executor and priority a task is currently running
// under, if ctx was produced by (or derived from) a context this package
// handed to a task body.
func Current(ctx context.Context) (ex *Executor, prio int, ok bool) {
	id, ok := currentIdentity(ctx)
	if !ok {
		return nil, 0, false
	}
	return id.ex, id.prio, true
}

// SameAs reports whether ctx's ambient executor and priority match ex/prio
// exactly — the condition spec.md §3/§4.10 calls "symmetric transfer":
// resumption may skip re-submission and continue in place.
func SameAs(ctx context.Context, ex *Executor, prio int) bool {
	id, ok := currentIdentity(ctx)
	return ok && id.ex == ex && id.prio == prio
}
