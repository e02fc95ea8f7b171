package executor

import "context"

// YieldRequested reports whether ctx's worker has a pending higher-priority
// arrival, per spec.md §4.4's priority-yielding mechanism. It returns false
// for a ctx with no ambient worker identity (e.g. code not running inside
// an Executor-dispatched item).
func YieldRequested(ctx context.Context) bool {
	id, ok := currentIdentity(ctx)
	if !ok || id.w == nil {
		return false
	}
	return id.w.yieldRequestedBit()
}

// Yield suspends the calling task by reposting it on its current executor
// at its recorded priority, then returning control to the worker so other
// ready work can run first. Reposting (rather than an in-place loop) is
// what gives a parked higher-priority arrival a chance to run before this
// task continues, per spec.md §4.4/§4.10.
func Yield(ctx context.Context, resume func(context.Context)) {
	id, ok := currentIdentity(ctx)
	if !ok || id.ex == nil {
		resume(ctx)
		return
	}
	id.ex.Submit(ctx, resume, id.prio)
}

// YieldIfRequested calls Yield only if YieldRequested(ctx) is true;
// otherwise it calls resume in place immediately.
func YieldIfRequested(ctx context.Context, resume func(context.Context)) {
	if YieldRequested(ctx) {
		Yield(ctx, resume)
		return
	}
	resume(ctx)
}

// ChangePriority re-arms the calling task at priority p before resuming it
// on its current executor, per spec.md §4.4.
func ChangePriority(ctx context.Context, p int, resume func(context.Context)) {
	id, ok := currentIdentity(ctx)
	if !ok || id.ex == nil {
		resume(ctx)
		return
	}
	id.ex.Submit(ctx, resume, p)
}

// ResumeOn reposts resume onto ex at prio, regardless of the caller's
// current executor — the general cross-executor migration operator of
// spec.md §4.4/§4.10.
func ResumeOn(ctx context.Context, ex *Executor, prio int, resume func(context.Context)) {
	ex.Submit(ctx, resume, prio)
}
