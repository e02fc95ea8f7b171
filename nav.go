package taskrt

import (
	"context"

	"github.com/ygrebnov/taskrt/braid"
	"github.com/ygrebnov/taskrt/executor"
)

// YieldRequested reports whether the calling task's worker has a pending
// higher-priority arrival (spec.md §4.4).
func YieldRequested(ctx context.Context) bool { return executor.YieldRequested(ctx) }

// Yield suspends the calling task by reposting resume on its current
// executor at its recorded priority.
func Yield(ctx context.Context, resume func(context.Context)) { executor.Yield(ctx, resume) }

// YieldIfRequested calls Yield only when YieldRequested(ctx) is true.
func YieldIfRequested(ctx context.Context, resume func(context.Context)) {
	executor.YieldIfRequested(ctx, resume)
}

// ChangePriority re-arms the calling task at priority p before resuming it
// on its current executor.
func ChangePriority(ctx context.Context, p int, resume func(context.Context)) {
	executor.ChangePriority(ctx, p, resume)
}

// ResumeOn reposts resume onto ex at prio, the general cross-executor
// migration operator of spec.md §4.4/§4.10.
func ResumeOn(ctx context.Context, ex *executor.Executor, prio int, resume func(context.Context)) {
	executor.ResumeOn(ctx, ex, prio, resume)
}

// EnterBraid suspends the calling task by reposting resume through b,
// giving it the braid's serialization guarantee (spec.md §4.6's enter).
func EnterBraid(ctx context.Context, b *braid.Braid, resume func(context.Context)) {
	b.Run(ctx, resume)
}

// ExitBraid reposts resume back onto ex, the executor captured at the
// corresponding EnterBraid call (spec.md §4.6's exit(scope)).
func ExitBraid(ctx context.Context, ex *executor.Executor, prio int, resume func(context.Context)) {
	executor.ResumeOn(ctx, ex, prio, resume)
}
