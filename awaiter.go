package taskrt

import "context"

// Awaitable is anything a caller can suspend on and get back a value of
// type T plus an error, once it completes. *Task[T] satisfies
// Awaitable[T] and *Group[T] satisfies Awaitable[[]T] — Go's goroutine-based model collapses the original's
// native-task/wrapper distinction (spec.md §4.1) into "both expose a Join
// method with the same shape": a native task writes result_slot directly,
// a wrapper composite (a Group) aggregates several native tasks behind
// its own done-counter, but neither needs a separate suspension path once
// Join exists.
type Awaitable[T any] interface {
	Join(ctx context.Context) (T, error)
}

var (
	_ Awaitable[any]   = (*Task[any])(nil)
	_ Awaitable[[]any] = (*Group[any])(nil)
)

// Await suspends the calling goroutine on a, returning its result once
// ready. It exists so generic code can hold an Awaitable[T] without
// caring whether it is a *Task[T] or another wrapper composite that
// implements Join — the native-task and wrapper cases of spec.md §4.1.
func Await[T any](ctx context.Context, a Awaitable[T]) (T, error) {
	return a.Join(ctx)
}

// AwaitFunc runs fn as a trampoline task on ex at priority prio and
// blocks until it completes. It is the unknown-awaitable case of spec.md
// §4.1: fn is an arbitrary blocking computation with no Join method of
// its own, so it is wrapped in a task that preserves the caller's
// resuming executor and priority instead of running on a foreign thread.
func AwaitFunc[T any](ctx context.Context, ex Submitter, prio int, fn func(context.Context) (T, error)) (T, error) {
	return Spawn(ctx, ex, prio, fn).Join(ctx)
}
