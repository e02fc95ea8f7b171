package taskrt

import "context"

// SpawnBuilder configures and submits a single child task, mirroring the
// original's spawn(task) fluent builder (spec.md §4.7):
// .RunOn/.ResumeOn/.WithPriority/.Fork/.Detach.
type SpawnBuilder[R any] struct {
	ex       Submitter
	resumeOn Submitter
	prio     int
	fn       func(context.Context) (R, error)
}

// SpawnNew begins building a child task running fn. Call RunOn/WithPriority
// to configure it, then Await, Fork, or Detach to submit it.
func SpawnNew[R any](fn func(context.Context) (R, error)) *SpawnBuilder[R] {
	return &SpawnBuilder[R]{fn: fn}
}

// RunOn selects the executor the child runs on. If unset, Await/Fork/
// Detach use Default().
func (b *SpawnBuilder[R]) RunOn(ex Submitter) *SpawnBuilder[R] {
	b.ex = ex
	return b
}

// ResumeOn selects the executor the caller's continuation resumes on
// after Await's child completes — distinct from RunOn, which picks where
// the child itself executes.
func (b *SpawnBuilder[R]) ResumeOn(ex Submitter) *SpawnBuilder[R] {
	b.resumeOn = ex
	return b
}

// WithPriority sets the priority both the child and (if set) the resumed
// continuation are submitted at.
func (b *SpawnBuilder[R]) WithPriority(p int) *SpawnBuilder[R] {
	b.prio = p
	return b
}

// Fork submits the child immediately and returns a handle to Join later,
// without suspending the caller.
func (b *SpawnBuilder[R]) Fork(ctx context.Context) *Task[R] {
	return Spawn(ctx, b.executor(), b.prio, b.fn)
}

// Await submits the child and blocks until it completes, then — if
// ResumeOn was configured — hops the caller onto that executor before
// returning.
func (b *SpawnBuilder[R]) Await(ctx context.Context) (R, error) {
	t := b.Fork(ctx)
	result, err := t.Join(ctx)
	b.resumeIfConfigured(ctx)
	return result, err
}

// Detach submits the child with no continuation registered; it runs to
// completion and its result is discarded.
func (b *SpawnBuilder[R]) Detach(ctx context.Context) {
	b.Fork(ctx).Detach()
}

func (b *SpawnBuilder[R]) executor() Submitter {
	if b.ex != nil {
		return b.ex
	}
	return Default()
}

func (b *SpawnBuilder[R]) resumeIfConfigured(ctx context.Context) {
	if b.resumeOn == nil {
		return
	}
	done := make(chan struct{})
	b.resumeOn.Submit(ctx, func(context.Context) { close(done) }, b.prio)
	<-done
}
