package resumption

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Semaphore is the counting semaphore of spec.md §4.10, backed directly by
// golang.org/x/sync/semaphore.Weighted: its Acquire/TryAcquire/Release
// contract already matches the suspend/release pair the original
// describes. The one divergence is resumption policy — x/sync/semaphore
// wakes blocked Acquire calls through its own internal queue rather than
// through waiter.Record, so acquire never symmetric-transfers into a
// releaser's goroutine; see DESIGN.md.
type Semaphore struct {
	w *semaphore.Weighted
}

// NewSemaphore returns a Semaphore with the given initial count.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{w: semaphore.NewWeighted(n)}
}

// Acquire blocks until n units are available or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context, n int64) error {
	return s.w.Acquire(ctx, n)
}

// TryAcquire acquires n units without blocking, reporting success.
func (s *Semaphore) TryAcquire(n int64) bool {
	return s.w.TryAcquire(n)
}

// Release returns n units to the semaphore, waking blocked acquirers as
// capacity allows.
func (s *Semaphore) Release(n int64) {
	s.w.Release(n)
}

// AcquireScope acquires n units and returns a release func for the scope's
// exit, standing in for the original's RAII acquire_scope().
func (s *Semaphore) AcquireScope(ctx context.Context, n int64) (func(), error) {
	if err := s.Acquire(ctx, n); err != nil {
		return nil, err
	}
	return func() { s.Release(n) }, nil
}
