package resumption

import (
	"context"
	"sync"

	"github.com/ygrebnov/taskrt/internal/waiter"
)

// CondVar is the value-parameterized condition variable of spec.md §4.10.
// Await suspends until a notifying call has moved the stored value away
// from the caller's expected value; a waiter that wakes and finds the
// value unchanged (a stale or coalesced notification) re-enqueues itself.
type CondVar[T comparable] struct {
	mu      sync.Mutex
	val     T
	waiters waiter.List
}

// NewCondVar returns a CondVar holding the given initial value.
func NewCondVar[T comparable](initial T) *CondVar[T] {
	return &CondVar[T]{val: initial}
}

// Load returns the current stored value.
func (c *CondVar[T]) Load() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

// Set stores v without waking anyone; callers typically follow it with a
// Notify* call.
func (c *CondVar[T]) Set(v T) {
	c.mu.Lock()
	c.val = v
	c.mu.Unlock()
}

// Await blocks until the stored value differs from expected.
func (c *CondVar[T]) Await(ctx context.Context, expected T) error {
	for {
		c.mu.Lock()
		if c.val != expected {
			c.mu.Unlock()
			return nil
		}
		rec := waiter.New(ctx)
		c.waiters.Push(rec)
		c.mu.Unlock()

		if err := rec.Wait(ctx); err != nil {
			return err
		}
		// Woken: loop back and recheck, since the value may have moved
		// back to expected (or another waiter beat us to the change) by
		// the time we resume.
	}
}

// NotifyOne wakes a single waiter, if any.
func (c *CondVar[T]) NotifyOne(ctx context.Context) {
	if rec := c.waiters.Pop(); rec != nil {
		rec.Wake(ctx)
	}
}

// NotifyAll wakes every waiter.
func (c *CondVar[T]) NotifyAll(ctx context.Context) {
	for _, rec := range c.waiters.PopAll() {
		rec.Wake(ctx)
	}
}

// NotifyN wakes up to n waiters.
func (c *CondVar[T]) NotifyN(ctx context.Context, n int) {
	for _, rec := range c.waiters.PopN(n) {
		rec.Wake(ctx)
	}
}

// Close resumes every currently queued waiter, standing in for the
// original's destructor-releases-all-waiters safety guarantee.
func (c *CondVar[T]) Close(ctx context.Context) {
	c.NotifyAll(ctx)
}
