package resumption

import (
	"context"
	"sync"

	"github.com/ygrebnov/taskrt/internal/waiter"
)

// AutoResetEvent is the boolean event of spec.md §4.10. Set wakes exactly
// one waiter and atomically clears; with no waiter present it stays
// signaled and the next Wait passes through immediately.
type AutoResetEvent struct {
	mu       sync.Mutex
	signaled bool
	waiters  waiter.List
}

// NewAutoResetEvent returns an event in the given initial state.
func NewAutoResetEvent(initiallySignaled bool) *AutoResetEvent {
	return &AutoResetEvent{signaled: initiallySignaled}
}

// Set signals the event. If a waiter is queued it is woken directly and
// the signaled flag stays clear; otherwise the event latches signaled
// until the next Wait consumes it.
func (e *AutoResetEvent) Set(ctx context.Context) {
	e.mu.Lock()
	rec := e.waiters.Pop()
	if rec == nil {
		e.signaled = true
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	rec.Wake(ctx)
}

// Wait blocks until the event is signaled, consuming the signal.
func (e *AutoResetEvent) Wait(ctx context.Context) error {
	e.mu.Lock()
	if e.signaled {
		e.signaled = false
		e.mu.Unlock()
		return nil
	}
	rec := waiter.New(ctx)
	e.waiters.Push(rec)
	e.mu.Unlock()
	return rec.Wait(ctx)
}

// Close resumes every currently queued waiter.
func (e *AutoResetEvent) Close(ctx context.Context) {
	e.mu.Lock()
	woken := e.waiters.PopAll()
	e.mu.Unlock()
	for _, rec := range woken {
		rec.Wake(ctx)
	}
}
