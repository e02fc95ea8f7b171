package resumption

import (
	"context"
	"sync"

	"github.com/ygrebnov/taskrt/internal/waiter"
)

// Barrier is the cyclic barrier of spec.md §4.10. Each epoch needs n
// arrivals; the arrival that reaches zero releases every other waiter and
// resets the counter to n for the next epoch.
type Barrier struct {
	mu        sync.Mutex
	n         int64
	remaining int64
	waiters   waiter.List
}

// NewBarrier returns a Barrier requiring n arrivals per epoch.
func NewBarrier(n int64) *Barrier {
	return &Barrier{n: n, remaining: n}
}

// Arrive records one arrival without waiting for the rest of the epoch.
// If this arrival completes the epoch, every queued waiter is released
// and the counter resets.
func (b *Barrier) Arrive(ctx context.Context) {
	b.mu.Lock()
	b.remaining--
	var woken []*waiter.Record
	if b.remaining <= 0 {
		b.remaining = b.n
		woken = b.waiters.PopAll()
	}
	b.mu.Unlock()
	for _, rec := range woken {
		rec.Wake(ctx)
	}
}

// ArriveAndWait records one arrival and blocks until the rest of the
// epoch's participants have also arrived.
func (b *Barrier) ArriveAndWait(ctx context.Context) error {
	b.mu.Lock()
	b.remaining--
	if b.remaining > 0 {
		rec := waiter.New(ctx)
		b.waiters.Push(rec)
		b.mu.Unlock()
		return rec.Wait(ctx)
	}
	b.remaining = b.n
	woken := b.waiters.PopAll()
	b.mu.Unlock()
	for _, rec := range woken {
		rec.Wake(ctx)
	}
	return nil
}

// Close resumes every currently queued waiter.
func (b *Barrier) Close(ctx context.Context) {
	b.mu.Lock()
	woken := b.waiters.PopAll()
	b.mu.Unlock()
	for _, rec := range woken {
		rec.Wake(ctx)
	}
}
