package resumption

import (
	"context"
	"sync"

	"github.com/ygrebnov/taskrt/internal/waiter"
)

// Latch is the single-use decrement-to-zero gate of spec.md §4.10.
// CountDown decrements the count; when it reaches zero every queued
// waiter is released and subsequent Wait calls pass through immediately.
type Latch struct {
	mu      sync.Mutex
	count   int64
	waiters waiter.List
}

// NewLatch returns a Latch requiring n count-downs to open.
func NewLatch(n int64) *Latch {
	return &Latch{count: n}
}

// CountDown decrements the latch by n, releasing all waiters if it
// reaches zero.
func (l *Latch) CountDown(ctx context.Context, n int64) {
	l.mu.Lock()
	l.count -= n
	var woken []*waiter.Record
	if l.count <= 0 {
		woken = l.waiters.PopAll()
	}
	l.mu.Unlock()
	for _, rec := range woken {
		rec.Wake(ctx)
	}
}

// Wait blocks until the latch reaches zero.
func (l *Latch) Wait(ctx context.Context) error {
	l.mu.Lock()
	if l.count <= 0 {
		l.mu.Unlock()
		return nil
	}
	rec := waiter.New(ctx)
	l.waiters.Push(rec)
	l.mu.Unlock()
	return rec.Wait(ctx)
}

// TryWait reports whether the latch has already reached zero, without
// blocking.
func (l *Latch) TryWait() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count <= 0
}

// Close resumes every currently queued waiter.
func (l *Latch) Close(ctx context.Context) {
	l.mu.Lock()
	woken := l.waiters.PopAll()
	l.mu.Unlock()
	for _, rec := range woken {
		rec.Wake(ctx)
	}
}
