package resumption

import (
	"context"
	"sync"

	"github.com/ygrebnov/taskrt/internal/waiter"
)

// Mutex is the resumption mutex of spec.md §4.10. Only one waiter is ever
// resumed by Unlock; ownership transfers directly to it without the lock
// ever observably going free.
type Mutex struct {
	mu      sync.Mutex
	locked  bool
	waiters waiter.List
}

// NewMutex returns an unlocked Mutex.
func NewMutex() *Mutex { return &Mutex{} }

// TryLock acquires the mutex without blocking, reporting success.
func (m *Mutex) TryLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return false
	}
	m.locked = true
	return true
}

// Lock acquires the mutex, suspending the caller if it is already held.
// Suspension parks the calling goroutine on ctx's ambient executor and
// priority; ownership is handed to it directly by a later Unlock.
func (m *Mutex) Lock(ctx context.Context) error {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		return nil
	}
	rec := waiter.New(ctx)
	m.waiters.Push(rec)
	m.mu.Unlock()
	return rec.Wait(ctx)
}

// Unlock releases the mutex. If a waiter is queued, ownership transfers to
// it directly (the lock never observably becomes free); otherwise the
// mutex becomes available for the next TryLock/Lock.
func (m *Mutex) Unlock(ctx context.Context) {
	m.mu.Lock()
	rec := m.waiters.Pop()
	if rec == nil {
		m.locked = false
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	rec.Wake(ctx)
}
