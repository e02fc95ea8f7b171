// Package inbox implements the per-worker targeted-post inbox of spec.md
// §4.3: a bounded ring used for post(item, prio, thread_hint) calls that
// name a specific destination worker. Unlike the work-stealing queue
// (internal/queue), the inbox is never stolen from — only its owning
// worker ever consumes it — so a plain FIFO ring is sufficient and
// github.com/eapache/queue, which only supports push-back/pop-front/peek
// access, is a direct fit.
package inbox

import (
	"sync"

	equeue "github.com/eapache/queue"
)

// Item is a type-erased work item, mirroring internal/queue.Item.
type Item = interface{}

// Inbox is a bounded, owner-consumed FIFO ring.
type Inbox struct {
	mu       sync.Mutex
	q        *equeue.Queue
	capacity int
}

// New returns an Inbox bounded at capacity items.
func New(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = 1
	}
	return &Inbox{q: equeue.New(), capacity: capacity}
}

// TryPush attempts to enqueue it. It reports false if the inbox is full, in
// which case the caller (per spec.md §4.3) falls back to the owning
// worker's main queue.
func (b *Inbox) TryPush(it Item) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.q.Length() >= b.capacity {
		return false
	}
	b.q.Add(it)
	return true
}

// Pop removes and returns the oldest item. ok is false if the inbox is
// empty.
func (b *Inbox) Pop() (it Item, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.q.Length() == 0 {
		return nil, false
	}
	it = b.q.Peek()
	b.q.Remove()
	return it, true
}

// Len reports the current occupancy. It is a snapshot only.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.q.Length()
}

// Empty reports whether the inbox was empty at the time of the call.
func (b *Inbox) Empty() bool { return b.Len() == 0 }
