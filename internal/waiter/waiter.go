// Package waiter implements the intrusive waiter-list model shared by every
// resumption primitive in spec.md §3/§4.10: "a lock-free intrusive list of
// waiter records, each containing: coroutine handle, recorded priority,
// executor pointer, optional status word."
//
// In this Go re-architecture the "coroutine handle" is a channel the
// blocked goroutine receives on (Wait); "resuming" a Record re-submits a
// closure to its recorded executor at its recorded priority (Wake),
// matching §3's "Resumption re-submits the handle to its recorded executor
// at its recorded priority (not the releaser's), unless the releaser opts
// into symmetric transfer (same executor, same priority, same thread)."
package waiter

import (
	"context"
	"sync/atomic"

	uatomic "go.uber.org/atomic"

	"github.com/ygrebnov/taskrt/executor"
)

// Record is one waiter: a suspended caller awaiting release from a
// resumption primitive.
type Record struct {
	ex    *executor.Executor
	prio  int
	ready chan struct{}
	fired uatomic.Bool
}

// New captures the ambient scheduling identity from ctx (see
// executor.Current) and returns a fresh, unfired Record.
func New(ctx context.Context) *Record {
	ex, prio, _ := executor.Current(ctx)
	return &Record{ex: ex, prio: prio, ready: make(chan struct{})}
}

// Wait blocks until the Record is woken or ctx is done.
func (r *Record) Wait(ctx context.Context) error {
	select {
	case <-r.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done reports whether the Record has already been woken, without
// blocking.
func (r *Record) Done() bool {
	select {
	case <-r.ready:
		return true
	default:
		return false
	}
}

// Wake resumes the waiter exactly once; subsequent calls are no-ops. If
// releaserCtx shows the releaser is already running on the waiter's
// recorded executor at its recorded priority, it wakes in place
// (symmetric transfer, per spec.md §4.10); otherwise it re-submits the
// wakeup to the waiter's recorded executor/priority, or — for a waiter
// with no ambient executor at all (e.g. blocked from ordinary application
// code, not from inside a task) — simply closes its channel directly.
func (r *Record) Wake(releaserCtx context.Context) {
	if !r.fired.CAS(false, true) {
		return
	}
	if r.ex == nil {
		close(r.ready)
		return
	}
	if executor.SameAs(releaserCtx, r.ex, r.prio) {
		close(r.ready)
		return
	}
	r.ex.Submit(releaserCtx, func(context.Context) { close(r.ready) }, r.prio)
}

type node struct {
	rec  *Record
	next atomic.Pointer[node]
}

// List is a lock-free intrusive stack of waiters, built with a CAS-linked
// head pointer per spec.md §3.
type List struct {
	head atomic.Pointer[node]
}

// Push adds r to the list.
func (l *List) Push(r *Record) {
	n := &node{rec: r}
	for {
		old := l.head.Load()
		n.next.Store(old)
		if l.head.CompareAndSwap(old, n) {
			return
		}
	}
}

// Pop removes and returns the most recently pushed waiter, or nil if the
// list is empty.
func (l *List) Pop() *Record {
	for {
		old := l.head.Load()
		if old == nil {
			return nil
		}
		next := old.next.Load()
		if l.head.CompareAndSwap(old, next) {
			return old.rec
		}
	}
}

// PopAll atomically detaches and returns every waiter currently in the
// list, in push order oldest-first (i.e. FIFO, reversing the underlying
// LIFO link order).
func (l *List) PopAll() []*Record {
	head := l.head.Swap(nil)
	var lifo []*Record
	for n := head; n != nil; n = n.next.Load() {
		lifo = append(lifo, n.rec)
	}
	out := make([]*Record, len(lifo))
	for i, r := range lifo {
		out[len(lifo)-1-i] = r
	}
	return out
}

// PopN detaches and returns up to n waiters, oldest-first, re-pushing any
// remainder.
func (l *List) PopN(n int) []*Record {
	all := l.PopAll()
	if n >= len(all) {
		return all
	}
	out := all[:n]
	rest := all[n:]
	for i := len(rest) - 1; i >= 0; i-- {
		l.Push(rest[i])
	}
	return out
}

// Empty reports whether the list currently has no waiters.
func (l *List) Empty() bool { return l.head.Load() == nil }
