// Package braid implements the serializing sub-scheduler of spec.md §4.6:
// submissions to a Braid execute strictly one at a time, but each may run
// on whichever parent-executor worker happens to be free — semantics
// equivalent to a mutex around a task queue, but without ever blocking a
// worker thread.
package braid

import (
	"context"

	"go.uber.org/atomic"

	"github.com/ygrebnov/taskrt/mpsc"
)

// Submitter is anything that accepts prioritized work, satisfied by both
// *executor.Executor and *executor.Manual.
type Submitter interface {
	Submit(ctx context.Context, fn func(context.Context), prio int)
}

// Braid serializes work submitted to it onto a parent Submitter. At most
// one submission runs at any moment, across all parent-executor workers.
type Braid struct {
	parent Submitter
	prio   int

	q       *mpsc.Queue[func(context.Context)]
	running atomic.Bool
}

// New returns a Braid that drains onto parent at priority prio.
func New(parent Submitter, prio int) *Braid {
	return &Braid{parent: parent, prio: prio, q: mpsc.New[func(context.Context)](0)}
}

// Run enqueues fn for serialized execution. If no drainer is currently
// active, Run submits one to the parent executor; otherwise the active
// drainer will reach fn in submission order.
func (b *Braid) Run(ctx context.Context, fn func(context.Context)) {
	b.q.Post(fn)
	if b.running.CompareAndSwap(false, true) {
		b.parent.Submit(ctx, b.drain, b.prio)
	}
}

// Submit implements Submitter, so a Braid can itself stand in as a parent
// for another Braid or for spawn builders; prio is accepted for interface
// compatibility but ignored — a braid has a single FIFO lane, not
// priority bands.
func (b *Braid) Submit(ctx context.Context, fn func(context.Context), _ int) {
	b.Run(ctx, fn)
}

// drain runs queued work one item at a time until the queue is empty,
// clearing the running flag before its final check so a concurrent Run
// can never observe "running" with nothing left to drain it.
func (b *Braid) drain(ctx context.Context) {
	for {
		fn, ok := b.q.TryPull()
		if ok {
			fn(ctx)
			continue
		}
		b.running.Store(false)
		if b.q.Len() == 0 {
			return
		}
		// A Run landed between our TryPull miss and clearing running;
		// reclaim it and keep draining ourselves rather than leaving it
		// to a second drainer submission.
		if !b.running.CompareAndSwap(false, true) {
			return
		}
	}
}
