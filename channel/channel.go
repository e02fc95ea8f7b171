// Package channel implements the application-visible MPMC channel of
// spec.md §4.9, built on the mpsc block queue for storage and the waiter
// package for suspension.
package channel

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/ygrebnov/taskrt/internal/waiter"
	"github.com/ygrebnov/taskrt/mpsc"
)

// PullStatus is the tri-state result of TryPull.
type PullStatus int

const (
	// PullOK reports a value was returned.
	PullOK PullStatus = iota
	// PullEmpty reports the channel had nothing ready.
	PullEmpty
	// PullClosed reports the channel is closed and drained.
	PullClosed
)

// Channel is a multi-producer, multi-consumer unbounded channel of values
// of type T.
//
// The original gives each consumer a lock-free bitmap slot so many
// consumers can pull concurrently without contending. Here, concurrent
// consumers instead serialize through pullMu around the single-consumer
// mpsc core — a short critical section, not a blocking wait, so it does
// not violate spec.md §5's "no blocking locks during task execution"
// policy any more than the original's own pool/topology exception does.
// See DESIGN.md.
type Channel[T any] struct {
	cfg Config
	q   *mpsc.Queue[T]

	closed  atomic.Bool
	pending atomic.Int64

	pullMu sync.Mutex
	regMu  sync.Mutex

	pullers      waiter.List
	spaceWaiters waiter.List
	drainWaiters waiter.List
}

// New constructs a Channel with the given options applied over
// DefaultConfig.
func New[T any](opts ...Option) *Channel[T] {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Channel[T]{cfg: cfg, q: mpsc.New[T](cfg.BlockSize)}
}

// Post enqueues v without blocking, ignoring HeavyLoadThreshold. Per
// spec.md §7, posting after Close is a no-op — v is silently destroyed
// rather than queued or returned as an error.
func (c *Channel[T]) Post(ctx context.Context, v T) {
	if c.closed.Load() {
		return
	}
	c.q.Post(v)
	c.pending.Add(1)
	c.wakeOnePuller(ctx)
}

// PostBulk enqueues every element of vs without blocking. A zero-length
// vs is a no-op, per spec.md §4.9. Like Post, PostBulk after Close is a
// no-op — every element of vs is silently destroyed.
func (c *Channel[T]) PostBulk(ctx context.Context, vs []T) {
	if len(vs) == 0 || c.closed.Load() {
		return
	}
	c.q.PostBulk(vs)
	c.pending.Add(int64(len(vs)))

	c.regMu.Lock()
	woken := c.pullers.PopN(len(vs))
	c.regMu.Unlock()
	for _, rec := range woken {
		rec.Wake(ctx)
	}
}

// Push enqueues v, suspending the caller first if HeavyLoadThreshold is
// set and currently exceeded. Per spec.md §7, pushing after Close fails
// outright rather than silently dropping v like Post does: it reports
// false so a producer notices the channel is gone instead of believing
// its value was queued.
func (c *Channel[T]) Push(ctx context.Context, v T) (bool, error) {
	if c.closed.Load() {
		return false, nil
	}
	if c.cfg.HeavyLoadThreshold > 0 {
		for c.pending.Load() >= int64(c.cfg.HeavyLoadThreshold) {
			if c.closed.Load() {
				return false, nil
			}
			rec := waiter.New(ctx)
			c.spaceWaiters.Push(rec)
			if c.pending.Load() < int64(c.cfg.HeavyLoadThreshold) && !c.closed.Load() {
				continue
			}
			if err := rec.Wait(ctx); err != nil {
				return false, err
			}
			if c.closed.Load() {
				return false, nil
			}
		}
	}
	c.Post(ctx, v)
	return true, nil
}

// Pull blocks until a value is available or the channel is closed and
// drained, in which case it returns ok=false.
func (c *Channel[T]) Pull(ctx context.Context) (v T, ok bool, err error) {
	for {
		c.regMu.Lock()
		c.pullMu.Lock()
		got, found := c.q.TryPull()
		c.pullMu.Unlock()
		if found {
			c.regMu.Unlock()
			c.afterConsume(ctx)
			return got, true, nil
		}
		if c.closed.Load() {
			c.regMu.Unlock()
			var zero T
			return zero, false, nil
		}
		rec := waiter.New(ctx)
		c.pullers.Push(rec)
		c.regMu.Unlock()

		if werr := rec.Wait(ctx); werr != nil {
			var zero T
			return zero, false, werr
		}
	}
}

// PullZC behaves like Pull but returns a pointer to the value, standing in
// for the original's reference-binding zero-copy pull; Go's value
// semantics and GC make a literal zero-copy binding unsafe to expose, so
// this simply boxes the pulled value.
func (c *Channel[T]) PullZC(ctx context.Context) (*T, error) {
	v, ok, err := c.Pull(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// TryPull is the non-suspending, tri-state pull of spec.md §4.9.
func (c *Channel[T]) TryPull() (T, PullStatus) {
	c.pullMu.Lock()
	v, ok := c.q.TryPull()
	c.pullMu.Unlock()
	if ok {
		c.afterConsume(context.Background())
		return v, PullOK
	}
	var zero T
	if c.closed.Load() {
		return zero, PullClosed
	}
	return zero, PullEmpty
}

// Close marks the channel so no further Pull blocks indefinitely once it
// drains; pending pulls still see previously-posted values first. Any
// Push parked on backpressure is released too, per spec.md §7 — it wakes
// into a closed channel and returns ok=false rather than hanging forever
// waiting for room that will never open up again.
func (c *Channel[T]) Close() {
	c.closed.Store(true)
	ctx := context.Background()

	c.regMu.Lock()
	woken := c.pullers.PopAll()
	c.regMu.Unlock()
	for _, rec := range woken {
		rec.Wake(ctx)
	}
	for _, rec := range c.spaceWaiters.PopAll() {
		rec.Wake(ctx)
	}
	c.maybeSignalDrain(ctx)
}

// Drain blocks until the channel is closed and empty. It plays the role of
// both the original's drain() (coroutine-suspending) and drain_sync()
// (thread-blocking): Go has no stackless/thread-blocking distinction, so a
// single blocking call serves both.
func (c *Channel[T]) Drain(ctx context.Context) error {
	for {
		if c.closed.Load() && c.pending.Load() == 0 {
			return nil
		}
		rec := waiter.New(ctx)
		c.drainWaiters.Push(rec)
		if c.closed.Load() && c.pending.Load() == 0 {
			continue
		}
		if err := rec.Wait(ctx); err != nil {
			return err
		}
	}
}

func (c *Channel[T]) wakeOnePuller(ctx context.Context) {
	c.regMu.Lock()
	rec := c.pullers.Pop()
	c.regMu.Unlock()
	if rec != nil {
		rec.Wake(ctx)
	}
}

func (c *Channel[T]) afterConsume(ctx context.Context) {
	n := c.pending.Add(-1)
	if c.cfg.HeavyLoadThreshold > 0 && n < int64(c.cfg.HeavyLoadThreshold) {
		if rec := c.spaceWaiters.Pop(); rec != nil {
			rec.Wake(ctx)
		}
	}
	if n == 0 && c.closed.Load() {
		c.maybeSignalDrain(ctx)
	}
}

func (c *Channel[T]) maybeSignalDrain(ctx context.Context) {
	if !c.closed.Load() || c.pending.Load() != 0 {
		return
	}
	for _, rec := range c.drainWaiters.PopAll() {
		rec.Wake(ctx)
	}
}
