// Package objectpool implements the fixed-capacity, bitmap-indexed object
// pool of spec.md §4.11, adapting the teacher's pool.Pool Get/Put interface
// onto a two-layer-bitmap acquisition strategy instead of its original
// channel-ring allocation.
//
// Two bitmaps track each slot: acquired (permanently set the first time a
// slot is constructed into; never cleared) and inUse (set while a slot is
// checked out, cleared by Release). Acquire wait-free-scans inUse for a
// clear bit, claims it with bitmap.TestAndSet, and constructs the slot's
// value only if its acquired bit is still clear — so a reused slot returns
// with whatever state the previous borrower left in it, per spec.md's
// "subsequent acquisitions return the already-constructed object with
// state preserved."
package objectpool

import (
	"errors"

	"github.com/ygrebnov/taskrt/internal/bitmap"
)

// ErrPoolFull is returned by Acquire when every slot is currently checked
// out. Callers typically fall back to a heap allocation.
var ErrPoolFull = errors.New("objectpool: pool full")

// Pool is a fixed-capacity pool of *T, constructed on first use per slot
// via newFn.
type Pool[T any] struct {
	acquired *bitmap.Bitmap
	inUse    *bitmap.Bitmap
	slots    []T
	newFn    func() T
	capacity int
}

// New returns a Pool with the given fixed capacity. newFn constructs a
// fresh T the first time a given slot is used.
func New[T any](capacity int, newFn func() T) *Pool[T] {
	return &Pool[T]{
		acquired: bitmap.New(capacity),
		inUse:    bitmap.New(capacity),
		slots:    make([]T, capacity),
		newFn:    newFn,
		capacity: capacity,
	}
}

// Acquire claims a free slot, returning its index and a pointer to its
// value, or ErrPoolFull if every slot is checked out.
func (p *Pool[T]) Acquire() (int, *T, error) {
	for i := 0; i < p.capacity; i++ {
		if p.inUse.Test(i) {
			continue
		}
		if p.inUse.TestAndSet(i) {
			// lost the race to another acquirer; keep scanning.
			continue
		}
		if !p.acquired.Test(i) {
			p.slots[i] = p.newFn()
			p.acquired.Set(i)
		}
		return i, &p.slots[i], nil
	}
	return -1, nil, ErrPoolFull
}

// Release returns slot i to the pool. The constructed value at i is left
// in place for the next Acquire of that slot to reuse.
func (p *Pool[T]) Release(i int) {
	p.inUse.Clear(i)
}

// Capacity returns the pool's fixed slot count.
func (p *Pool[T]) Capacity() int { return p.capacity }

// Len reports how many slots are currently checked out.
func (p *Pool[T]) Len() int {
	n := 0
	p.inUse.Iterate(func(int) bool { n++; return true })
	return n
}

// NewDynamic is an unbounded, non-PoolFull-signalling sibling wrapping
// sync.Pool, adapted from the teacher's pool.NewDynamic for callers that
// do not need a hard capacity.
func NewDynamic[T any](newFn func() T) *DynamicPool[T] {
	return &DynamicPool[T]{newFn: newFn}
}
