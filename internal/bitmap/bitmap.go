// Package bitmap implements a fixed-width, lock-free bit array used to track
// worker readiness and pool slot occupancy.
//
// All operations are word-level CAS loops over go.uber.org/atomic words, per
// spec.md §5: "All bitmap operations are sequentially consistent to simplify
// reasoning about the idle/wake protocol."
package bitmap

import "go.uber.org/atomic"

const wordBits = 64

// Bitmap is a fixed-size array of bits, safe for concurrent use.
type Bitmap struct {
	words []atomic.Uint64
	n     int
}

// New returns a Bitmap with room for at least n bits.
func New(n int) *Bitmap {
	words := (n + wordBits - 1) / wordBits
	if words == 0 {
		words = 1
	}
	return &Bitmap{words: make([]atomic.Uint64, words), n: n}
}

// Len returns the number of addressable bits.
func (b *Bitmap) Len() int { return b.n }

// Set atomically sets bit i and returns the previous value.
func (b *Bitmap) Set(i int) (previous bool) {
	w, mask := i/wordBits, uint64(1)<<uint(i%wordBits)
	for {
		old := b.words[w].Load()
		if old&mask != 0 {
			return true
		}
		if b.words[w].CAS(old, old|mask) {
			return false
		}
	}
}

// Clear atomically clears bit i and returns the previous value.
func (b *Bitmap) Clear(i int) (previous bool) {
	w, mask := i/wordBits, uint64(1)<<uint(i%wordBits)
	for {
		old := b.words[w].Load()
		if old&mask == 0 {
			return false
		}
		if b.words[w].CAS(old, old&^mask) {
			return true
		}
	}
}

// TestAndSet sets bit i and reports whether it was already set, atomically.
func (b *Bitmap) TestAndSet(i int) bool { return b.Set(i) }

// Test reports whether bit i is currently set.
func (b *Bitmap) Test(i int) bool {
	w, mask := i/wordBits, uint64(1)<<uint(i%wordBits)
	return b.words[w].Load()&mask != 0
}

// FirstSet returns the index of the lowest set bit at or after from, or -1
// if none is set. It is a snapshot scan; bits may change concurrently.
func (b *Bitmap) FirstSet(from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < b.n; i++ {
		if b.Test(i) {
			return i
		}
	}
	return -1
}

// Iterate calls fn for every set bit, in ascending order, at the time of the
// call. fn may return false to stop iteration early.
func (b *Bitmap) Iterate(fn func(i int) bool) {
	for i := 0; i < b.n; i++ {
		if b.Test(i) {
			if !fn(i) {
				return
			}
		}
	}
}

// Empty reports whether no bits are currently set. It is a snapshot.
func (b *Bitmap) Empty() bool {
	for i := range b.words {
		if b.words[i].Load() != 0 {
			return false
		}
	}
	return true
}
