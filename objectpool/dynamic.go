package objectpool

import "sync"

// DynamicPool is a generic wrapper around sync.Pool, adapted from the
// teacher's pool/dynamic.go. Unlike Pool it never signals "full" — it
// simply grows — and carries no constructed-state guarantee across a
// Put/Get pair beyond whatever sync.Pool itself preserves.
type DynamicPool[T any] struct {
	newFn func() T
	pool  sync.Pool
	once  sync.Once
}

func (p *DynamicPool[T]) init() {
	p.once.Do(func() {
		p.pool.New = func() interface{} { return p.newFn() }
	})
}

// Get returns a pooled T, constructing one via newFn if none is available.
func (p *DynamicPool[T]) Get() T {
	p.init()
	return p.pool.Get().(T)
}

// Put returns v to the pool.
func (p *DynamicPool[T]) Put(v T) {
	p.init()
	p.pool.Put(v)
}
