package executor

import (
	"context"

	"github.com/ygrebnov/taskrt/internal/inbox"
	"github.com/ygrebnov/taskrt/internal/queue"
)

// Manual is the manual-pump executor of spec.md §4.5 ("ex_manual_st"): it
// has no internal thread. The host drives it with RunOne/RunN/RunAll,
// typically from inside another event loop. Submission has the identical
// API shape as the CPU executor; parking is simply "return from Run*".
type Manual struct {
	priorityCount int
	queues        []*queue.Queue
	inboxes       []*inbox.Inbox
}

// NewManual constructs a Manual executor with the given number of priority
// bands (default 1 if p <= 0).
func NewManual(priorityCount int) *Manual {
	if priorityCount <= 0 {
		priorityCount = 1
	}
	m := &Manual{
		priorityCount: priorityCount,
		queues:        make([]*queue.Queue, priorityCount),
		inboxes:       make([]*inbox.Inbox, priorityCount),
	}
	for p := 0; p < priorityCount; p++ {
		m.queues[p] = queue.New()
		m.inboxes[p] = inbox.New(256)
	}
	return m
}

// Submit enqueues fn at priority prio. Manual has no ambient scheduling
// identity of its own (Current never reports a Manual executor); callers
// that need symmetric-transfer-style behavior should simply call fn
// directly rather than through Submit.
func (m *Manual) Submit(ctx context.Context, fn func(context.Context), prio int) {
	prio = m.clamp(prio)
	if !m.inboxes[prio].TryPush(workItem{ctx: ctx, fn: fn}) {
		m.queues[prio].Push(workItem{ctx: ctx, fn: fn})
	}
}

func (m *Manual) clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p >= m.priorityCount {
		return m.priorityCount - 1
	}
	return p
}

func (m *Manual) pop() (workItem, bool) {
	for p := 0; p < m.priorityCount; p++ {
		if it, ok := m.inboxes[p].Pop(); ok {
			return it.(workItem), true
		}
		if it, ok := m.queues[p].Pop(); ok {
			return it.(workItem), true
		}
	}
	return workItem{}, false
}

// RunOne runs at most one pending item and reports whether it ran one.
func (m *Manual) RunOne() bool {
	item, ok := m.pop()
	if !ok {
		return false
	}
	item.fn(item.ctx)
	return true
}

// RunN runs up to k pending items and returns how many actually ran.
func (m *Manual) RunN(k int) int {
	ran := 0
	for ran < k && m.RunOne() {
		ran++
	}
	return ran
}

// RunAll runs items until Empty(); since items may themselves resubmit
// work, this can run indefinitely if the workload never quiesces — that is
// the caller's responsibility, matching ex_manual_st's contract.
func (m *Manual) RunAll() int {
	ran := 0
	for m.RunOne() {
		ran++
	}
	return ran
}

// Empty is a conservative "nothing pending" predicate. Per spec.md §4.5 it
// may transiently report false while work is logically in-flight between
// priority queues even if none would currently Pop.
func (m *Manual) Empty() bool {
	for p := 0; p < m.priorityCount; p++ {
		if !m.inboxes[p].Empty() || !m.queues[p].Empty() {
			return false
		}
	}
	return true
}
