package executor

import (
	"context"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ygrebnov/taskrt/internal/inbox"
	"github.com/ygrebnov/taskrt/internal/queue"
)

// workItem is the type-erased work-item unit of spec.md §3: a callable
// (task-body closure or bare function) plus the context it was submitted
// under. Go closures already provide the "function pointer + captured
// context" shape spec.md §9 asks for in place of a manual tagged union.
//
// ctx is the caller's own context (carrying cancellation/deadline and any
// application values); the worker that eventually runs fn augments it with
// the ambient scheduling identity (executor/priority) immediately before
// the call, since that identity — unlike ctx — is only known once the item
// has actually been placed on a worker (it may have been stolen).
type workItem struct {
	ctx context.Context
	fn  func(context.Context)
}

// worker is one scheduler thread of a CPU executor: a run loop plus a
// per-priority queue and inbox, per spec.md §3 ("Worker state").
type worker struct {
	idx  int
	ex   *Executor
	info ThreadInfo

	queues  []*queue.Queue // index: priority
	inboxes []*inbox.Inbox // index: priority

	curPrio        int32  // atomic: priority of the item currently executing, -1 if idle
	yieldRequested uint32 // atomic bool

	wake chan struct{} // buffered(1): park/wake signal
	done chan struct{} // closed by teardown to unstick a parked worker
}

func newWorker(idx int, ex *Executor, info ThreadInfo) *worker {
	w := &worker{
		idx:     idx,
		ex:      ex,
		info:    info,
		queues:  make([]*queue.Queue, ex.cfg.priorityCount),
		inboxes: make([]*inbox.Inbox, ex.cfg.priorityCount),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		curPrio: -1,
	}
	for p := range w.queues {
		w.queues[p] = queue.New()
		w.inboxes[p] = inbox.New(256)
	}
	return w
}

// submitLocal enqueues item on this worker's own queue at prio.
func (w *worker) submitLocal(item workItem, prio int) { w.queues[prio].Push(item) }

func (w *worker) submitLocalBulk(items []workItem, prio int) {
	boxed := make([]interface{}, len(items))
	for i, it := range items {
		boxed[i] = it
	}
	w.queues[prio].PushBulk(boxed)
}

// submitInbox tries the targeted inbox first, falling back to the main
// queue on overflow, per spec.md §4.3.
func (w *worker) submitInbox(item workItem, prio int) {
	if !w.inboxes[prio].TryPush(item) {
		w.queues[prio].Push(item)
	}
	w.requestYieldIfNeeded(prio)
	w.wakeUp()
}

func (w *worker) requestYieldIfNeeded(incomingPrio int) {
	cur := atomic.LoadInt32(&w.curPrio)
	if cur >= 0 && incomingPrio < int(cur) {
		atomic.StoreUint32(&w.yieldRequested, 1)
	}
}

func (w *worker) yieldRequestedBit() bool {
	return atomic.LoadUint32(&w.yieldRequested) != 0
}

func (w *worker) clearYieldRequested() { atomic.StoreUint32(&w.yieldRequested, 0) }

func (w *worker) setIdle() { w.ex.idle.Set(w.idx) }

func (w *worker) clearIdle() bool { return w.ex.idle.Clear(w.idx) }

func (w *worker) wakeUp() {
	w.clearIdle()
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// popOwn drains this worker's own queues, highest priority first.
func (w *worker) popOwn() (item workItem, prio int, ok bool) {
	for p := 0; p < len(w.queues); p++ {
		if it, ok := w.inboxes[p].Pop(); ok {
			return it.(workItem), p, true
		}
		if it, ok := w.queues[p].Pop(); ok {
			return it.(workItem), p, true
		}
	}
	return workItem{}, 0, false
}

func (w *worker) allEmpty() bool {
	for p := range w.queues {
		if !w.inboxes[p].Empty() || !w.queues[p].Empty() {
			return false
		}
	}
	return true
}

// steal probes other workers per the precomputed steal matrix, highest
// priority first, taking a batch on the first success.
func (w *worker) steal() (item workItem, prio int, ok bool) {
	order := w.ex.stealMatrix[w.idx]
	for p := 0; p < len(w.queues); p++ {
		for _, victimIdx := range order {
			if victimIdx == w.idx {
				continue
			}
			victim := w.ex.workers[victimIdx]
			batch := victim.queues[p].Steal(batchLimit(victim.queues[p].Len()))
			if len(batch) == 0 {
				continue
			}
			// Keep the first item, push the rest onto our own queue.
			first := batch[0].(workItem)
			if len(batch) > 1 {
				rest := make([]interface{}, len(batch)-1)
				copy(rest, batch[1:])
				w.queues[p].PushBulk(rest)
			}
			return first, p, true
		}
	}
	return workItem{}, 0, false
}

func batchLimit(n int) int {
	half := n / 2
	if half == 0 {
		half = 1
	}
	return half
}

// loop is the worker's run function: pop-or-steal, execute, else idle.
func (w *worker) loop() {
	defer w.ex.wg.Done()

	if w.ex.cfg.pinningEnabled {
		_ = w.ex.cfg.pinner.Pin(w.info.Group)
	}
	if w.ex.cfg.initHook != nil {
		w.ex.cfg.initHook(w.info)
	}
	defer func() {
		if w.ex.cfg.teardownHook != nil {
			w.ex.cfg.teardownHook(w.info)
		}
	}()

	spins := w.ex.cfg.spins

	for {
		item, prio, ok := w.popOwn()
		if !ok {
			item, prio, ok = w.steal()
		}
		if ok {
			w.execute(item, prio)
			continue
		}

		if w.ex.tearingDown() {
			return
		}

		if w.spinWait(spins) {
			continue
		}

		w.setIdle()
		// Re-check once to close the race with a concurrent submitter that
		// posted just before the idle bit was visible.
		if item, prio, ok := w.popOwn(); ok {
			w.clearIdle()
			w.execute(item, prio)
			continue
		}

		select {
		case <-w.wake:
		case <-w.done:
			w.clearIdle()
			return
		}
	}
}

func (w *worker) execute(item workItem, prio int) {
	atomic.StoreInt32(&w.curPrio, int32(prio))
	w.clearYieldRequested()
	w.runOne(item, prio)
	atomic.StoreInt32(&w.curPrio, -1)
	w.ex.inflight.Add(-1)
}

// spinWait busy-probes for up to n iterations, yielding the OS thread each
// time, before giving up. It returns true if it found work and the caller
// should retry popping.
func (w *worker) spinWait(n int) bool {
	for i := 0; i < n; i++ {
		runtime.Gosched()
		if !w.allEmpty() {
			return true
		}
	}
	return false
}

func (w *worker) runOne(item workItem, prio int) {
	defer func() {
		if r := recover(); r != nil {
			w.ex.cfg.logger.Error("taskrt: task panicked", zap.Any("panic", r))
		}
	}()
	runCtx := w.ex.workerContext(item.ctx, w, prio)
	item.fn(runCtx)
}
