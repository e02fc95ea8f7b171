// Package executor implements the multi-priority work-stealing CPU
// executor of spec.md §4.4 (C6), its single-thread and manual-pump
// degenerate forms (§4.5, C7), and the per-worker queue/inbox/bitmap
// machinery (C1, C4, C5) that backs them.
package executor

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ygrebnov/taskrt/internal/bitmap"
	"github.com/ygrebnov/taskrt/metrics"
	"github.com/ygrebnov/taskrt/topology"
)

type lifecycleState uint32

const (
	stateUninitialized lifecycleState = iota
	stateRunning
	stateTearingDown
	stateTornDown
)

// Executor is a CPU executor: N workers × P priority levels, with a
// readiness bitmap, work-stealing/wake matrices, and submit/run-loop logic.
// The zero value is not usable; construct with New.
type Executor struct {
	cfg     config
	workers []*worker

	idle        *bitmap.Bitmap
	stealMatrix [][]int
	wakeMatrix  [][]int

	state      atomic.Uint32
	initOnce   sync.Once
	downOnce   sync.Once
	wg         sync.WaitGroup
	nextTarget atomic.Uint64

	submitted metrics.Counter
	inflight  metrics.UpDownCounter

	// submittedByPrio breaks the aggregate submitted counter down per
	// priority tier — a dimension the teacher's fixed, single-priority
	// pool never had a reason to track. Index: priority.
	submittedByPrio []metrics.Counter
}

// New constructs an Executor with the given options. The executor is not
// running until Init is called.
func New(opts ...Option) *Executor {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	// BasicProvider (metrics/basic.go) dedupes instruments by name alone,
	// so each priority tier needs its own instrument name; WithAttributes
	// additionally records the tier for providers that do key on it.
	submittedByPrio := make([]metrics.Counter, cfg.priorityCount)
	for p := range submittedByPrio {
		submittedByPrio[p] = cfg.metrics.Counter(
			fmt.Sprintf("taskrt.executor.submitted.priority.%d", p),
			metrics.WithDescription("tasks submitted to the executor, by priority"),
			metrics.WithAttributes(map[string]string{"priority": strconv.Itoa(p)}),
		)
	}
	return &Executor{
		cfg:             cfg,
		submitted:       cfg.metrics.Counter("taskrt.executor.submitted", metrics.WithDescription("tasks submitted to the executor")),
		inflight:        cfg.metrics.UpDownCounter("taskrt.executor.inflight", metrics.WithDescription("tasks submitted but not yet finished")),
		submittedByPrio: submittedByPrio,
	}
}

// Init transitions the executor from uninitialized to running. It is
// idempotent: a second call is a no-op. Init is total, per spec.md §7: it
// either configures and returns, or panics — it never leaves the executor
// half-initialized.
func (ex *Executor) Init() {
	ex.initOnce.Do(func() {
		t, err := ex.cfg.topologyProvider.Topology()
		if err != nil {
			panic(fmt.Errorf("taskrt: topology provider: %w", err))
		}

		n := ex.cfg.threadCount
		if n == 0 {
			n = len(t.Root.Cores)
			if n == 0 {
				n = 1
			}
			if t.Quota.Limit > 0 && t.Quota.Limit < n {
				n = t.Quota.Limit
			}
		}
		if n <= 0 {
			n = 1
		}

		ex.idle = bitmap.New(n)
		ex.stealMatrix = buildStealMatrix(t, n, ex.cfg.strategy)
		ex.wakeMatrix = transpose(ex.stealMatrix)

		groups := buildGroups(t, n)
		gOf := groupOf(groups, n)

		// leaves lists the topology's leaf groups in the same order
		// buildGroups numbers them, so leaves[gOf[i]] is worker i's group.
		var leaves []topology.Group
		var walk func(g topology.Group)
		walk = func(g topology.Group) {
			if len(g.Children) == 0 {
				leaves = append(leaves, g)
				return
			}
			for _, c := range g.Children {
				walk(c)
			}
		}
		walk(t.Root)

		ex.workers = make([]*worker, n)
		for i := 0; i < n; i++ {
			info := ThreadInfo{Index: i, Group: t.Root, SMTLevel: t.Root.SMTLevel}
			if len(leaves) > 1 && gOf[i] < len(leaves) {
				// best-effort: the leaf group the worker landed in, when
				// the topology describes more than one.
				info.Group = leaves[gOf[i]]
				info.SMTLevel = info.Group.SMTLevel
			}
			ex.workers[i] = newWorker(i, ex, info)
		}

		ex.state.Store(uint32(stateRunning))

		ex.wg.Add(n)
		for i := 0; i < n; i++ {
			go ex.workers[i].loop()
		}

		ex.cfg.logger.Info("taskrt: executor initialized", zap.Int("workers", n))
	})
}

func (ex *Executor) running() bool {
	return lifecycleState(ex.state.Load()) == stateRunning
}

func (ex *Executor) tearingDown() bool {
	return lifecycleState(ex.state.Load()) >= stateTearingDown
}

// Teardown stops accepting new scheduling decisions affecting already-
// running tasks and waits for every worker to exit its loop once its
// queues drain. It is idempotent and blocks the caller until all workers
// have exited, per spec.md §4.4.
func (ex *Executor) Teardown() {
	ex.downOnce.Do(func() {
		ex.state.Store(uint32(stateTearingDown))
		for _, w := range ex.workers {
			close(w.done)
			w.wakeUp()
		}
		ex.wg.Wait()
		ex.state.Store(uint32(stateTornDown))
		ex.cfg.logger.Info("taskrt: executor torn down")
	})
}

// WorkerCount reports the number of workers (valid after Init).
func (ex *Executor) WorkerCount() int { return len(ex.workers) }

// PriorityCount reports the configured number of priority bands.
func (ex *Executor) PriorityCount() int { return ex.cfg.priorityCount }

// Submit schedules fn at priority prio, per the placement rule of spec.md
// §4.4: prefer the submitter's own queue if ctx shows it is already a
// worker of this executor, otherwise hand it to the worker pickTarget
// chooses. fn receives a context carrying the ambient scheduling identity
// (see Current) merged over ctx.
func (ex *Executor) Submit(ctx context.Context, fn func(context.Context), prio int) {
	ex.clampPriority(&prio)
	ex.submitted.Add(1)
	ex.submittedByPrio[prio].Add(1)
	ex.inflight.Add(1)
	item := workItem{ctx: ctx, fn: fn}
	if id, ok := currentIdentity(ctx); ok && id.ex == ex && id.w != nil {
		id.w.submitLocal(item, prio)
		id.w.requestYieldIfNeeded(prio)
		return
	}
	w := ex.pickTarget()
	w.submitInbox(item, prio)
}

// SubmitHinted schedules fn onto the given worker's inbox, falling back to
// its main queue on overflow, per spec.md §4.3/§4.4.
func (ex *Executor) SubmitHinted(ctx context.Context, fn func(context.Context), prio, workerHint int) {
	ex.clampPriority(&prio)
	ex.submitted.Add(1)
	ex.submittedByPrio[prio].Add(1)
	ex.inflight.Add(1)
	if workerHint < 0 || workerHint >= len(ex.workers) {
		workerHint = int(ex.nextTarget.Add(1) % uint64(len(ex.workers)))
	}
	ex.workers[workerHint].submitInbox(workItem{ctx: ctx, fn: fn}, prio)
}

// BulkSubmit schedules every fn in fns at priority prio, then fans out
// wakes across the wake matrix — up to len(fns) idle workers are poked —
// per spec.md §4.4's bulk-submit wake behavior.
func (ex *Executor) BulkSubmit(ctx context.Context, fns []func(context.Context), prio int) {
	ex.clampPriority(&prio)
	if len(fns) == 0 {
		return
	}
	ex.submitted.Add(int64(len(fns)))
	ex.submittedByPrio[prio].Add(int64(len(fns)))
	ex.inflight.Add(int64(len(fns)))
	items := make([]workItem, len(fns))
	for i, f := range fns {
		items[i] = workItem{ctx: ctx, fn: f}
	}

	if id, ok := currentIdentity(ctx); ok && id.ex == ex && id.w != nil {
		id.w.submitLocalBulk(items, prio)
		id.w.requestYieldIfNeeded(prio)
		return
	}

	start := ex.pickTarget()
	start.submitInbox(items[0], prio)
	rest := items[1:]
	if len(rest) == 0 {
		return
	}
	row := ex.wakeMatrix[start.idx]
	woken := 0
	for _, idx := range row {
		if woken >= len(rest) {
			break
		}
		w := ex.workers[idx]
		if w == start {
			continue
		}
		w.submitInbox(rest[woken], prio)
		woken++
	}
	for i := woken; i < len(rest); i++ {
		ex.pickTarget().submitInbox(rest[i], prio)
	}
}

func (ex *Executor) clampPriority(prio *int) {
	if *prio < 0 {
		*prio = 0
	}
	if *prio >= ex.cfg.priorityCount {
		*prio = ex.cfg.priorityCount - 1
	}
}

// pickTarget picks the lowest-indexed worker whose idle bit is set;
// otherwise it goes round-robin. It does not track how long a worker has
// been idle, so it does not pick the least-recently-idle one.
func (ex *Executor) pickTarget() *worker {
	if idx := ex.idle.FirstSet(0); idx >= 0 {
		return ex.workers[idx]
	}
	idx := int(ex.nextTarget.Add(1) % uint64(len(ex.workers)))
	return ex.workers[idx]
}

// workerContext returns a context carrying w's ambient scheduling identity,
// used when a work item runs so task bodies (and resumption primitives
// they call) can recover their current executor/priority.
func (ex *Executor) workerContext(parent context.Context, w *worker, prio int) context.Context {
	return WithCurrent(parent, ex, w, prio)
}
