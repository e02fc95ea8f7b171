package executor

import (
	"go.uber.org/zap"

	"github.com/ygrebnov/taskrt/metrics"
	"github.com/ygrebnov/taskrt/topology"
)

// StealStrategy selects how the work-stealing and wake matrices are built,
// per spec.md §4.4.
type StealStrategy int

const (
	// StealLattice treats all workers as equally close (BFS order with a
	// round-robin tie-break offset per row).
	StealLattice StealStrategy = iota
	// StealHierarchy prefers stealing within the same cache group first,
	// then expands to sibling groups.
	StealHierarchy
)

// ThreadInfo is passed to thread init/teardown hooks, per spec.md §6.
type ThreadInfo struct {
	Index    int
	Group    topology.Group
	CPUKind  topology.CPUKind
	SMTLevel int
}

// config holds Executor configuration. All options apply only before Init;
// late changes are ignored, per spec.md §4.4.
type config struct {
	threadCount      int
	priorityCount    int
	spins            int
	strategy         StealStrategy
	topologyProvider topology.Provider
	pinner           topology.Pinner
	pinningEnabled   bool
	initHook         func(ThreadInfo)
	teardownHook     func(ThreadInfo)
	logger           *zap.Logger
	metrics          metrics.Provider
}

func defaultConfig() config {
	return config{
		threadCount:      0, // derive from topology at Init
		priorityCount:    1,
		spins:            1000,
		strategy:         StealLattice,
		topologyProvider: topology.Default(),
		pinner:           topology.NoopPinner{},
		logger:           zap.NewNop(),
		metrics:          metrics.NewNoopProvider(),
	}
}

// Option configures an Executor before Init.
type Option func(*config)

// WithThreadCount sets the worker count. Zero (the default) derives the
// count from the topology provider, honoring any observed container quota.
func WithThreadCount(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("executor: thread count must be >= 0")
		}
		c.threadCount = n
	}
}

// WithPriorityCount sets the number of priority bands. Any positive count
// is accepted; no upper limit is enforced.
func WithPriorityCount(p int) Option {
	return func(c *config) {
		if p <= 0 {
			panic("executor: priority count must be > 0")
		}
		c.priorityCount = p
	}
}

// WithSpins sets how many empty-probe iterations a worker performs before
// parking.
func WithSpins(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("executor: spins must be >= 0")
		}
		c.spins = n
	}
}

// WithStealStrategy selects the lattice or hierarchy work-stealing matrix
// construction.
func WithStealStrategy(s StealStrategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithTopologyProvider overrides the topology collaborator (spec.md §6).
func WithTopologyProvider(p topology.Provider) Option {
	return func(c *config) {
		if p == nil {
			panic("executor: nil topology provider")
		}
		c.topologyProvider = p
	}
}

// WithThreadPinning enables per-worker affinity pinning via pinner.
func WithThreadPinning(pinner topology.Pinner) Option {
	return func(c *config) {
		if pinner == nil {
			panic("executor: nil pinner")
		}
		c.pinner = pinner
		c.pinningEnabled = true
	}
}

// WithThreadInitHook registers a callback invoked synchronously on each
// worker thread before it begins its run loop.
func WithThreadInitHook(fn func(ThreadInfo)) Option {
	return func(c *config) { c.initHook = fn }
}

// WithThreadTeardownHook registers a callback invoked synchronously on each
// worker thread after its run loop exits.
func WithThreadTeardownHook(fn func(ThreadInfo)) Option {
	return func(c *config) { c.teardownHook = fn }
}

// WithLogger sets the structured logger used for lifecycle and panic-
// recovery events. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	}
}

// WithMetrics installs a metrics.Provider the executor uses to report
// submitted-task counts and in-flight task counts. Defaults to a no-op
// provider.
func WithMetrics(p metrics.Provider) Option {
	return func(c *config) {
		if p == nil {
			p = metrics.NewNoopProvider()
		}
		c.metrics = p
	}
}
