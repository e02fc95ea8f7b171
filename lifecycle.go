package taskrt

import "sync"

// shutdownSequence runs a registered list of steps in order, generalizing
// the teacher's lifecycleCoordinator from a fixed worker-pool shutdown
// sequence (cancel, wait inflight, drain, close channels) into an
// arbitrary, caller-extensible one: callers register steps via OnShutdown
// instead of the sequence hard-coding them.
type shutdownSequence struct {
	mu    sync.Mutex
	steps []func()
}

func (s *shutdownSequence) register(step func()) {
	s.mu.Lock()
	s.steps = append(s.steps, step)
	s.mu.Unlock()
}

func (s *shutdownSequence) run() {
	s.mu.Lock()
	steps := s.steps
	s.mu.Unlock()
	for _, step := range steps {
		step()
	}
}

var (
	rootShutdown = &shutdownSequence{}
	shutdownOnce sync.Once
)

// OnShutdown registers step to run during Shutdown, after the default
// executor has torn down, in registration order.
func OnShutdown(step func()) {
	rootShutdown.register(step)
}

// Shutdown tears down the process-wide default executor, if Default() or
// SetDefault installed one, then runs every OnShutdown-registered step.
// It is idempotent and safe to call concurrently; the sequence runs
// exactly once.
func Shutdown() {
	shutdownOnce.Do(func() {
		if ex := defaultExecutor.Load(); ex != nil {
			ex.Teardown()
		}
		rootShutdown.run()
	})
}
