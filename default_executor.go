package taskrt

import (
	"sync"
	"sync/atomic"

	"github.com/ygrebnov/taskrt/executor"
)

// defaultExecutor is the process-wide default Submitter of spec.md §9:
// "a single atomic pointer with acquire-release semantics; not a true
// global variable but a process-configured handoff. Must outlive any
// thread that spawns work through it."
var (
	defaultExecutor atomic.Pointer[executor.Executor]
	defaultOnce     sync.Once
)

// Default returns the process-wide default executor, lazily constructing
// and Init-ing one the first time it is needed.
func Default() Submitter {
	if p := defaultExecutor.Load(); p != nil {
		return p
	}
	defaultOnce.Do(func() {
		ex := executor.New()
		ex.Init()
		defaultExecutor.Store(ex)
	})
	return defaultExecutor.Load()
}

// SetDefault installs ex as the process-wide default executor. It is the
// caller's responsibility to Init ex first and to keep it alive for as
// long as any code may call Default().
func SetDefault(ex *executor.Executor) {
	defaultExecutor.Store(ex)
}
