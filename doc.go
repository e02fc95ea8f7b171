// Package taskrt provides a user-space asynchronous task runtime: a
// multi-priority work-stealing CPU executor (package executor), task
// spawning and joining (Spawn/SpawnMany/SpawnTuple/OpenGroup), a
// serializing sub-scheduler (package braid), an MPSC queue and MPMC
// channel for inter-task messaging (packages mpsc and channel), and the
// suspension/release primitives tasks use to coordinate (package
// resumption).
//
// Spawning
//
//	t := taskrt.Spawn(ctx, ex, 0, func(ctx context.Context) (int, error) {
//	    return 42, nil
//	})
//	result, err := t.Join(ctx)
//
// Or with the fluent builder, for RunOn/ResumeOn/WithPriority/Fork/Detach:
//
//	result, err := taskrt.SpawnNew(fn).RunOn(ex).WithPriority(1).Await(ctx)
//
// Ambient scheduling identity
// Composition helpers (Yield, ChangePriority, ResumeOn, and every
// resumption primitive) recover "which executor and priority am I running
// under" from ctx rather than from an explicit promise object — see
// executor.Current. A task body therefore only needs to thread ctx
// through, the same way it would thread a context.Context for
// cancellation in ordinary Go code.
//
// Default executor
// Default() lazily constructs and initializes a process-wide Executor the
// first time anything spawns without naming one explicitly; SetDefault
// installs a caller-configured one instead.
package taskrt
