// Package executor provides the task runtime's scheduling core: a
// multi-priority, work-stealing CPU executor (Executor), its degenerate
// single-thread form (NewSingleThread), and a manual-pump form (Manual)
// for hosts that supply their own driving thread (e.g. integration with
// another event loop).
//
// Construction
//
//	ex := executor.New(
//	    executor.WithThreadCount(4),
//	    executor.WithPriorityCount(3),
//	    executor.WithStealStrategy(executor.StealHierarchy),
//	)
//	ex.Init()
//	defer ex.Teardown()
//
// Submission
//
// Submit/SubmitHinted/BulkSubmit take the caller's context.Context and a
// func(context.Context); the executor augments that context with the
// ambient scheduling identity (see Current) before invoking fn on whichever
// worker ends up running it. Composition helpers (package taskrt, package
// resumption) recover that identity from ctx to implement priority-aware
// yielding and symmetric-transfer resumption without needing a promise
// object of their own.
package executor
