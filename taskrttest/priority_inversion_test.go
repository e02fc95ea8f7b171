package taskrttest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ygrebnov/taskrt"
	"github.com/ygrebnov/taskrt/executor"
)

// busyChunk simulates a long-running CPU task written in the
// continuation-passing style taskrt's cooperative yield requires: it
// does a bounded amount of work, then checks YieldIfRequested before
// continuing, splitting the remaining work into a fresh continuation
// instead of looping in place. This is the scenario of spec.md §8.2.
func busyChunk(ctx context.Context, remainingChunks int, completed *atomic.Int64) {
	if remainingChunks <= 0 {
		completed.Add(1)
		return
	}
	for i := 0; i < 10_000; i++ {
		_ = i * i
	}
	taskrt.YieldIfRequested(ctx, func(ctx context.Context) {
		busyChunk(ctx, remainingChunks-1, completed)
	})
}

// TestPriorityInversionResistance submits many low-priority long-running
// tasks first, then a handful of high-priority short tasks, and checks
// the high-priority tasks complete while at least one low-priority task is
// still outstanding — the observable consequence of spec.md §8.2's invariant
// ("the running task on each worker is at the highest priority for which
// work exists"), since no public API exposes a worker's running priority
// directly for a literal per-snapshot assertion.
func TestPriorityInversionResistance(t *testing.T) {
	const priorityCount = 4
	ex := executor.New(
		executor.WithThreadCount(2),
		executor.WithPriorityCount(priorityCount),
	)
	ex.Init()
	defer ex.Teardown()

	const lowTaskCount = 100
	var lowCompleted atomic.Int64
	for i := 0; i < lowTaskCount; i++ {
		ex.Submit(context.Background(), func(ctx context.Context) {
			busyChunk(ctx, 50, &lowCompleted)
		}, priorityCount-1)
	}

	// Give the low-priority flood a head start before the high-priority
	// burst arrives, matching "lowest priority arrives first".
	time.Sleep(5 * time.Millisecond)

	var highCompleted atomic.Int64
	const highTaskCount = 5
	highDone := make(chan struct{}, highTaskCount)
	for i := 0; i < highTaskCount; i++ {
		ex.Submit(context.Background(), func(ctx context.Context) {
			highCompleted.Add(1)
			highDone <- struct{}{}
		}, 0)
	}

	for i := 0; i < highTaskCount; i++ {
		select {
		case <-highDone:
		case <-time.After(2 * time.Second):
			t.Fatal("high-priority tasks did not complete in time")
		}
	}

	if lowCompleted.Load() >= lowTaskCount {
		t.Fatalf("all %d low-priority tasks completed before the high-priority burst finished; expected the scheduler to prefer priority 0", lowTaskCount)
	}
}
