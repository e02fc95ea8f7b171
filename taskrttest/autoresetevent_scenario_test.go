package taskrttest

import (
	"context"
	"testing"
	"time"

	"github.com/ygrebnov/taskrt"
	"github.com/ygrebnov/taskrt/executor"
	"github.com/ygrebnov/taskrt/resumption"
)

// TestAutoResetEventSingleDelivery is spec.md §8.4: five tasks await an
// initially-unset event; five Sets each wake exactly one waiter; five
// more Sets, with no waiters left, leave the event unset.
func TestAutoResetEventSingleDelivery(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(4))
	ex.Init()
	defer ex.Teardown()

	event := resumption.NewAutoResetEvent(false)
	woken := make(chan int, 5)

	tasks := make([]*taskrt.Task[struct{}], 5)
	for i := 0; i < 5; i++ {
		i := i
		tasks[i] = taskrt.Spawn(context.Background(), ex, 0, func(ctx context.Context) (struct{}, error) {
			if err := event.Wait(ctx); err != nil {
				return struct{}{}, err
			}
			woken <- i
			return struct{}{}, nil
		})
	}

	for i := 0; i < 5; i++ {
		event.Set(context.Background())
		select {
		case <-woken:
		case <-time.After(time.Second):
			t.Fatalf("set #%d did not wake a waiter", i)
		}
	}

	for _, task := range tasks {
		if _, err := task.Join(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Five more sets with nobody waiting must not leave the event set.
	for i := 0; i < 5; i++ {
		event.Set(context.Background())
	}
	done := make(chan struct{})
	go func() {
		_ = event.Wait(context.Background())
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("event was left set after no waiters were pending")
	case <-time.After(20 * time.Millisecond):
	}
}
