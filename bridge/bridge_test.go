package bridge

import (
	"context"
	"testing"

	"github.com/ygrebnov/taskrt/executor"
)

func TestPostWaitable_Get(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(2))
	ex.Init()
	defer ex.Teardown()

	future := PostWaitable(context.Background(), ex, 0, func(context.Context) (int, error) {
		return 21 * 2, nil
	})
	got, err := future.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestPostWaitable_Wait(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(2))
	ex.Init()
	defer ex.Teardown()

	ran := make(chan struct{})
	future := PostWaitable(context.Background(), ex, 0, func(context.Context) (struct{}, error) {
		close(ran)
		return struct{}{}, nil
	})
	if err := future.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-ran:
	default:
		t.Fatal("work did not run before Wait returned")
	}
}
