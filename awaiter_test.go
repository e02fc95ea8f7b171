package taskrt

import (
	"context"
	"testing"

	"github.com/ygrebnov/taskrt/executor"
)

func TestAwait_NativeTask(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(2))
	ex.Init()
	defer ex.Teardown()

	task := Spawn(context.Background(), ex, 0, func(context.Context) (int, error) {
		return 7, nil
	})
	got, err := Await[int](context.Background(), task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestAwait_WrapperGroup(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(2))
	ex.Init()
	defer ex.Teardown()

	fns := []func(context.Context) (int, error){
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 2, nil },
	}
	group := SpawnMany(context.Background(), ex, 0, fns)
	got, err := Await[[]int](context.Background(), group)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v, want [1 2]", got)
	}
}

func TestAwaitFunc_UnknownAwaitable(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(1))
	ex.Init()
	defer ex.Teardown()

	got, err := AwaitFunc(context.Background(), ex, 0, func(context.Context) (string, error) {
		return "done", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Fatalf("got %q, want %q", got, "done")
	}
}
