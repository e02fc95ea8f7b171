package taskrttest

import (
	"context"
	"testing"

	"github.com/ygrebnov/taskrt"
	"github.com/ygrebnov/taskrt/executor"
)

// fib computes fib(n) by recursive fork, spawning both subcalls and
// joining them — spec.md §8.6.
func fib(ctx context.Context, ex taskrt.Submitter, n int) (int, error) {
	if n < 2 {
		return n, nil
	}
	left := taskrt.Spawn(ctx, ex, 0, func(ctx context.Context) (int, error) {
		return fib(ctx, ex, n-1)
	})
	right, err := fib(ctx, ex, n-2)
	if err != nil {
		return 0, err
	}
	l, err := left.Join(ctx)
	if err != nil {
		return 0, err
	}
	return l + right, nil
}

func TestFib30RecursiveFork(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(4))
	ex.Init()
	defer ex.Teardown()

	got, err := fib(context.Background(), ex, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 832040 {
		t.Fatalf("fib(30) = %d, want 832040", got)
	}
}
