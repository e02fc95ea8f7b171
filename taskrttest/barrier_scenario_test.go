package taskrttest

import (
	"context"
	"sync"
	"testing"

	"github.com/ygrebnov/taskrt"
	"github.com/ygrebnov/taskrt/executor"
	"github.com/ygrebnov/taskrt/resumption"
)

// TestBarrierFlipFlop is spec.md §8.5: five tasks share a 5-ary barrier
// and a vector of booleans; each, over 10 iterations, sets its own flag,
// arrives, checks all true, arrives, clears its flag, arrives, checks
// all false, arrives. No iteration should observe a mixed state.
func TestBarrierFlipFlop(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(4))
	ex.Init()
	defer ex.Teardown()

	const n = 5
	const iterations = 10

	b := resumption.NewBarrier(int64(n))
	var mu sync.Mutex
	flags := make([]bool, n)

	allEqual := func(want bool) bool {
		mu.Lock()
		defer mu.Unlock()
		for _, f := range flags {
			if f != want {
				return false
			}
		}
		return true
	}

	group := taskrt.SpawnMany(context.Background(), ex, 0, buildFlipFlopTasks(n, iterations, b, &mu, flags, allEqual))
	if _, err := group.Join(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func buildFlipFlopTasks(
	n, iterations int,
	b *resumption.Barrier,
	mu *sync.Mutex,
	flags []bool,
	allEqual func(bool) bool,
) []func(context.Context) (struct{}, error) {
	fns := make([]func(context.Context) (struct{}, error), n)
	for i := 0; i < n; i++ {
		i := i
		fns[i] = func(ctx context.Context) (struct{}, error) {
			for iter := 0; iter < iterations; iter++ {
				mu.Lock()
				flags[i] = true
				mu.Unlock()
				if err := b.ArriveAndWait(ctx); err != nil {
					return struct{}{}, err
				}
				if !allEqual(true) {
					return struct{}{}, errFlipFlopMismatch(iter, true)
				}
				if err := b.ArriveAndWait(ctx); err != nil {
					return struct{}{}, err
				}

				mu.Lock()
				flags[i] = false
				mu.Unlock()
				if err := b.ArriveAndWait(ctx); err != nil {
					return struct{}{}, err
				}
				if !allEqual(false) {
					return struct{}{}, errFlipFlopMismatch(iter, false)
				}
				if err := b.ArriveAndWait(ctx); err != nil {
					return struct{}{}, err
				}
			}
			return struct{}{}, nil
		}
	}
	return fns
}

type flipFlopMismatchError struct {
	iteration int
	want      bool
}

func (e *flipFlopMismatchError) Error() string {
	if e.want {
		return "barrier flip-flop: not all flags were true at a synchronized point"
	}
	return "barrier flip-flop: not all flags were false at a synchronized point"
}

func errFlipFlopMismatch(iteration int, want bool) error {
	return &flipFlopMismatchError{iteration: iteration, want: want}
}
