package taskrttest

import (
	"context"
	"testing"

	"github.com/ygrebnov/taskrt"
	"github.com/ygrebnov/taskrt/executor"
)

// skynet recursively fans out depth levels, branching factor 10 at each
// level, until size reaches 1 (a leaf), returning offset — the
// scenario of spec.md §8.1.
func skynet(ctx context.Context, ex taskrt.Submitter, depth int, offset, size int64) (int64, error) {
	if depth == 0 {
		return offset, nil
	}
	chunk := size / 10
	fns := make([]func(context.Context) (int64, error), 10)
	for i := int64(0); i < 10; i++ {
		i := i
		fns[i] = func(ctx context.Context) (int64, error) {
			return skynet(ctx, ex, depth-1, offset+i*chunk, chunk)
		}
	}
	group := taskrt.SpawnMany(ctx, ex, 0, fns)
	results, err := group.Join(ctx)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, r := range results {
		sum += r
	}
	return sum, nil
}

func TestSkynetReduction(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(4))
	ex.Init()
	defer ex.Teardown()

	const (
		depth = 6
		leaves = 1_000_000
	)
	sum, err := skynet(context.Background(), ex, depth, 0, leaves)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = 499999500000
	if sum != want {
		t.Fatalf("sum = %d, want %d", sum, want)
	}
}
