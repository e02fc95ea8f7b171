package taskrt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/taskrt/executor"
)

// TestSpawnManyBounded_RunsExactlyMin is spec.md §4.7/§8's testable
// property: over an index range of exact size K with MaxTasks bound B,
// exactly min(K, B) children run and the results container has exactly
// min(K, B) elements, in order.
func TestSpawnManyBounded_RunsExactlyMin(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(4))
	ex.Init()
	defer ex.Teardown()

	const begin, end, maxTasks = 0, 100, 7

	group := SpawnManyBounded(context.Background(), ex, 0, begin, end, maxTasks,
		func(_ context.Context, i int) (int, error) { return i * i, nil })

	results, err := group.Join(context.Background())
	require.NoError(t, err)
	require.Len(t, results, maxTasks)
	for i, r := range results {
		require.Equal(t, i*i, r)
	}
}

// TestSpawnManyBounded_KSmallerThanMax confirms the bound is a ceiling,
// not a floor: when K < B, all K children run.
func TestSpawnManyBounded_KSmallerThanMax(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(2))
	ex.Init()
	defer ex.Teardown()

	const begin, end, maxTasks = 10, 13, 50 // K=3 < B=50

	group := SpawnManyBounded(context.Background(), ex, 0, begin, end, maxTasks,
		func(_ context.Context, i int) (int, error) { return i, nil })

	results, err := group.Join(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int{10, 11, 12}, results)
}
