package braid

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/taskrt/executor"
)

func TestBraid_SerializesAcrossWorkers(t *testing.T) {
	ex := executor.New(executor.WithThreadCount(4), executor.WithPriorityCount(1))
	ex.Init()
	defer ex.Teardown()

	b := New(ex, 0)

	var mu sync.Mutex
	var active int
	var maxActive int
	var seq []int

	var wg sync.WaitGroup
	const n = 200
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		b.Run(context.Background(), func(context.Context) {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			seq = append(seq, i)
			active--
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	require.Equal(t, 1, maxActive, "braid allowed more than one concurrent runner")
	require.Len(t, seq, n)
	for i, v := range seq {
		require.Equal(t, i, v, "braid did not preserve submission order")
	}
}
