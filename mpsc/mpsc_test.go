package mpsc

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueue_SingleProducer(t *testing.T) {
	q := New[int](4)
	for i := 0; i < 10; i++ {
		q.Post(i)
	}
	var got []int
	for {
		v, ok := q.TryPull()
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestQueue_SpansMultipleBlocks(t *testing.T) {
	q := New[int](4)
	for i := 0; i < 25; i++ {
		q.Post(i)
	}
	for i := 0; i < 25; i++ {
		v, ok := q.TryPull()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := q.TryPull()
	require.False(t, ok)
}

func TestQueue_PostBulk(t *testing.T) {
	q := New[int](8)
	q.PostBulk([]int{1, 2, 3})
	q.PostBulk(nil)
	q.PostBulk([]int{4, 5})

	got := q.DrainAll()
	require.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := New[int](16)
	const producers = 20
	const perProducer = 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Post(base*perProducer + i)
			}
		}(p)
	}
	wg.Wait()

	got := q.DrainAll()
	require.Len(t, got, producers*perProducer)

	sort.Ints(got)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}
