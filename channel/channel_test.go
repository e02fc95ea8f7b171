package channel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannel_PostThenPull(t *testing.T) {
	ctx := context.Background()
	ch := New[int]()
	ch.Post(ctx, 1)
	ch.Post(ctx, 2)

	v, ok, err := ch.Pull(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v)

	v, status := ch.TryPull()
	require.Equal(t, PullOK, status)
	require.Equal(t, 2, v)

	_, status = ch.TryPull()
	require.Equal(t, PullEmpty, status)
}

func TestChannel_PullBlocksUntilPost(t *testing.T) {
	ctx := context.Background()
	ch := New[int]()

	got := make(chan int, 1)
	go func() {
		v, ok, err := ch.Pull(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		got <- v
	}()

	time.Sleep(20 * time.Millisecond)
	ch.Post(ctx, 42)

	select {
	case v := <-got:
		require.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("pull never woke")
	}
}

func TestChannel_CloseDrainsThenReturnsFalse(t *testing.T) {
	ctx := context.Background()
	ch := New[int]()
	ch.Post(ctx, 1)
	ch.Close()

	v, ok, err := ch.Pull(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok, err = ch.Pull(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, status := ch.TryPull()
	require.Equal(t, PullClosed, status)
}

func TestChannel_Drain(t *testing.T) {
	ctx := context.Background()
	ch := New[int]()
	ch.Post(ctx, 1)
	ch.Post(ctx, 2)

	drained := make(chan struct{})
	go func() {
		require.NoError(t, ch.Drain(ctx))
		close(drained)
	}()

	select {
	case <-drained:
		t.Fatal("drain returned before channel closed+emptied")
	case <-time.After(20 * time.Millisecond):
	}

	_, _, _ = ch.Pull(ctx)
	_, _, _ = ch.Pull(ctx)
	ch.Close()

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("drain never returned")
	}
}

func TestChannel_PushBackpressure(t *testing.T) {
	ctx := context.Background()
	ch := New[int](WithHeavyLoadThreshold(2))

	ok, err := ch.Push(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = ch.Push(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)

	pushed := make(chan struct{})
	go func() {
		ok, err := ch.Push(ctx, 3)
		require.NoError(t, err)
		require.True(t, ok)
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("push proceeded despite the channel being over threshold")
	case <-time.After(20 * time.Millisecond):
	}

	_, _, _ = ch.Pull(ctx)

	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("push never unblocked once a slot freed up")
	}
}

func TestChannel_SingleThreadThroughput(t *testing.T) {
	ctx := context.Background()
	ch := New[int]()

	const n = 100000
	go func() {
		for i := 0; i < n; i++ {
			ch.Post(ctx, i)
		}
		ch.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	var count, sum int
	go func() {
		defer wg.Done()
		for {
			v, ok, err := ch.Pull(ctx)
			require.NoError(t, err)
			if !ok {
				return
			}
			count++
			sum += v
		}
	}()
	wg.Wait()

	require.Equal(t, n, count)
	require.Equal(t, 4999950000, sum)
}

// TestChannel_CloseHonoredByPostAndPush is spec.md §7: post after Close is
// a no-op (the value is destroyed, not queued), and push after Close fails
// by returning ok=false rather than enqueuing.
func TestChannel_CloseHonoredByPostAndPush(t *testing.T) {
	ctx := context.Background()
	ch := New[int]()

	ch.Post(ctx, 1)
	ch.Close()

	ch.Post(ctx, 2) // must be silently dropped, not queued

	ok, err := ch.Push(ctx, 3)
	require.NoError(t, err)
	require.False(t, ok)

	v, ok, err := ch.Pull(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok, err = ch.Pull(ctx)
	require.NoError(t, err)
	require.False(t, ok, "Post/Push after Close must not have queued anything")
}

// TestChannel_PushUnblocksOnClose confirms a push parked on backpressure
// does not hang forever once the channel is closed out from under it.
func TestChannel_PushUnblocksOnClose(t *testing.T) {
	ctx := context.Background()
	ch := New[int](WithHeavyLoadThreshold(1))

	ok, err := ch.Push(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)

	pushed := make(chan struct{})
	go func() {
		ok, err := ch.Push(ctx, 2)
		require.NoError(t, err)
		require.False(t, ok)
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("push returned before the channel was closed")
	case <-time.After(20 * time.Millisecond):
	}

	ch.Close()

	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("push never unblocked once the channel closed")
	}
}
