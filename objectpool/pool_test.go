package objectpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type widget struct {
	id    int
	built int
}

func TestPool_ConstructsOnceReusesAfterRelease(t *testing.T) {
	var nextID int
	p := New(2, func() *widget {
		nextID++
		return &widget{id: nextID}
	})

	i1, w1, err := p.Acquire()
	require.NoError(t, err)
	require.Equal(t, 1, (*w1).id)

	(*w1).built++
	p.Release(i1)

	i2, w2, err := p.Acquire()
	require.NoError(t, err)
	require.Equal(t, i1, i2)
	require.Equal(t, 1, (*w2).built, "reacquired slot should preserve prior state")
}

func TestPool_FullSignal(t *testing.T) {
	p := New(2, func() int { return 0 })

	_, _, err := p.Acquire()
	require.NoError(t, err)
	_, _, err = p.Acquire()
	require.NoError(t, err)

	_, _, err = p.Acquire()
	require.ErrorIs(t, err, ErrPoolFull)
}

func TestDynamicPool_GetPut(t *testing.T) {
	p := NewDynamic(func() *widget { return &widget{} })
	w := p.Get()
	w.id = 7
	p.Put(w)
}
