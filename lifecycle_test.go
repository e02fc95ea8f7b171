package taskrt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShutdownSequence_RunsInOrder(t *testing.T) {
	seq := &shutdownSequence{}
	var order []string
	seq.register(func() { order = append(order, "a") })
	seq.register(func() { order = append(order, "b") })
	seq.register(func() { order = append(order, "c") })

	seq.run()
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestShutdown_RunsRegisteredStepsOnce(t *testing.T) {
	rootShutdown = &shutdownSequence{}
	shutdownOnce = sync.Once{}

	count := 0
	OnShutdown(func() { count++ })

	Shutdown()
	Shutdown()

	require.Equal(t, 1, count)
}
