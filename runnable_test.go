package asyncore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunAll_DrainsChain(t *testing.T) {
	var order []int
	var third Runnable = runnableFunc(func() Runnable {
		order = append(order, 3)
		return nil
	})
	var second Runnable = runnableFunc(func() Runnable {
		order = append(order, 2)
		return third
	})
	var first Runnable = runnableFunc(func() Runnable {
		order = append(order, 1)
		return second
	})

	RunAll(first)
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestRunAll_NilIsNoop(t *testing.T) {
	require.NotPanics(t, func() { RunAll(nil) })
}
