package asyncore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultAllocator_NeverFails(t *testing.T) {
	ptr, ok := DefaultAllocator.Allocate(64)
	require.True(t, ok)
	require.NotNil(t, ptr)
}

func TestFaultAllocator_FailsFromNthCallOnward(t *testing.T) {
	a := &FaultAllocator{FailAfter: 2}

	_, ok := a.Allocate(8)
	require.True(t, ok)
	_, ok = a.Allocate(8)
	require.True(t, ok)
	_, ok = a.Allocate(8)
	require.False(t, ok, "the third call (index 2) must fail once FailAfter is reached")
	_, ok = a.Allocate(8)
	require.False(t, ok, "failures persist for every subsequent call")
}

func TestFaultAllocator_FailAfterZeroFailsImmediately(t *testing.T) {
	a := &FaultAllocator{FailAfter: 0}
	_, ok := a.Allocate(8)
	require.False(t, ok)
}

func TestFaultAllocator_NegativeFailAfterNeverFails(t *testing.T) {
	a := &FaultAllocator{FailAfter: -1}
	for i := 0; i < 5; i++ {
		_, ok := a.Allocate(8)
		require.True(t, ok)
	}
}

func TestSpawn_ReportsOutOfMemoryWhenAllocatorExhausted(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()), WithFrameAllocator(&FaultAllocator{FailAfter: 0}))

	task := Spawn(rt, func(fr *T) Result[int] { return Ok(1) })
	require.True(t, task.IsReady(), "an exhausted allocator should settle the task immediately, without ever posting it")
	require.Equal(t, OutOfMemory, task.Resume().Code())
}

func TestSpawn_SucceedsBeforeAllocatorExhausted(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()), WithFrameAllocator(&FaultAllocator{FailAfter: 1}))

	first := Spawn(rt, func(fr *T) Result[int] { return Ok(1) })
	second := Spawn(rt, func(fr *T) Result[int] { return Ok(2) })
	rt.RunUntilIdle()

	require.True(t, first.IsReady())
	require.Equal(t, 1, first.Resume().Value())

	require.True(t, second.IsReady())
	require.Equal(t, OutOfMemory, second.Resume().Code())
}
