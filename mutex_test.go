package asyncore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutex_LockUnlockUncontended(t *testing.T) {
	mu := NewMutex()
	var guard *LockGuard

	mt := NewManualTask(func(fr *T) Result[Unit] {
		res := Await(fr, mu.Lock())
		guard = res.Value()
		return Ok(Unit{})
	})
	mt.Start()
	require.True(t, mt.Done())
	require.NotNil(t, guard)

	require.NotPanics(t, guard.Unlock)
}

func TestMutex_SecondLockerWaitsForFIFOHandoff(t *testing.T) {
	mu := NewMutex()
	var order []int
	var guards []*LockGuard

	mk := func(id int) *ManualTask[Unit] {
		return NewManualTask(func(fr *T) Result[Unit] {
			res := Await(fr, mu.Lock())
			order = append(order, id)
			guards = append(guards, res.Value())
			return Ok(Unit{})
		})
	}

	first, second, third := mk(1), mk(2), mk(3)
	first.Start()
	require.True(t, first.Done())
	second.Start()
	require.False(t, second.Done())
	third.Start()
	require.False(t, third.Done())

	guards[0].Unlock()
	require.True(t, second.Done())
	require.False(t, third.Done())

	guards[1].Unlock()
	require.True(t, third.Done())

	require.Equal(t, []int{1, 2, 3}, order)
	guards[2].Unlock()
}

func TestMutex_DoubleUnlockAsserts(t *testing.T) {
	mu := NewMutex()
	mt := NewManualTask(func(fr *T) Result[*LockGuard] {
		return Await(fr, mu.Lock())
	})
	mt.Start()
	guard := mt.Result().Value()

	guard.Unlock()
	require.Panics(t, guard.Unlock)
}

func TestMutex_CancelledWaiterSkippedOnUnlock(t *testing.T) {
	mu := NewMutex()
	holder := NewManualTask(func(fr *T) Result[*LockGuard] {
		return Await(fr, mu.Lock())
	})
	holder.Start()
	guard := holder.Result().Value()

	cancelled := NewManualTask(func(fr *T) Result[*LockGuard] {
		return Await(fr, mu.Lock())
	})
	survivor := NewManualTask(func(fr *T) Result[*LockGuard] {
		return Await(fr, mu.Lock())
	})
	cancelled.Start()
	survivor.Start()

	RunAll(cancelled.Cancel())
	require.True(t, cancelled.Done())
	require.Equal(t, Cancelled, cancelled.Result().Code())

	guard.Unlock()
	require.True(t, survivor.Done())
	require.True(t, survivor.Result().Succeeded())
}
