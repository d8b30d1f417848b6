package asyncore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDynamicScope_JoinWaitsForPreaddedChildren(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()))
	scope := NewDynamicScope(rt)

	ev1, ev2 := NewEvent(), NewEvent()
	var ran1, ran2 bool
	scope.Add(func(fr *T) Result[Unit] {
		res := Await(fr, ev1.Wait())
		ran1 = res.Succeeded()
		return res
	})
	scope.Add(func(fr *T) Result[Unit] {
		res := Await(fr, ev2.Wait())
		ran2 = res.Succeeded()
		return res
	})

	joiner := NewManualTask(func(fr *T) Result[Unit] {
		return Await(fr, scope.Join())
	})
	joiner.Start()
	require.False(t, joiner.Done())

	ev1.Set()
	require.False(t, joiner.Done())
	ev2.Set()
	require.True(t, joiner.Done())
	require.True(t, joiner.Result().Succeeded())
	require.True(t, ran1)
	require.True(t, ran2)
}

func TestDynamicScope_AddDuringJoinIsCountedBeforeCompletion(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()))
	scope := NewDynamicScope(rt)

	ev1 := NewEvent()
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev1.Wait()) })

	joiner := NewManualTask(func(fr *T) Result[Unit] {
		return Await(fr, scope.Join())
	})
	joiner.Start()
	require.False(t, joiner.Done())

	// A second child, added after Join has already started, must still be
	// awaited before the joiner settles.
	ev2 := NewEvent()
	lateRan := false
	scope.Add(func(fr *T) Result[Unit] {
		res := Await(fr, ev2.Wait())
		lateRan = res.Succeeded()
		return res
	})

	ev1.Set()
	require.False(t, joiner.Done(), "the late-added child must still be pending")

	ev2.Set()
	require.True(t, joiner.Done())
	require.True(t, lateRan)
}

// TestDynamicScope_AddSynchronousChildDuringJoinStillCountsTowardCompletion
// exercises Add's own synchronous-completion path directly: a child Add'ed
// mid-Join that finishes within its very first quantum (no suspension at
// all) must still decrement the join's pending counter, not just the one
// actually suspended in scopeJoinAwaitable.Suspend's own loop.
func TestDynamicScope_AddSynchronousChildDuringJoinStillCountsTowardCompletion(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()))
	scope := NewDynamicScope(rt)

	ev := NewEvent()
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev.Wait()) })

	joiner := NewManualTask(func(fr *T) Result[Unit] {
		return Await(fr, scope.Join())
	})
	joiner.Start()
	require.False(t, joiner.Done())

	// This child never suspends at all — it must still be tracked.
	scope.Add(func(fr *T) Result[Unit] { return Ok(Unit{}) })
	require.False(t, joiner.Done(), "the still-pending first child must block the joiner")

	ev.Set()
	require.True(t, joiner.Done())
}

func TestDynamicScope_ExternalCancelPropagatesToChildren(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()))
	scope := NewDynamicScope(rt)

	ev1, ev2 := NewEvent(), NewEvent()
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev1.Wait()) })
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev2.Wait()) })

	joiner := NewManualTask(func(fr *T) Result[Unit] {
		return Await(fr, scope.Join())
	})
	joiner.Start()
	require.False(t, joiner.Done())

	RunAll(joiner.Cancel())
	require.True(t, joiner.Done())
}

func TestDynamicScope_CloseBeforeJoinAbandonsChildren(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()))
	scope := NewDynamicScope(rt)
	scope.Add(func(fr *T) Result[Unit] { return Ok(Unit{}) })

	require.NotPanics(t, scope.Close)
	require.Panics(t, func() { scope.Add(func(fr *T) Result[Unit] { return Ok(Unit{}) }) })
}

func TestDynamicScope_ErrIsNilWhenAnyChildSucceeds(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()))
	scope := NewDynamicScope(rt)

	ev1, ev2 := NewEvent(), NewEvent()
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev1.Wait()) })
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev2.Wait()) })

	joiner := NewManualTask(func(fr *T) Result[Unit] { return Await(fr, scope.Join()) })
	joiner.Start()

	// ev1 is set before the cancel, so its child succeeds; only ev2's child
	// is cancelled. At least one child succeeded, so Err must report nil.
	ev1.Set()
	RunAll(joiner.Cancel())
	require.True(t, joiner.Done())

	require.NoError(t, scope.Err())
}

func TestDynamicScope_ErrAggregatesEveryFailureWhenAllChildrenFail(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()))
	scope := NewDynamicScope(rt)

	ev1, ev2 := NewEvent(), NewEvent()
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev1.Wait()) })
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev2.Wait()) })

	joiner := NewManualTask(func(fr *T) Result[Unit] { return Await(fr, scope.Join()) })
	joiner.Start()
	require.False(t, joiner.Done())

	RunAll(joiner.Cancel())
	require.True(t, joiner.Done())

	err := scope.Err()
	require.Error(t, err)
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 2)
	require.ErrorIs(t, err, &RunError{Code: Cancelled})
}

func TestDynamicScope_CloseAfterJoinStartedAsserts(t *testing.T) {
	rt := NewRuntime(WithLogger(NewNoopLogger()))
	scope := NewDynamicScope(rt)
	ev := NewEvent()
	scope.Add(func(fr *T) Result[Unit] { return Await(fr, ev.Wait()) })

	joiner := NewManualTask(func(fr *T) Result[Unit] { return Await(fr, scope.Join()) })
	joiner.Start()

	require.Panics(t, scope.Close)
	ev.Set()
}
