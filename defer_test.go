package asyncore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefer_ZeroDurationCompletesImmediately(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	rt := NewRuntime(WithClock(clock), WithLogger(NewNoopLogger()))

	mt := NewManualTask(func(fr *T) Result[Unit] {
		return Await(fr, Defer(rt, 0))
	})
	mt.Start()
	require.True(t, mt.Done())
	require.True(t, mt.Result().Succeeded())
}

func TestDefer_FiresOnceDeadlineElapses(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	rt := NewRuntime(WithClock(clock), WithLogger(NewNoopLogger()))

	mt := NewManualTask(func(fr *T) Result[Unit] {
		return Await(fr, Defer(rt, 5*time.Millisecond))
	})
	mt.Start()
	require.False(t, mt.Done())
	require.Equal(t, 1, rt.defers.Len())

	clock.Advance(5 * time.Millisecond)
	rt.defers.Tick()
	require.True(t, mt.Done())
	require.True(t, mt.Result().Succeeded())
}

func TestDefer_RunsInDeadlineOrder(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	svc := NewDeferService(clock)

	var order []int
	svc.Schedule(20*time.Millisecond, runnableFunc(func() Runnable { order = append(order, 2); return nil }))
	svc.Schedule(10*time.Millisecond, runnableFunc(func() Runnable { order = append(order, 1); return nil }))

	clock.Advance(100 * time.Millisecond)
	n := svc.Tick()
	require.Equal(t, 2, n)
	require.Equal(t, []int{1, 2}, order)
}

func TestDefer_NextDeadlineReportsEarliestPending(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	svc := NewDeferService(clock)

	_, ok := svc.NextDeadline()
	require.False(t, ok)

	svc.Schedule(10*time.Millisecond, runnableFunc(func() Runnable { return nil }))
	d, ok := svc.NextDeadline()
	require.True(t, ok)
	require.Equal(t, clock.Now().Add(10*time.Millisecond), d)
}

func TestDefer_IgnoresExternalCancellation(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	rt := NewRuntime(WithClock(clock), WithLogger(NewNoopLogger()))

	mt := NewManualTask(func(fr *T) Result[Unit] {
		return Await(fr, Defer(rt, 5*time.Millisecond))
	})
	mt.Start()

	// Defer isn't a cancellableAwaitable, so an external cancel on the
	// awaiting frame has nothing installed to invoke — the deferred work
	// still runs to completion once its deadline elapses.
	RunAll(mt.Cancel())
	require.False(t, mt.Done())

	clock.Advance(5 * time.Millisecond)
	rt.defers.Tick()
	require.True(t, mt.Done())
	require.True(t, mt.Result().Succeeded())
}
