package asyncore

// Any returns an awaitable with the same Result layout as [All] — a
// positional slice of every child's settled Result — but as soon as the
// first child completes (successfully, with an error, or externally
// cancelled), Any cancels every other still-running child. The awaiter still
// resumes only once every child has actually finished, matching spec.md
// §4.6: "the first child to complete triggers cancellation of the rest; the
// awaiter resumes only after all children have finished."
//
// Grounded on promise.go's Race/Any, restructured per the same correction
// as [All]: children are live Task goroutines that must be drained, not
// promises that settle independently of whether anyone is still watching.
func Any[V any](tasks []*Task[V]) Awaitable[[]Result[V]] {
	return &anyAwaitable[V]{tasks: tasks}
}

type anyAwaitable[V any] struct {
	tasks []*Task[V]
	slot  CancellationSlot
}

// IsReady implements Awaitable.
func (a *anyAwaitable[V]) IsReady() bool {
	for _, t := range a.tasks {
		if !t.IsReady() {
			return false
		}
	}
	return true
}

// SetCancellationSlot implements cancellableAwaitable.
func (a *anyAwaitable[V]) SetCancellationSlot(slot CancellationSlot) { a.slot = slot }

// Suspend implements Awaitable. Any, like All, is the sole awaiter of each
// child it owns and drives them directly through Task's own Suspend.
func (a *anyAwaitable[V]) Suspend(wake Runnable) {
	w := &anyWaiter[V]{tasks: a.tasks, wake: wake}
	for _, t := range a.tasks {
		if !t.IsReady() {
			w.pending++
		}
	}
	if w.pending == 0 {
		return
	}
	a.slot.InstallIfConnected(w)
	for _, t := range a.tasks {
		if !t.IsReady() {
			t.SetCancellationSlot(CancellationSlot{})
			t.Suspend(runnableFunc(w.arrive))
			if t.IsReady() {
				// Same synchronous-completion hazard as All.Suspend: must
				// drive arrive by hand since Task.Suspend won't.
				w.arrive()
			}
		}
	}
}

// Resume implements Awaitable.
func (a *anyAwaitable[V]) Resume() Result[[]Result[V]] {
	out := make([]Result[V], len(a.tasks))
	for i, t := range a.tasks {
		out[i] = t.Resume()
	}
	return Ok(out)
}

type anyWaiter[V any] struct {
	tasks     []*Task[V]
	wake      Runnable
	pending   int
	triggered bool
}

// arrive runs once per child completion. The first arrival cancels every
// other still-running child (the "race" part of Any); every arrival,
// including the ones caused by that cancellation, still has to drain through
// here before the parent settles.
func (w *anyWaiter[V]) arrive() Runnable {
	if !w.triggered {
		w.triggered = true
		for _, t := range w.tasks {
			if !t.IsReady() {
				RunAll(t.frame.Cancel())
			}
		}
	}
	w.pending--
	if w.pending == 0 {
		return w.wake
	}
	return nil
}

// Cancel implements CancellationHandler: external cancellation of the Any
// itself behaves exactly like a first-child completion racing in — whichever
// fires first wins, the other is a no-op, per spec.md §4.6.
func (w *anyWaiter[V]) Cancel() Runnable {
	if w.triggered {
		return nil
	}
	w.triggered = true
	for _, t := range w.tasks {
		if !t.IsReady() {
			RunAll(t.frame.Cancel())
		}
	}
	return nil
}
