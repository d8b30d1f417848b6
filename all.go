package asyncore

// All returns an awaitable that completes once every task in tasks has
// finished (successfully, with an error, or cancelled), yielding their
// Results in the same order. Unlike the teacher's promise.go All, which
// short-circuits on the first rejection, this All always waits for every
// child to actually finish before settling — spec.md §4.6's correction to
// JS-style combinator semantics, since a Task here is a live goroutine that
// must be drained, not an independently-settling promise that can simply be
// abandoned.
//
// Go has no variadic generics, so unlike a tuple-typed All(a, b, c) this
// operates over a homogeneous []*Task[V] — an idiomatic-Go adaptation in the
// manner of golang.org/x/sync/errgroup's slice-of-homogeneous-work shape,
// not a literal teacher pattern (see DESIGN.md).
func All[V any](tasks []*Task[V]) Awaitable[[]Result[V]] {
	return &allAwaitable[V]{tasks: tasks}
}

type allAwaitable[V any] struct {
	tasks []*Task[V]
	slot  CancellationSlot
}

// IsReady implements Awaitable.
func (a *allAwaitable[V]) IsReady() bool {
	for _, t := range a.tasks {
		if !t.IsReady() {
			return false
		}
	}
	return true
}

// SetCancellationSlot implements cancellableAwaitable: cancelling the
// awaiter of an All cancels every still-running child.
func (a *allAwaitable[V]) SetCancellationSlot(slot CancellationSlot) { a.slot = slot }

// Suspend implements Awaitable. All is the sole awaiter of each child task it
// owns, so it drives each not-yet-finished child directly through Task's own
// Suspend, rather than going through the general-purpose [Await] helper.
func (a *allAwaitable[V]) Suspend(wake Runnable) {
	w := &allWaiter[V]{tasks: a.tasks, wake: wake}
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
				// t finished within that one quantum — Task.Suspend never
				// invokes its own wake in that case (see its doc comment),
				// so arrive must be driven by hand or pending never reaches
				// zero for a mix of synchronous and still-running children.
				w.arrive()
			}
		}
	}
}

// Resume implements Awaitable.
func (a *allAwaitable[V]) Resume() Result[[]Result[V]] {
	out := make([]Result[V], len(a.tasks))
	for i, t := range a.tasks {
		out[i] = t.Resume()
	}
	return Ok(out)
}

type allWaiter[V any] struct {
	tasks   []*Task[V]
	wake    Runnable
	pending int
}

func (w *allWaiter[V]) arrive() Runnable {
	w.pending--
	if w.pending == 0 {
		return w.wake
	}
	return nil
}

// Cancel implements CancellationHandler: propagate cancellation into every
// still-running child immediately. The parent only actually settles once
// arrive has observed every child finish, including the ones cancelled here.
func (w *allWaiter[V]) Cancel() Runnable {
	for _, t := range w.tasks {
		if !t.IsReady() {
			RunAll(t.frame.Cancel())
		}
	}
	return nil
}
