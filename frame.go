package asyncore

// T is a task's own continuation-carrying handle: every [Task] body receives
// one and threads it through each [Await] call. It is the Go rendition of
// spec.md §4.3's task frame.
//
// Internally a T is driven by a dedicated goroutine that runs the task body;
// that goroutine is parked on resumeCh whenever the task is not actively
// executing, and a driver (the executor, or a parent task stepping its
// child) hands it exactly one quantum of execution by sending on resumeCh
// and then waiting on doneCh until the task either suspends again or
// finishes outright. At most one goroutine ever executes a given T's body at
// a time, and the T itself is only ever touched by that one goroutine plus
// whichever single driver goroutine is currently stepping it — never both at
// once — so no further synchronization is needed on its fields.
type T struct {
	resumeCh chan struct{}
	doneCh   chan struct{}

	// upstreamSlot is the slot (on whoever is awaiting this task) into which
	// this frame installed itself as the CancellationHandler.
	upstreamSlot CancellationSlot

	// downstream is this task's own signal, whose slot is handed to whatever
	// awaitable the task is currently suspended in, so external cancellation
	// of this task propagates downward into it.
	downstream CancellationSignal

	cancelled   bool
	ignoreDepth int

	// continuation is what to run once this frame finishes; pendingNext is
	// how the frame hands that continuation back to whoever last stepped it.
	continuation Runnable
	pendingNext  Runnable
}

func newFrame() *T {
	return &T{
		resumeCh: make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// step hands the frame's goroutine one quantum of execution and blocks until
// it suspends again or finishes, returning the tail-call Runnable to chain
// into (non-nil only if the frame just finished for good). step must only
// ever be called by a goroutine other than the frame's own — the executor
// driving a top-level task, or a parent task's goroutine awaiting a child.
func (fr *T) step() Runnable {
	fr.resumeCh <- struct{}{}
	<-fr.doneCh
	next := fr.pendingNext
	fr.pendingNext = nil
	return next
}

// Cancelled reports whether this frame has been marked cancelled by its
// upstream signal firing. A task body may check this between awaits to
// short-circuit further work, though most bodies simply rely on every
// subsequent Await returning Err(Cancelled).
func (fr *T) Cancelled() bool { return fr.cancelled }

// Cancel implements CancellationHandler — it is installed as the handler on
// whichever signal is awaiting this frame. Firing it marks the frame
// cancelled and propagates cancellation downward into whatever the frame is
// currently suspended in, exactly as spec.md §4.2 describes. Inside an
// [T.IgnoreCancellation] scope it only marks the frame cancelled; the await
// in progress is left to complete normally.
func (fr *T) Cancel() Runnable {
	fr.cancelled = true
	if fr.ignoreDepth > 0 {
		return nil
	}
	return fr.downstream.Emit()
}

// IgnoreCancellation runs fn with this frame's upstream handler temporarily
// detached, so any Await performed inside fn completes without being cut
// short by the external signal that may fire while fn runs. This is the Go
// rendition of spec.md §4.3's cancellation-masking scope, used by cleanup
// code that must run to completion even after the surrounding task has been
// cancelled.
func (fr *T) IgnoreCancellation(fn func()) {
	saved := fr.upstreamSlot
	saved.ClearIfConnected()
	fr.ignoreDepth++
	defer func() {
		fr.ignoreDepth--
		if fr.ignoreDepth == 0 && saved.IsConnected() && !fr.cancelled {
			saved.InstallIfConnected(fr)
		}
	}()
	fn()
}

// Await suspends the current task frame on awaitable a, returning a's result
// once it settles. If fr has already been marked cancelled, Await returns
// Err(Cancelled) immediately without ever touching a — a cancelled frame
// never starts a new operation, matching spec.md §4.3's "every subsequent
// await on a cancelled frame fails fast" invariant.
//
// Await must only be called from the goroutine currently running fr's own
// task body.
func Await[V any](fr *T, a Awaitable[V]) Result[V] {
	if fr.cancelled {
		return Err[V](Cancelled)
	}

	if ca, ok := any(a).(cancellableAwaitable); ok {
		ca.SetCancellationSlot(fr.downstream.Slot())
	}

	if a.IsReady() {
		return a.Resume()
	}

	wake := runnableFunc(fr.step)
	a.Suspend(wake)

	if a.IsReady() {
		// a settled synchronously as a side effect of Suspend (e.g. a child
		// Task that ran to completion without ever truly parking) — fr never
		// actually suspended, so there is nothing to hand back to a driver.
		fr.downstream.Slot().ClearIfConnected()
		return a.Resume()
	}

	// Genuinely parked: tell whoever is currently stepping fr that we've
	// suspended, then block until wake is eventually run by some other
	// driver and we're handed another quantum.
	fr.pendingNext = nil
	fr.doneCh <- struct{}{}
	<-fr.resumeCh

	fr.downstream.Slot().ClearIfConnected()
	return a.Resume()
}
