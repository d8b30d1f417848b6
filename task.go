package asyncore

// Task is a suspendable computation: a body function running on its own
// dedicated goroutine, exposed to the rest of the runtime as an
// [Awaitable][V]. A Task starts in the suspended state — nothing runs until
// it is awaited or spawned — and its body runs to completion across however
// many suspension points it hits, each one threading the same [T] handle.
//
// Grounded on the teacher's ChainedPromise state machine (promise.go), with
// the chaining/rejection-tracking apparatus dropped: a Task here is driven
// entirely by [Await]/[Spawn], not by .Then/.Catch continuations.
type Task[V any] struct {
	frame   *T
	body    func(fr *T) Result[V]
	result  Result[V]
	done    bool
	started bool
}

// NewTask constructs a Task that will run body when started (by [Spawn] or
// by being awaited). It does not begin executing immediately.
func NewTask[V any](body func(fr *T) Result[V]) *Task[V] {
	return &Task[V]{frame: newFrame(), body: body}
}

// IsReady implements Awaitable.
func (t *Task[V]) IsReady() bool { return t.done }

// Resume implements Awaitable; valid only once IsReady reports true.
func (t *Task[V]) Resume() Result[V] {
	assertf(t.done, "asyncore: Resume called on a Task that has not completed")
	return t.result
}

// SetCancellationSlot implements cancellableAwaitable: whatever frame is
// awaiting this Task installs its own downstream slot here, so cancelling
// the awaiter propagates into this Task's own frame.
func (t *Task[V]) SetCancellationSlot(slot CancellationSlot) {
	t.frame.upstreamSlot = slot
	slot.InstallIfConnected(t.frame)
}

// Suspend implements Awaitable: it records wake as this task's continuation,
// starts the task's goroutine if it hasn't already, and hands it exactly one
// quantum of execution. If the task finishes within that quantum, IsReady
// becomes true before Suspend returns and Suspend never calls wake itself —
// the caller (Await) re-checks IsReady and fetches Resume() directly without
// ever touching wake, avoiding the self-deadlock that would follow from a
// frame trying to step itself.
func (t *Task[V]) Suspend(wake Runnable) {
	t.frame.continuation = wake
	if !t.started {
		t.started = true
		go t.run()
	}
	t.frame.step()
}

// run is the task's dedicated goroutine. It blocks until it is first
// stepped, executes the body (or reports Cancelled immediately if the frame
// was marked cancelled before ever starting), then hands control back to
// whoever is awaiting it.
func (t *Task[V]) run() {
	<-t.frame.resumeCh

	var res Result[V]
	if t.frame.cancelled {
		res = Err[V](Cancelled)
	} else {
		res = t.body(t.frame)
	}

	t.result = res
	t.done = true
	t.frame.upstreamSlot.ClearIfConnected()
	t.frame.pendingNext = t.frame.continuation
	t.frame.continuation = nil
	t.frame.doneCh <- struct{}{}
}

// start begins the task's goroutine without blocking for it to run, used by
// [Spawn] where nothing is awaiting the task's completion synchronously —
// the first step is instead driven by a Runnable posted to the executor.
func (t *Task[V]) start(wake Runnable) Runnable {
	t.frame.continuation = wake
	if !t.started {
		t.started = true
		go t.run()
	}
	return runnableFunc(t.frame.step)
}
