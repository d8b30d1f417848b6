package asyncore

// DynamicScope is a runtime-sized structured-concurrency scope: children can
// be added to it before or during Join, and Join suspends until every linked
// child has finished. Grounded on promise.go's AggregateError bookkeeping
// style, restructured to spec.md §4.6's DynamicScope contract (add/join/
// abandon) rather than a fixed all/any arity.
type DynamicScope struct {
	rt           *Runtime
	children     []*Task[Unit]
	joining      bool
	joined       bool
	activeWaiter *scopeJoinWaiter
}

// NewDynamicScope constructs an empty scope bound to rt. Children are not
// posted onto rt's executor: Join (or Add, once joining) steps each one
// directly through its first quantum.
func NewDynamicScope(rt *Runtime) *DynamicScope { return &DynamicScope{rt: rt} }

// Add links body into the scope as a new child task. If the scope is
// already joining, the child is started immediately (stepped synchronously
// through its first quantum); otherwise it waits, unstarted, until Join
// begins.
func (s *DynamicScope) Add(body func(fr *T) Result[Unit]) {
	assertf(!s.joined, "asyncore: DynamicScope.Add called after Join completed")
	task := NewTask(body)
	s.children = append(s.children, task)
	if s.joining {
		w := s.activeWaiter
		w.pending++
		task.SetCancellationSlot(CancellationSlot{})
		task.Suspend(runnableFunc(func() Runnable { return w.arrive() }))
		if task.IsReady() {
			// Unlike the loop inside scopeJoinAwaitable.Suspend, Add runs
			// independently of any in-progress Await on the joining
			// parent's own frame — if this was the last pending child,
			// arrive's wake must actually be driven here, or the parent
			// parked in Join would never be resumed.
			RunAll(w.arrive())
		}
	}
}

// Join returns a cancellable awaitable that starts every currently-linked
// child (any not already running), then suspends until every child —
// including ones added later, while still joining — has finished. External
// cancellation propagates to every still-running child; Join still only
// settles once they've all actually finished.
func (s *DynamicScope) Join() Awaitable[Unit] {
	assertf(!s.joining, "asyncore: DynamicScope.Join called more than once")
	return &scopeJoinAwaitable{scope: s}
}

type scopeJoinAwaitable struct {
	scope *DynamicScope
	slot  CancellationSlot
}

// IsReady implements Awaitable.
func (a *scopeJoinAwaitable) IsReady() bool {
	for _, t := range a.scope.children {
		if !t.IsReady() {
			return false
		}
	}
	return true
}

// SetCancellationSlot implements cancellableAwaitable.
func (a *scopeJoinAwaitable) SetCancellationSlot(slot CancellationSlot) { a.slot = slot }

// Suspend implements Awaitable: starts every not-yet-started child and any
// not-yet-finished child, tracking completions via a shared counter exactly
// like [All].
func (a *scopeJoinAwaitable) Suspend(wake Runnable) {
	s := a.scope
	s.joining = true

	w := &scopeJoinWaiter{scope: s, wake: wake}
	for _, t := range s.children {
		if !t.IsReady() {
			w.pending++
		}
	}
	s.activeWaiter = w
	if w.pending == 0 {
		s.joined = true
		return
	}
	a.slot.InstallIfConnected(w)
	for _, t := range s.children {
		if !t.IsReady() {
			t.SetCancellationSlot(CancellationSlot{})
			t.Suspend(runnableFunc(func() Runnable { return w.arrive() }))
			if t.IsReady() {
				// Same synchronous-completion hazard as All.Suspend: must
				// drive arrive by hand since Task.Suspend won't.
				w.arrive()
			}
		}
	}
}

// Resume implements Awaitable.
func (a *scopeJoinAwaitable) Resume() Result[Unit] {
	a.scope.joined = true
	return Ok(Unit{})
}

// Err reports nil if at least one child of the scope completed with
// Success, or an [AggregateError] collecting every child's failure code if
// all of them were cancelled or otherwise failed to reach Success — valid
// once Join has completed. The original's DynamicScope::Promise::return_value
// discards each child's value outright ("TODO: handle if needed"); Err is
// this runtime's version of handling it, via the same cause-chain interop
// [Any]'s callers get from [AggregateResults].
func (s *DynamicScope) Err() error {
	results := make([]Result[Unit], len(s.children))
	for i, t := range s.children {
		results[i] = t.Resume()
	}
	return AggregateResults(results)
}

// Close is the scope's destructor path (spec.md §4.6): every remaining
// unstarted child frame is simply dropped, without ever running its
// continuation. It is only safe to call before Join has ever been awaited —
// once Join starts, every linked child is running and must be joined or
// cancelled through it instead, never silently abandoned.
func (s *DynamicScope) Close() {
	assertf(!s.joining, "asyncore: DynamicScope.Close called after Join started")
	s.children = nil
	s.joined = true
}

type scopeJoinWaiter struct {
	scope   *DynamicScope
	wake    Runnable
	pending int
}

// arrive runs once per child completion, including children Add'ed while
// still joining — Add increments this same counter and wires the new child's
// completion into it through its own Suspend call.
func (w *scopeJoinWaiter) arrive() Runnable {
	w.pending--
	if w.pending == 0 {
		w.scope.joined = true
		return w.wake
	}
	return nil
}

// Cancel implements CancellationHandler: propagate cancellation into every
// still-running child; Join still only settles once every child (including
// the ones just cancelled) has actually finished.
func (w *scopeJoinWaiter) Cancel() Runnable {
	for _, t := range w.scope.children {
		if !t.IsReady() {
			RunAll(t.frame.Cancel())
		}
	}
	return nil
}
