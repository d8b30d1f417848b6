package asyncore

// Semaphore is a counting generalization of [Mutex]: up to N permits may be
// held concurrently. Grounded on mutex.go's FIFO waiter/hand-off shape.
type Semaphore struct {
	permits int
	waiters []*semWaiter
}

// NewSemaphore constructs a Semaphore starting with initial permits
// available.
func NewSemaphore(initial int) *Semaphore {
	assertf(initial >= 0, "asyncore: NewSemaphore requires a non-negative initial count")
	return &Semaphore{permits: initial}
}

// Acquire returns an awaitable that resolves once a permit is available.
func (s *Semaphore) Acquire() Awaitable[Unit] { return &semAwaitable{sem: s} }

// Available reports the number of permits currently free (0 while any
// waiter is queued).
func (s *Semaphore) Available() int { return s.permits }

type semWaiter struct {
	wake      Runnable
	slot      CancellationSlot
	cancelled bool
}

// Cancel implements CancellationHandler.
func (w *semWaiter) Cancel() Runnable {
	w.cancelled = true
	return w.wake
}

type semAwaitable struct {
	sem  *Semaphore
	w    *semWaiter
	slot CancellationSlot
}

// IsReady implements Awaitable.
func (a *semAwaitable) IsReady() bool { return a.sem.permits > 0 }

// SetCancellationSlot implements cancellableAwaitable.
func (a *semAwaitable) SetCancellationSlot(slot CancellationSlot) { a.slot = slot }

// Suspend implements Awaitable.
func (a *semAwaitable) Suspend(wake Runnable) {
	w := &semWaiter{wake: wake, slot: a.slot}
	a.w = w
	a.sem.waiters = append(a.sem.waiters, w)
	a.slot.InstallIfConnected(w)
}

// Resume implements Awaitable.
func (a *semAwaitable) Resume() Result[Unit] {
	if a.w != nil {
		if a.w.cancelled {
			return Err[Unit](Cancelled)
		}
		return Ok(Unit{})
	}
	a.sem.permits--
	return Ok(Unit{})
}

// Release returns one permit, handing it directly to the oldest live
// waiter if one exists rather than incrementing the available count.
func (s *Semaphore) Release() {
	for len(s.waiters) > 0 {
		w := s.waiters[0]
		s.waiters = s.waiters[1:]
		if w.cancelled {
			continue
		}
		w.slot.ClearIfConnected()
		RunAll(w.wake)
		return
	}
	s.permits++
}
