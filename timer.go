package asyncore

import (
	"container/heap"
	"time"
)

// timerEntry is one pending deadline, grounded on loop.go's timer/timerHeap
// shape.
type timerEntry struct {
	when    time.Time
	seq     uint64
	wake    Runnable
	index   int
	fired   bool
	removed bool
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// TimerService is a monotonic priority queue of deadlines, grounded on
// loop.go's timerHeap (container/heap). Entries fire in deadline order; a
// still-pending entry may be removed before it fires (cancellation), unlike
// [DeferService].
type TimerService struct {
	clock    Clock
	heap     timerHeap
	seq      uint64
	capacity int
}

// NewTimerService constructs a TimerService backed by clock. capacity <= 0
// means unbounded (the service never reports Exhausted from scheduling).
func NewTimerService(clock Clock, capacity int) *TimerService {
	return &TimerService{clock: clock, capacity: capacity}
}

// schedule registers wake to run when clock.Now() reaches now+d, returning
// the entry (for later removal) or nil if the service is at capacity.
func (s *TimerService) schedule(d time.Duration, wake Runnable) *timerEntry {
	if s.capacity > 0 && len(s.heap) >= s.capacity {
		return nil
	}
	e := &timerEntry{when: s.clock.Now().Add(d), wake: wake, seq: s.seq}
	s.seq++
	heap.Push(&s.heap, e)
	return e
}

// remove cancels a still-pending entry, returning false if it already fired
// or was already removed.
func (s *TimerService) remove(e *timerEntry) bool {
	if e == nil || e.fired || e.removed || e.index < 0 {
		return false
	}
	heap.Remove(&s.heap, e.index)
	e.removed = true
	return true
}

// Tick fires every entry whose deadline has passed, in deadline (then
// insertion) order, driving each entry's full symmetric-transfer chain
// before moving to the next. Returns the number of entries fired.
func (s *TimerService) Tick() int {
	now := s.clock.Now()
	n := 0
	for s.heap.Len() > 0 {
		e := s.heap[0]
		if e.when.After(now) {
			break
		}
		heap.Pop(&s.heap)
		e.fired = true
		n++
		RunAll(e.wake)
	}
	return n
}

// NextDeadline reports the next pending deadline, if any.
func (s *TimerService) NextDeadline() (time.Time, bool) {
	if s.heap.Len() == 0 {
		return time.Time{}, false
	}
	return s.heap[0].when, true
}

// Len reports the number of entries currently pending.
func (s *TimerService) Len() int { return s.heap.Len() }

// waitAwaitable implements Wait's Awaitable[Unit] contract.
type waitAwaitable struct {
	svc    *TimerService
	d      time.Duration
	entry  *timerEntry
	slot   CancellationSlot
	wake   Runnable
	result Result[Unit]
	ready  bool
}

// Wait returns an awaitable that completes successfully after d elapses on
// rt's clock, or with Err(Cancelled) if cancelled first, or with
// Err(Exhausted) if rt's timer service is at capacity. A non-positive d
// completes immediately without ever touching the timer queue, matching
// spec.md §4.4's zero-duration fast path.
func Wait(rt *Runtime, d time.Duration) Awaitable[Unit] {
	return &waitAwaitable{svc: rt.timers, d: d}
}

// IsReady implements Awaitable.
func (w *waitAwaitable) IsReady() bool { return w.d <= 0 || w.ready }

// SetCancellationSlot implements cancellableAwaitable.
func (w *waitAwaitable) SetCancellationSlot(slot CancellationSlot) { w.slot = slot }

// Suspend implements Awaitable.
func (w *waitAwaitable) Suspend(wake Runnable) {
	w.wake = wake
	w.entry = w.svc.schedule(w.d, runnableFunc(w.fire))
	if w.entry == nil {
		w.ready = true
		w.result = Err[Unit](Exhausted)
		return
	}
	w.slot.InstallIfConnected(w)
}

func (w *waitAwaitable) fire() Runnable {
	w.ready = true
	w.result = Ok(Unit{})
	w.slot.ClearIfConnected()
	return w.wake
}

// Cancel implements CancellationHandler.
func (w *waitAwaitable) Cancel() Runnable {
	w.svc.remove(w.entry)
	w.ready = true
	w.result = Err[Unit](Cancelled)
	return w.wake
}

// Resume implements Awaitable.
func (w *waitAwaitable) Resume() Result[Unit] {
	if w.d <= 0 && !w.ready {
		return Ok(Unit{})
	}
	return w.result
}
