package asyncore

import (
	"container/heap"
	"time"
)

// deferEntry is one pending deferred callback. DeferService reuses
// TimerService's ordering shape (deadline, then insertion order) but never
// supports removal — spec.md §4.4 describes defer as "simpler than wait: no
// timer-entry removal", since deferred work is meant to always run, not be
// cancelled.
type deferEntry struct {
	when time.Time
	seq  uint64
	run  Runnable
}

type deferHeap []*deferEntry

func (h deferHeap) Len() int { return len(h) }
func (h deferHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}
func (h deferHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *deferHeap) Push(x any)   { *h = append(*h, x.(*deferEntry)) }
func (h *deferHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// DeferService schedules Runnables to run once a deadline passes, with no
// support for removing an entry once scheduled.
type DeferService struct {
	clock Clock
	heap  deferHeap
	seq   uint64
}

// NewDeferService constructs a DeferService backed by clock.
func NewDeferService(clock Clock) *DeferService {
	return &DeferService{clock: clock}
}

// Schedule queues run to execute once d has elapsed.
func (s *DeferService) Schedule(d time.Duration, run Runnable) {
	e := &deferEntry{when: s.clock.Now().Add(d), seq: s.seq, run: run}
	s.seq++
	heap.Push(&s.heap, e)
}

// Tick runs every entry whose deadline has passed, in order, returning how
// many ran.
func (s *DeferService) Tick() int {
	now := s.clock.Now()
	n := 0
	for s.heap.Len() > 0 {
		e := s.heap[0]
		if e.when.After(now) {
			break
		}
		heap.Pop(&s.heap)
		n++
		RunAll(e.run)
	}
	return n
}

// Len reports the number of entries currently pending.
func (s *DeferService) Len() int { return s.heap.Len() }

// NextDeadline reports the next pending deadline, if any.
func (s *DeferService) NextDeadline() (time.Time, bool) {
	if s.heap.Len() == 0 {
		return time.Time{}, false
	}
	return s.heap[0].when, true
}

// Defer returns an awaitable that completes successfully once d has elapsed,
// with no way to cancel it early — the fire-and-forget counterpart to
// [Wait]. Awaiting it inside a cancelled frame still fails fast per Await's
// own contract; the distinction from Wait is that once scheduled, a Defer
// cannot be plucked back out of the queue.
func Defer(rt *Runtime, d time.Duration) Awaitable[Unit] {
	return &deferAwaitable{svc: rt.defers, d: d}
}

type deferAwaitable struct {
	svc    *DeferService
	d      time.Duration
	wake   Runnable
	ready  bool
	result Result[Unit]
}

func (a *deferAwaitable) IsReady() bool { return a.d <= 0 || a.ready }

func (a *deferAwaitable) Suspend(wake Runnable) {
	a.wake = wake
	a.svc.Schedule(a.d, runnableFunc(a.fire))
}

func (a *deferAwaitable) fire() Runnable {
	a.ready = true
	a.result = Ok(Unit{})
	return a.wake
}

func (a *deferAwaitable) Resume() Result[Unit] {
	if a.d <= 0 && !a.ready {
		return Ok(Unit{})
	}
	return a.result
}
