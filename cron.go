package asyncore

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// CronService is a self-rescheduling repeating timer: each scheduled entry
// reschedules itself on TimerService after firing, until stopped, grounded
// on js.go's SetInterval/intervalState — but removing its pending entry
// through TimerService's own remove (spec.md §4.4/§4.7's "Remove returns
// bool") rather than the teacher's opaque numeric id map.
type CronService struct {
	timers *TimerService
}

// NewCronService constructs a CronService driven by the given TimerService.
func NewCronService(timers *TimerService) *CronService {
	return &CronService{timers: timers}
}

// cronHandle lets callers stop a repeating entry from outside the callback,
// and lets the callback stop itself (self-removal) before returning.
type cronHandle struct {
	svc     *CronService
	period  time.Duration
	fn      func() bool
	entry   *timerEntry
	stopped bool
}

// Schedule registers fn to run every period, starting after the first
// period elapses. fn returns false to stop the repetition (self-removal);
// returning true reschedules for another period. Schedule returns a handle
// whose Stop also removes the entry, and reports Err(Exhausted) instead of
// scheduling if the backing TimerService is at capacity.
func (s *CronService) Schedule(period time.Duration, fn func() bool) Result[*CronHandle] {
	h := &cronHandle{svc: s, period: period, fn: fn}
	if !h.scheduleNext() {
		return Err[*CronHandle](Exhausted)
	}
	return Ok(&CronHandle{h: h})
}

func (h *cronHandle) scheduleNext() bool {
	e := h.svc.timers.schedule(h.period, runnableFunc(h.fire))
	if e == nil {
		return false
	}
	h.entry = e
	return true
}

func (h *cronHandle) fire() Runnable {
	if h.stopped {
		return nil
	}
	keepGoing := h.fn()
	if keepGoing && !h.stopped {
		h.scheduleNext()
	} else {
		h.stopped = true
	}
	return nil
}

func (h *cronHandle) stop() bool {
	if h.stopped {
		return false
	}
	h.stopped = true
	return h.svc.timers.remove(h.entry)
}

// CronHandle identifies one scheduled repeating entry.
type CronHandle struct{ h *cronHandle }

// Stop cancels the repeating entry, returning false if it had already
// stopped (either self-removed, or previously Stop'd).
func (c *CronHandle) Stop() bool { return c.h.stop() }

// CronGovernor wraps [CronService.Schedule] with admission control: a
// caller-supplied category shares a sliding-rate budget with every other
// entry scheduled under the same category, so one noisy category cannot
// starve another sharing the same cron queue. This is a (NEW) domain-stack
// addition with no teacher analogue — js.go's SetInterval has no notion of
// admission control — grounded on github.com/joeycumines/go-catrate, the
// pack's only rate-limiting library.
type CronGovernor struct {
	cron    *CronService
	limiter *catrate.Limiter
}

// NewCronGovernor constructs a CronGovernor scheduling through cron, with
// per-category budgets described by rates (mapping a sliding window to the
// maximum number of admitted schedule calls within it), exactly as accepted
// by catrate.NewLimiter.
func NewCronGovernor(cron *CronService, rates map[time.Duration]int) *CronGovernor {
	return &CronGovernor{cron: cron, limiter: catrate.NewLimiter(rates)}
}

// Schedule admits fn under category if the category's sliding-rate budget
// allows it, then schedules it on the underlying CronService exactly like
// CronService.Schedule. If the category is over budget, Schedule returns
// Err(Exhausted) without ever touching the timer queue — a second,
// independent source of Exhausted alongside a literally-full timer queue.
func (g *CronGovernor) Schedule(category any, period time.Duration, fn func() bool) Result[*CronHandle] {
	if _, ok := g.limiter.Allow(category); !ok {
		return Err[*CronHandle](Exhausted)
	}
	return g.cron.Schedule(period, fn)
}
