package asyncore

import "time"

// Runtime wires together the executor and the service layer: the timer and
// defer queues, the cron service and its rate governor, and the type-keyed
// service registry. Grounded on loop.go's Loop struct and its New
// constructor, trimmed to a single-goroutine cooperative model (see
// DESIGN.md) rather than the teacher's OS-poller-backed "maximum
// performance" design.
type Runtime struct {
	exec           *Executor
	timers         *TimerService
	defers         *DeferService
	cron           *CronService
	governor       *CronGovernor
	clock          Clock
	logger         *Logger
	state          runtimeStateVar
	reg            *registry
	allocator      FrameAllocator
	channelDefault int
}

// NewRuntime constructs a Runtime ready to Spawn tasks onto.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	cfg := resolveOptions(opts)

	rt := &Runtime{
		exec:           NewExecutor(),
		timers:         NewTimerService(cfg.clock, cfg.timerCapacity),
		defers:         NewDeferService(cfg.clock),
		clock:          cfg.clock,
		logger:         cfg.logger,
		reg:            newRegistry(),
		allocator:      cfg.allocator,
		channelDefault: cfg.channelDefault,
	}
	rt.cron = NewCronService(rt.timers)
	rt.governor = NewCronGovernor(rt.cron, cfg.cronGovernorRate)

	registerService(rt.reg, rt.exec)
	registerService(rt.reg, rt.timers)
	registerService(rt.reg, rt.defers)
	registerService(rt.reg, rt.cron)
	registerService(rt.reg, rt.governor)

	rt.logger.Debug().Log("runtime constructed")
	return rt
}

// Logger returns the runtime's structured logger.
func (rt *Runtime) Logger() *Logger { return rt.logger }

// Clock returns the runtime's time source.
func (rt *Runtime) Clock() Clock { return rt.clock }

// Executor returns the runtime's ready queue, for callers that want to Post
// a Runnable directly rather than going through Spawn.
func (rt *Runtime) Executor() *Executor { return rt.exec }

// CronGovernor returns the runtime's default rate-governed cron scheduler.
func (rt *Runtime) CronGovernor() *CronGovernor { return rt.governor }

// Cron returns the runtime's ungoverned cron service, for callers that want
// to schedule repeating work without a rate budget.
func (rt *Runtime) Cron() *CronService { return rt.cron }

// Idle reports whether the runtime has no pending ready work, timers, or
// deferred callbacks — the condition [Runtime.RunUntilIdle] stops at.
func (rt *Runtime) Idle() bool {
	return rt.exec.Pending() == 0 && rt.timers.Len() == 0 && rt.defers.Len() == 0
}

// Tick runs one round: drains the ready queue, then fires any timer/defer
// entries whose deadlines have passed, running each woken continuation
// inline. Returns the total number of Runnables and timer/defer entries it
// drove.
func (rt *Runtime) Tick() int {
	n := rt.exec.Tick()
	n += rt.timers.Tick()
	n += rt.defers.Tick()
	return n
}

// RunUntilIdle repeatedly ticks the runtime until there is no more ready,
// timer, or defer work outstanding, or until a tick drives no work at all
// (for instance when only timers or defers that are not yet due remain); in
// the latter case it returns with that work still pending, without waiting
// for it. It does not itself advance rt.Clock();
// callers using a [FakeClock] must Advance it between ticks if they want
// time-based work to become due (see the FakeClock-driven tests for the
// idiom).
func (rt *Runtime) RunUntilIdle() {
	if !rt.state.compareAndSwap(StateIdle, StateRunning) {
		logAssertFailure(rt.logger, "asyncore: RunUntilIdle called while runtime is %s", rt.state.load())
		assertf(rt.state.load() == StateIdle, "asyncore: RunUntilIdle called while runtime is %s", rt.state.load())
	}
	for rt.state.load() == StateRunning && !rt.Idle() {
		if rt.Tick() == 0 {
			break
		}
	}
	if rt.state.compareAndSwap(StateStopping, StateStopped) {
		return
	}
	rt.state.store(StateIdle)
}

// Stop requests that a concurrently-running RunUntilIdle return at the next
// tick boundary, leaving the runtime in StateStopped rather than draining the
// remaining ready/timer/defer queues. Safe to call from any goroutine — the
// same producer-side-only concurrency exception as Post. A Stop called while
// the runtime is already Idle transitions it straight to StateStopped.
func (rt *Runtime) Stop() {
	for {
		switch rt.state.load() {
		case StateRunning:
			if rt.state.compareAndSwap(StateRunning, StateStopping) {
				return
			}
		case StateIdle:
			if rt.state.compareAndSwap(StateIdle, StateStopped) {
				return
			}
		default:
			return
		}
	}
}

// Post enqueues r directly onto the runtime's executor. Safe to call from
// any goroutine.
func (rt *Runtime) Post(r Runnable) { rt.exec.Post(r) }

// WakeAt reports the next time real work becomes due: the current time if
// the ready queue is already non-empty, the earliest pending timer/defer
// deadline otherwise, or timeNever if the runtime has nothing outstanding at
// all. Grounded on spec.md §4.7's `wakeAt()` contract ("returns now if the
// queue is non-empty else ∞") — useful for a caller driving ticks from a
// real wall-clock sleep rather than busy-looping in RunUntilIdle.
func (rt *Runtime) WakeAt() time.Time {
	if rt.exec.Pending() > 0 {
		return rt.clock.Now()
	}
	best := timeNever
	if d, ok := rt.timers.NextDeadline(); ok && d.Before(best) {
		best = d
	}
	if d, ok := rt.defers.NextDeadline(); ok && d.Before(best) {
		best = d
	}
	return best
}
