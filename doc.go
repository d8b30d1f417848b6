// Package asyncore provides a cooperative, single-threaded asynchronous
// execution runtime aimed at constrained environments (embedded-class and
// native alike). It is built from four layers:
//
//   - A task/continuation model: suspendable [Task] values that resume via a
//     small explicit continuation ([Runnable]).
//   - Structured cancellation: a one-slot signal/handler pair
//     ([CancellationSignal], [CancellationSlot], [CancellationHandler]) that
//     threads through nested awaitables and aborts them promptly.
//   - A combinator algebra: [All], [Any], and [DynamicScope] compose
//     cancellable operations while preserving structured concurrency — a
//     parent never completes before every child it started has finished.
//   - A service layer the core depends on: a cooperative [Executor] queue, a
//     monotonic [TimerService] priority queue, a [DeferService], a
//     [CronService], and synchronization primitives ([Event], [Mutex],
//     [Semaphore], [Channel]) built on the cancellation contract.
//
// # Execution model
//
// Exactly one goroutine ever calls [Runnable.Run], mutates a [Task] frame, or
// fires a [CancellationSignal] — the runtime performs no preemption and no
// multi-threaded execution of task bodies. Submitting work into the
// [Executor] ([Executor.Post]) is the one place multiple goroutines may call
// in concurrently (the equivalent of an interrupt service routine posting
// work for later, or a stream becoming ready); see [Runtime.RunUntilIdle].
//
// # Usage
//
//	rt := asyncore.NewRuntime()
//	asyncore.Spawn(rt, func(t *asyncore.T) asyncore.Result[asyncore.Unit] {
//	    if res := asyncore.Await(t, asyncore.Wait(rt, 100*time.Millisecond)); res.Code() != asyncore.Success {
//	        return asyncore.Err[asyncore.Unit](res.Code())
//	    }
//	    fmt.Println("hello after 100ms")
//	    return asyncore.Ok(asyncore.Unit{})
//	})
//	rt.RunUntilIdle()
//	for !rt.Idle() {
//	    time.Sleep(time.Until(rt.WakeAt()))
//	    rt.RunUntilIdle()
//	}
//
// The per-task handle is [T]; a task body receives one and threads it through
// every [Await] call it makes. [T] is deliberately not named "Frame" or
// "Context" — it is the task's own continuation-carrying identity, not a
// piece of ambient plumbing.
//
// # Error handling
//
// There is no unwind/exception mechanism. Every asynchronous operation
// reports completion through a [Result], whose [ErrorCode] is one of
// [Success], [Cancelled], [OutOfMemory], [Exhausted], or [Unknown]. Results
// are built with [Ok] and [Err] — named to avoid colliding with the
// [Success]/[Cancelled]/... ErrorCode constants themselves. See errors.go for
// the cause-chain helpers ([RunError], [AggregateError]) used for Go interop
// ([errors.Is]/[errors.As]).
package asyncore
