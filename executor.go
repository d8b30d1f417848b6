package asyncore

import "sync"

// Executor is the runtime's ready queue: a FIFO of [Runnable] values driven
// to completion, in order, by a single logical caller. Grounded on loop.go's
// tick() swap-drain-reappend pattern and on ingress.go's ChunkedIngress, but
// simplified to a mutex-guarded slice pair rather than a chunked linked list
// with sync.Pool-backed chunk reuse — this runtime targets constrained,
// single-consumer correctness, not maximum multi-producer throughput (see
// DESIGN.md).
//
// Post is the one method safe to call concurrently from any goroutine — the
// idiomatic-Go rendition of spec.md §2/§6's "ISR context may submit work".
// Tick must only ever be called by the single goroutine driving the
// runtime.
type Executor struct {
	mu     sync.Mutex
	active []Runnable
	spare  []Runnable
}

// NewExecutor constructs an empty Executor.
func NewExecutor() *Executor {
	return &Executor{active: make([]Runnable, 0, 16)}
}

// Post enqueues r to run on a future Tick. A nil r is ignored.
func (e *Executor) Post(r Runnable) {
	if r == nil {
		return
	}
	e.mu.Lock()
	e.active = append(e.active, r)
	e.mu.Unlock()
}

// Pending reports how many Runnables are queued for the next Tick.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// Tick drains everything queued as of this call and runs each to the end of
// its symmetric-transfer chain, in FIFO order, returning how many ran. Work
// posted during Tick — including by the Runnables it runs — is deferred to
// the next Tick, so Tick never holds the queue's mutex while executing
// arbitrary task/cancellation code.
func (e *Executor) Tick() int {
	e.mu.Lock()
	batch := e.active
	if e.spare == nil {
		e.active = make([]Runnable, 0, cap(batch))
	} else {
		e.active = e.spare[:0]
	}
	e.spare = nil
	e.mu.Unlock()

	for _, r := range batch {
		RunAll(r)
	}

	e.mu.Lock()
	e.spare = batch[:0]
	e.mu.Unlock()

	return len(batch)
}
