package asyncore

import "sync/atomic"

// RuntimeState is the lifecycle state of a [Runtime], kept in shape from the
// teacher's LoopState/FastState CAS machine but trimmed: this runtime has
// exactly one executor goroutine (not many racing pollers), so a single
// atomic word with CAS transitions is all the concurrency the state machine
// needs — there's no cache-line padding or multi-field FastState to port.
//
//	StateIdle → StateRunning     [Runtime.RunUntilIdle enters]
//	StateRunning → StateIdle     [Runtime.RunUntilIdle returns]
//	StateRunning → StateStopping [Runtime.Stop requested mid-run]
//	StateIdle → StateStopped     [Runtime.Stop requested while idle]
//	StateStopping → StateStopped [RunUntilIdle observes the stop and returns]
type RuntimeState uint32

const (
	// StateIdle is the initial state: constructed, nothing running.
	StateIdle RuntimeState = iota
	// StateRunning indicates the runtime's RunUntilIdle loop is actively
	// ticking.
	StateRunning
	// StateStopping indicates Stop has been called but the current tick
	// hasn't yet observed it.
	StateStopping
	// StateStopped is terminal: the runtime will not run again.
	StateStopped
)

// String implements fmt.Stringer.
func (s RuntimeState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// runtimeStateVar is an atomically-updated RuntimeState, a single word
// rather than the teacher's cache-line-padded multi-field FastState, since
// only the one executor goroutine plus occasional Stop() callers touch it.
type runtimeStateVar struct {
	v atomic.Uint32
}

func (s *runtimeStateVar) load() RuntimeState { return RuntimeState(s.v.Load()) }

func (s *runtimeStateVar) store(v RuntimeState) { s.v.Store(uint32(v)) }

// compareAndSwap performs a single CAS transition, for temporary states
// (Running, Stopping) exactly the way the teacher's CAS-based transitions
// work for StateRunning/StateSleeping.
func (s *runtimeStateVar) compareAndSwap(old, new RuntimeState) bool {
	return s.v.CompareAndSwap(uint32(old), uint32(new))
}
