package asyncore

// InterruptMode selects which edge (or level change) of an interrupt line a
// handler is registered for.
type InterruptMode int

const (
	// Change fires on any transition of the line.
	Change InterruptMode = iota
	// Rising fires on a low-to-high transition.
	Rising
	// Falling fires on a high-to-low transition.
	Falling
)

// InterruptLine is the external-collaborator contract for a hardware
// interrupt line (spec.md §6, "specified only" — no concrete driver ships
// with this module). AttachInterrupt registers fn to run, via rt.Post (never
// directly on whatever goroutine raises the interrupt), whenever the line
// transitions in a way matching mode; DetachInterrupt unregisters it.
type InterruptLine interface {
	AttachInterrupt(mode InterruptMode, fn func()) (handle int)
	DetachInterrupt(handle int)
}

// Harness is an in-memory InterruptLine test double: RaiseInterrupt
// synthesizes a hardware event exactly as spec.md §6 describes ("the test
// harness synthesizes events via raiseInterrupt(line, mode)"), posting every
// matching handler's callback onto the bound Runtime's executor rather than
// running it inline, so handlers observe the same single-threaded,
// cooperative execution guarantee as any other task.
type Harness struct {
	rt       *Runtime
	handlers map[int]*interruptHandler
	next     int
}

type interruptHandler struct {
	mode InterruptMode
	fn   func()
}

// NewHarness constructs an interrupt test harness posting onto rt.
func NewHarness(rt *Runtime) *Harness {
	return &Harness{rt: rt, handlers: make(map[int]*interruptHandler)}
}

// AttachInterrupt implements InterruptLine.
func (h *Harness) AttachInterrupt(mode InterruptMode, fn func()) int {
	h.next++
	handle := h.next
	h.handlers[handle] = &interruptHandler{mode: mode, fn: fn}
	return handle
}

// DetachInterrupt implements InterruptLine.
func (h *Harness) DetachInterrupt(handle int) { delete(h.handlers, handle) }

// RaiseInterrupt synthesizes a hardware event of the given mode, posting
// every handler registered for that mode (or for Change, which matches any
// mode) onto the runtime's executor. Safe to call from any goroutine, like
// the real ISR-to-volatile-flag path it stands in for.
func (h *Harness) RaiseInterrupt(mode InterruptMode) {
	for _, handler := range h.handlers {
		handler := handler
		if handler.mode != mode && handler.mode != Change {
			continue
		}
		h.rt.Post(runnableFunc(func() Runnable {
			handler.fn()
			return nil
		}))
	}
}
