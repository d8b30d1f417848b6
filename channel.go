package asyncore

// Channel is a bounded MPMC channel: capacity 0 means pure rendezvous (a
// Send only completes once a Receive is waiting to take the value directly;
// neither side ever buffers), capacity > 0 means a send succeeds immediately
// while the ring buffer has room. Grounded on ingress.go's ring-buffer
// shape and longpoll/channel.go's backpressure-aware batch-receive pattern,
// simplified to single-goroutine, non-atomic indices — only the executor
// goroutine ever touches a Channel's fields.
type Channel[V any] struct {
	buf       []V
	cap       int
	senders   []*chanSender[V]
	receivers []*chanReceiver[V]
}

// NewChannel constructs a Channel with the given ring-buffer capacity (0 for
// rendezvous-only).
func NewChannel[V any](capacity int) *Channel[V] {
	assertf(capacity >= 0, "asyncore: NewChannel requires a non-negative capacity")
	return &Channel[V]{cap: capacity}
}

// DefaultChannel constructs a Channel using rt's configured default ring
// buffer capacity (see [WithChannelDefaultCapacity]), for callers that don't
// need a bespoke capacity per channel — a free function rather than a method
// on [Runtime] since Go methods cannot introduce a new type parameter of
// their own.
func DefaultChannel[V any](rt *Runtime) *Channel[V] {
	return NewChannel[V](rt.channelDefault)
}

func (c *Channel[V]) pruneSenders() {
	for len(c.senders) > 0 && c.senders[0].cancelled {
		c.senders = c.senders[1:]
	}
}

func (c *Channel[V]) pruneReceivers() {
	for len(c.receivers) > 0 && c.receivers[0].cancelled {
		c.receivers = c.receivers[1:]
	}
}

// trySend performs one send, handing off directly to a waiting receiver if
// one exists, else buffering if there's room, else reporting failure (the
// caller queues instead).
func (c *Channel[V]) trySend(v V) bool {
	c.pruneReceivers()
	if len(c.receivers) > 0 {
		r := c.receivers[0]
		c.receivers = c.receivers[1:]
		r.val = v
		r.slot.ClearIfConnected()
		RunAll(r.wake)
		return true
	}
	c.pruneSenders()
	if len(c.senders) == 0 && len(c.buf) < c.cap {
		c.buf = append(c.buf, v)
		return true
	}
	return false
}

// tryReceive performs one receive, preferring the buffer (and backfilling it
// from a queued sender, to preserve FIFO order and keep the buffer full
// under sustained load), falling back to a direct rendezvous with a queued
// sender when the buffer is empty, else reporting failure.
func (c *Channel[V]) tryReceive() (V, bool) {
	if len(c.buf) > 0 {
		v := c.buf[0]
		copy(c.buf, c.buf[1:])
		c.buf = c.buf[:len(c.buf)-1]

		c.pruneSenders()
		if len(c.senders) > 0 {
			s := c.senders[0]
			c.senders = c.senders[1:]
			c.buf = append(c.buf, s.val)
			s.slot.ClearIfConnected()
			RunAll(s.wake)
		}
		return v, true
	}

	c.pruneSenders()
	if len(c.senders) > 0 {
		s := c.senders[0]
		c.senders = c.senders[1:]
		s.slot.ClearIfConnected()
		RunAll(s.wake)
		return s.val, true
	}

	var zero V
	return zero, false
}

// Send returns an awaitable that completes once v has been accepted — either
// buffered or handed directly to a waiting receiver.
func (c *Channel[V]) Send(v V) Awaitable[Unit] { return &sendAwaitable[V]{ch: c, val: v} }

// Receive returns an awaitable that completes with the next value, once one
// is available.
func (c *Channel[V]) Receive() Awaitable[V] { return &receiveAwaitable[V]{ch: c} }

type chanSender[V any] struct {
	val       V
	wake      Runnable
	slot      CancellationSlot
	cancelled bool
}

// Cancel implements CancellationHandler.
func (w *chanSender[V]) Cancel() Runnable {
	w.cancelled = true
	return w.wake
}

type chanReceiver[V any] struct {
	val       V
	wake      Runnable
	slot      CancellationSlot
	cancelled bool
}

// Cancel implements CancellationHandler.
func (w *chanReceiver[V]) Cancel() Runnable {
	w.cancelled = true
	return w.wake
}

type sendAwaitable[V any] struct {
	ch   *Channel[V]
	val  V
	w    *chanSender[V]
	slot CancellationSlot
}

// IsReady implements Awaitable.
func (a *sendAwaitable[V]) IsReady() bool {
	a.ch.pruneReceivers()
	a.ch.pruneSenders()
	return len(a.ch.senders) == 0 && (len(a.ch.receivers) > 0 || len(a.ch.buf) < a.ch.cap)
}

// SetCancellationSlot implements cancellableAwaitable.
func (a *sendAwaitable[V]) SetCancellationSlot(slot CancellationSlot) { a.slot = slot }

// Suspend implements Awaitable.
func (a *sendAwaitable[V]) Suspend(wake Runnable) {
	w := &chanSender[V]{val: a.val, wake: wake, slot: a.slot}
	a.w = w
	a.ch.senders = append(a.ch.senders, w)
	a.slot.InstallIfConnected(w)
}

// Resume implements Awaitable.
func (a *sendAwaitable[V]) Resume() Result[Unit] {
	if a.w != nil {
		if a.w.cancelled {
			return Err[Unit](Cancelled)
		}
		return Ok(Unit{})
	}
	assertf(a.ch.trySend(a.val), "asyncore: send claimed ready but trySend failed")
	return Ok(Unit{})
}

type receiveAwaitable[V any] struct {
	ch   *Channel[V]
	w    *chanReceiver[V]
	slot CancellationSlot
}

// IsReady implements Awaitable.
func (a *receiveAwaitable[V]) IsReady() bool {
	a.ch.pruneReceivers()
	a.ch.pruneSenders()
	return len(a.ch.receivers) == 0 && (len(a.ch.buf) > 0 || len(a.ch.senders) > 0)
}

// SetCancellationSlot implements cancellableAwaitable.
func (a *receiveAwaitable[V]) SetCancellationSlot(slot CancellationSlot) { a.slot = slot }

// Suspend implements Awaitable.
func (a *receiveAwaitable[V]) Suspend(wake Runnable) {
	w := &chanReceiver[V]{wake: wake, slot: a.slot}
	a.w = w
	a.ch.receivers = append(a.ch.receivers, w)
	a.slot.InstallIfConnected(w)
}

// Resume implements Awaitable.
func (a *receiveAwaitable[V]) Resume() Result[V] {
	if a.w != nil {
		if a.w.cancelled {
			return Err[V](Cancelled)
		}
		return Ok(a.w.val)
	}
	v, ok := a.ch.tryReceive()
	assertf(ok, "asyncore: receive claimed ready but tryReceive failed")
	return Ok(v)
}
