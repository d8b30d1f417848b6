package asyncore

// StreamReader is the byte-level read side of a stream external
// collaborator (spec.md §6). Read returns the number of bytes placed into p
// and true, or (0, false) if nothing is currently available — the core
// never blocks a real goroutine on it, it polls via the executor instead.
type StreamReader interface {
	Read(p []byte) (n int, ok bool)
}

// StreamWriter is the byte-level write side of a stream external
// collaborator. Write returns the number of bytes accepted; AvailableForWrite
// reports how many more would be accepted right now without blocking.
type StreamWriter interface {
	Write(p []byte) (n int)
	AvailableForWrite() int
}

// ReadStream returns a cancellable awaitable that polls r (via the
// executor's ready queue, never the calling goroutine directly) until it has
// filled dst with exactly n bytes, then resolves with the number of bytes
// actually read. Grounded on spec.md §6's "core provides cancellable
// awaitables read(stream, dst, n) and write(print, src, n) that poll these
// in the executor queue until satisfied or cancelled."
func ReadStream(rt *Runtime, r StreamReader, dst []byte, n int) Awaitable[int] {
	if n > len(dst) {
		n = len(dst)
	}
	return &readStreamAwaitable{rt: rt, r: r, dst: dst, want: n}
}

type readStreamAwaitable struct {
	rt        *Runtime
	r         StreamReader
	dst       []byte
	want      int
	done      int
	wake      Runnable
	cancelled bool
	slot      CancellationSlot
}

// IsReady implements Awaitable.
func (a *readStreamAwaitable) IsReady() bool { return a.done >= a.want }

// SetCancellationSlot implements cancellableAwaitable.
func (a *readStreamAwaitable) SetCancellationSlot(slot CancellationSlot) { a.slot = slot }

// Suspend implements Awaitable: posts the first poll onto the executor, and
// each poll reposts itself until dst is filled or the read is cancelled; a
// reader reporting nothing available only defers the next attempt to a later
// tick.
func (a *readStreamAwaitable) Suspend(wake Runnable) {
	a.wake = wake
	a.slot.InstallIfConnected(a)
	a.rt.Post(runnableFunc(func() Runnable {
		a.poll()
		return nil
	}))
}

func (a *readStreamAwaitable) poll() {
	if a.cancelled {
		return
	}
	for a.done < a.want {
		n, ok := a.r.Read(a.dst[a.done:a.want])
		if !ok || n == 0 {
			break
		}
		a.done += n
	}
	if a.done >= a.want {
		a.slot.ClearIfConnected()
		RunAll(a.wake)
		return
	}
	a.rt.Post(runnableFunc(func() Runnable {
		a.poll()
		return nil
	}))
}

// Cancel implements CancellationHandler.
func (a *readStreamAwaitable) Cancel() Runnable {
	a.cancelled = true
	return a.wake
}

// Resume implements Awaitable.
func (a *readStreamAwaitable) Resume() Result[int] {
	if a.cancelled {
		return Err[int](Cancelled)
	}
	return Ok(a.done)
}

// WriteStream returns a cancellable awaitable that polls w until exactly n
// bytes from src have been accepted, then resolves with the number of bytes
// actually written.
func WriteStream(rt *Runtime, w StreamWriter, src []byte, n int) Awaitable[int] {
	if n > len(src) {
		n = len(src)
	}
	return &writeStreamAwaitable{rt: rt, w: w, src: src, want: n}
}

type writeStreamAwaitable struct {
	rt        *Runtime
	w         StreamWriter
	src       []byte
	want      int
	done      int
	wake      Runnable
	cancelled bool
	slot      CancellationSlot
}

// IsReady implements Awaitable.
func (a *writeStreamAwaitable) IsReady() bool { return a.done >= a.want }

// SetCancellationSlot implements cancellableAwaitable.
func (a *writeStreamAwaitable) SetCancellationSlot(slot CancellationSlot) { a.slot = slot }

// Suspend implements Awaitable: like the read side, the first poll is posted
// onto the executor rather than run inline.
func (a *writeStreamAwaitable) Suspend(wake Runnable) {
	a.wake = wake
	a.slot.InstallIfConnected(a)
	a.rt.Post(runnableFunc(func() Runnable {
		a.poll()
		return nil
	}))
}

func (a *writeStreamAwaitable) poll() {
	if a.cancelled {
		return
	}
	for a.done < a.want && a.w.AvailableForWrite() > 0 {
		n := a.w.Write(a.src[a.done:a.want])
		if n == 0 {
			break
		}
		a.done += n
	}
	if a.done >= a.want {
		a.slot.ClearIfConnected()
		RunAll(a.wake)
		return
	}
	a.rt.Post(runnableFunc(func() Runnable {
		a.poll()
		return nil
	}))
}

// Cancel implements CancellationHandler.
func (a *writeStreamAwaitable) Cancel() Runnable {
	a.cancelled = true
	return a.wake
}

// Resume implements Awaitable.
func (a *writeStreamAwaitable) Resume() Result[int] {
	if a.cancelled {
		return Err[int](Cancelled)
	}
	return Ok(a.done)
}

// BytePipe is an in-memory StreamReader/StreamWriter test double: bytes
// written via Write become available to Read in the same order, with no
// backpressure limit. Grounded on the teacher's in-memory test fakes
// (constructed directly in _test.go files rather than via a mocking
// framework).
type BytePipe struct {
	buf []byte
}

// NewBytePipe constructs an empty BytePipe.
func NewBytePipe() *BytePipe { return &BytePipe{} }

// Read implements StreamReader.
func (p *BytePipe) Read(dst []byte) (int, bool) {
	if len(p.buf) == 0 {
		return 0, false
	}
	n := copy(dst, p.buf)
	p.buf = p.buf[n:]
	return n, true
}

// Write implements StreamWriter.
func (p *BytePipe) Write(src []byte) int {
	p.buf = append(p.buf, src...)
	return len(src)
}

// AvailableForWrite implements StreamWriter; a BytePipe never applies
// backpressure.
func (p *BytePipe) AvailableForWrite() int { return 1 << 30 }
