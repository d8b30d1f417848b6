package asyncore

import "unsafe"

// FrameAllocator is the pluggable allocation contract behind [Task] frame
// construction (spec.md §6: "task frames are heap-allocated via a pluggable
// allocator; returning null on failure yields Err(OutOfMemory)"). The
// default, [DefaultAllocator], simply delegates to the Go heap and never
// fails; a fault-injecting allocator such as [FaultAllocator] lets tests
// exercise the OutOfMemory path without ever exhausting real memory.
type FrameAllocator interface {
	Allocate(size int) (unsafe.Pointer, bool)
}

// frameAllocSize is the nominal size charged against a FrameAllocator for
// each Task frame constructed by [Spawn].
const frameAllocSize = int(unsafe.Sizeof(T{}))

type heapAllocator struct{}

// Allocate implements FrameAllocator by delegating to the Go heap; it never
// reports failure.
func (heapAllocator) Allocate(size int) (unsafe.Pointer, bool) {
	if size <= 0 {
		return nil, true
	}
	buf := make([]byte, size)
	return unsafe.Pointer(&buf[0]), true
}

// DefaultAllocator is the zero-configuration FrameAllocator used when a
// Runtime is constructed without [WithFrameAllocator].
var DefaultAllocator FrameAllocator = heapAllocator{}

// FaultAllocator wraps another allocator and fails the Nth and every
// subsequent call, where N is FailAfter (FailAfter == 0 fails immediately,
// a negative FailAfter never fails). Grounded on the teacher's test-double
// conventions (constructing minimal fakes directly in test files rather than
// via a mocking framework) — this is that same style applied to
// spec.md §8's S6 "OOM at spawn" scenario.
type FaultAllocator struct {
	Underlying FrameAllocator
	FailAfter  int

	calls int
}

// Allocate implements FrameAllocator.
func (a *FaultAllocator) Allocate(size int) (unsafe.Pointer, bool) {
	n := a.calls
	a.calls++
	if a.FailAfter >= 0 && n >= a.FailAfter {
		return nil, false
	}
	under := a.Underlying
	if under == nil {
		under = DefaultAllocator
	}
	return under.Allocate(size)
}
