package asyncore

import "time"

// Clock is the runtime's monotonic time source, grounded on loop.go's
// tickAnchor pattern (a single source of "now" consulted by the timer and
// cron services, swappable in tests for deterministic advances).
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by time.Now.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// timeNever is a sentinel far enough in the future to stand in for "no
// deadline" without needing a separate boolean alongside every deadline
// field, mirroring how loop.go treats a zero/absent deadline as "never" in
// its wake-at comparisons.
var timeNever = time.Unix(1<<62, 0)

// FakeClock is a manually-advanced Clock for deterministic tests of the
// timer, defer, and cron services, grounded on how the teacher's own timer
// tests drive the loop with synthetic time advances rather than real sleeps.
type FakeClock struct {
	now time.Time
}

// NewFakeClock constructs a FakeClock starting at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now implements Clock.
func (c *FakeClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d and returns the new time. It does not
// itself drive any service — callers must still invoke the relevant
// service's Tick/fire path afterward.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// Set pins the clock to an exact time, useful for constructing reproducible
// test fixtures.
func (c *FakeClock) Set(t time.Time) { c.now = t }
