// Structured logging for the runtime, built on logiface rather than a
// hand-rolled Logger interface: logiface's own test suite already builds
// loggers of exactly this shape against this package, so this file brings
// non-test code in line with what the package's tests already assumed.
package asyncore

import (
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is this runtime's structured logger: logiface's generic Logger
// bound to stumpy's Event, stumpy being logiface's own "model" JSON backend.
type Logger = logiface.Logger[*stumpy.Event]

// NewLogger builds a Logger writing JSON lines to w, at or above level.
func NewLogger(w io.Writer, level logiface.Level) *Logger {
	return logiface.New[*stumpy.Event](
		stumpy.WithStumpy(stumpy.WithWriter(w)),
		logiface.WithLevel[*stumpy.Event](level),
	)
}

// NewDefaultLogger builds a Logger writing to stderr at LevelInformational,
// the runtime's default when no WithLogger option is supplied.
func NewDefaultLogger() *Logger {
	return NewLogger(os.Stderr, logiface.LevelInformational)
}

// NewNoopLogger returns a Logger with logging disabled outright — the
// default for tests that don't care about log output.
func NewNoopLogger() *Logger {
	return logiface.New[*stumpy.Event](logiface.WithLevel[*stumpy.Event](logiface.LevelDisabled))
}

// assertf panics with the formatted message when cond is false; it does not
// log (see logAssertFailure). It is the runtime's rendition of spec.md §6's
// "fatal assertions abort" — invariant violations (double cancellation,
// resuming a completed frame, a signal double installed) are programmer
// errors, not recoverable runtime conditions.
func assertf(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(fmt.Sprintf(format, args...))
}

// logAssertFailure logs the violated invariant through lg before assertf
// panics, when a Logger is available at the call site (most assertf call
// sites are in hot paths with no Logger in scope, so this is used only where
// a failure is both possible and worth recording before the panic: currently
// the state check in [Runtime.RunUntilIdle]).
func logAssertFailure(lg *Logger, format string, args ...any) {
	if lg == nil {
		return
	}
	lg.Crit().Logf(format, args...)
}
