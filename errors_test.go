package asyncore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_OkErr(t *testing.T) {
	ok := Ok(42)
	require.True(t, ok.Succeeded())
	require.Equal(t, Success, ok.Code())
	require.Equal(t, 42, ok.Value())

	v, code := ok.Get()
	require.Equal(t, 42, v)
	require.Equal(t, Success, code)

	failed := Err[int](Cancelled)
	require.False(t, failed.Succeeded())
	require.Equal(t, Cancelled, failed.Code())

	v, code = failed.Get()
	require.Equal(t, 0, v)
	require.Equal(t, Cancelled, code)
}

func TestErr_PanicsOnSuccessCode(t *testing.T) {
	assert.Panics(t, func() { Err[int](Success) })
}

func TestResult_Value_PanicsWhenNotSuccess(t *testing.T) {
	assert.Panics(t, func() { Err[int](Exhausted).Value() })
}

func TestErrorCode_String(t *testing.T) {
	require.Equal(t, "Cancelled", Cancelled.String())
	require.Equal(t, "Success", Success.String())
	require.Contains(t, ErrorCode(99).String(), "99")
}

func TestRunError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &RunError{Code: OutOfMemory, Cause: cause}

	require.ErrorIs(t, err, &RunError{Code: OutOfMemory})
	require.False(t, errors.Is(err, &RunError{Code: Cancelled}))
	require.Equal(t, cause, errors.Unwrap(err))
}

func TestAggregateError_Unwrap(t *testing.T) {
	e1 := codeError(Cancelled)
	e2 := codeError(Exhausted)
	agg := &AggregateError{Errors: []error{e1, e2}}

	require.ErrorIs(t, agg, e1)
	require.ErrorIs(t, agg, e2)
	require.Contains(t, agg.Error(), "2 operations failed")
}

func TestAggregateResults_NilWhenAnyResultSucceeded(t *testing.T) {
	results := []Result[int]{Err[int](Cancelled), Ok(7), Err[int](Exhausted)}
	require.NoError(t, AggregateResults(results))
}

func TestAggregateResults_AggregatesEveryFailureWhenNoneSucceeded(t *testing.T) {
	results := []Result[int]{Err[int](Cancelled), Err[int](Exhausted)}
	err := AggregateResults(results)
	require.Error(t, err)

	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 2)
	require.ErrorIs(t, err, &RunError{Code: Cancelled})
	require.ErrorIs(t, err, &RunError{Code: Exhausted})
}

func TestAggregateResults_NilOnEmptySlice(t *testing.T) {
	require.NoError(t, AggregateResults[int](nil))
}

func TestAggregateResults_UsableOnAnysPositionalOutput(t *testing.T) {
	ev1, ev2 := NewEvent(), NewEvent()
	child1 := NewTask(func(fr *T) Result[int] { return Await(fr, wrapEvent(ev1, 1)) })
	child2 := NewTask(func(fr *T) Result[int] { return Await(fr, wrapEvent(ev2, 2)) })

	parent := NewManualTask(func(fr *T) Result[[]Result[int]] {
		return Await(fr, Any([]*Task[int]{child1, child2}))
	})
	parent.Start()
	require.False(t, parent.Done())

	RunAll(parent.Cancel())
	require.True(t, parent.Done())

	require.Error(t, AggregateResults(parent.Result().Value()))
}

func TestWrapError_PreservesCause(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := WrapError("context", cause)
	require.ErrorIs(t, wrapped, cause)
	require.Contains(t, wrapped.Error(), "context")
}
