package asyncore

// Spawn starts body running as a top-level [Task], posted onto rt's
// executor so the first (and every subsequent) step runs on the runtime's
// own single driver goroutine rather than synchronously on the caller's.
// Grounded on loop.go's Submit, adapted to this runtime's Task/frame model.
//
// The returned Task can itself be awaited from another task (structured
// concurrency — a parent Spawn-ing a child it then Awaits), or simply polled
// via IsReady/Resume after [Runtime.RunUntilIdle].
func Spawn[V any](rt *Runtime, body func(fr *T) Result[V]) *Task[V] {
	if _, ok := rt.allocator.Allocate(frameAllocSize); !ok {
		task := NewTask(body)
		task.result = Err[V](OutOfMemory)
		task.done = true
		rt.logger.Warning().Log("spawn failed: frame allocator exhausted")
		return task
	}

	task := NewTask(body)
	rt.Post(runnableFunc(func() Runnable {
		return task.start(nil)
	}))
	return task
}

// ManualTask drives a Task's first step by hand, without an Executor —
// spec.md §4.8's harness for unit-testing a single task's suspension points
// in isolation, grounded on the teacher's test-harness conventions
// (coverage_phase2_test.go builds loggers/tasks directly rather than via the
// full Loop machinery).
type ManualTask[V any] struct {
	task *Task[V]
}

// NewManualTask wraps body in a Task that Start will drive directly.
func NewManualTask[V any](body func(fr *T) Result[V]) *ManualTask[V] {
	return &ManualTask[V]{task: NewTask(body)}
}

// Start begins the task on its own goroutine and blocks the caller until it
// either finishes or suspends at its first await point.
func (m *ManualTask[V]) Start() { RunAll(m.task.start(nil)) }

// Done reports whether the task has finished.
func (m *ManualTask[V]) Done() bool { return m.task.IsReady() }

// Result returns the task's settled Result; valid only once Done is true.
func (m *ManualTask[V]) Result() Result[V] { return m.task.Resume() }

// Task exposes the underlying Task, e.g. to await it from another task.
func (m *ManualTask[V]) Task() *Task[V] { return m.task }

// Cancel invokes the task frame's cancellation handler directly, as if an
// external collaborator (not an awaiter) decided to cancel it — useful for tests that
// want to exercise cancellation without modeling a real awaiter.
func (m *ManualTask[V]) Cancel() Runnable { return m.task.frame.Cancel() }
