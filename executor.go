package reactor

import "github.com/bryanbartow/reactor/internal/queue"

// Inline runs work immediately on the calling goroutine. A subscription
// delivered Inline runs on the core's serialized context, before the
// middlewares of the same event.
var Inline Executor = inline{}

type inline struct{}

func (inline) Execute(work func()) { work() }

// SerialExecutor runs work one item at a time in submission order on its own
// goroutine, independent of the core. The zero value is not usable; use
// NewSerialExecutor.
type SerialExecutor struct {
	q *queue.Queue
}

// NewSerialExecutor creates a SerialExecutor. It holds no goroutine while
// idle, so it does not need to be stopped.
func NewSerialExecutor() *SerialExecutor {
	return &SerialExecutor{q: queue.New()}
}

// Execute enqueues work and returns immediately.
func (e *SerialExecutor) Execute(work func()) {
	e.q.Submit(work)
}

// Wait blocks until every item enqueued before the call has run.
func (e *SerialExecutor) Wait() {
	e.q.SubmitWait(func() {})
}
