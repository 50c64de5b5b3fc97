// Package queue provides the serialized execution context used by the core
// and by serial delivery executors.
// Stdlib-only implementation.
package queue

import "sync"

// Queue is an unbounded FIFO of work items drained by at most one goroutine.
// The drainer is started on demand and exits once the queue is empty, so an
// idle Queue owns no goroutine and needs no Stop.
// Thread-safe for concurrent Submit from multiple goroutines.
type Queue struct {
	mu      sync.Mutex
	items   []func()
	running bool
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Submit appends work to the tail of the queue and returns immediately.
func (q *Queue) Submit(work func()) {
	if work == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, work)
	if !q.running {
		q.running = true
		go q.drain()
	}
	q.mu.Unlock()
}

// SubmitWait appends work and blocks until it has run.
// Calling SubmitWait from work already running on q deadlocks.
func (q *Queue) SubmitWait(work func()) {
	done := make(chan struct{})
	q.Submit(func() {
		defer close(done)
		work()
	})
	<-done
}

// Len returns the number of items waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// drain runs queued work in order until the queue is empty.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.running = false
			// Release the backing array once fully drained.
			q.items = nil
			q.mu.Unlock()
			return
		}
		work := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		work()
	}
}
