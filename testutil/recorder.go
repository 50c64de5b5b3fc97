// Package testutil holds helpers shared by the tests of every package.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bryanbartow/reactor"
)

// ErrTimeout is returned by Recorder.WaitFor when not enough values arrive.
var ErrTimeout = errors.New("testutil: timed out waiting for values")

// Recorder is a Subscriber that keeps every value it receives.
type Recorder[T any] struct {
	mu     sync.Mutex
	values []T
	notify chan struct{}
}

// NewRecorder creates an empty Recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{notify: make(chan struct{}, 1)}
}

// Update records value.
func (r *Recorder[T]) Update(value T) {
	r.mu.Lock()
	r.values = append(r.values, value)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Values returns a copy of the recorded values.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

// Len returns the number of recorded values.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// WaitFor blocks until at least n values were recorded and returns them.
func (r *Recorder[T]) WaitFor(n int, timeout time.Duration) ([]T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		if got := r.Values(); len(got) >= n {
			return got, nil
		}
		select {
		case <-r.notify:
		case <-timer.C:
			return r.Values(), fmt.Errorf("got %d of %d: %w", r.Len(), n, ErrTimeout)
		}
	}
}

// Drain waits until c has processed every operation submitted before the
// call and returns the resulting state. Deliveries running on other
// executors may still be in flight. Events fired by commands queue behind
// the drain itself, so Drain is not a barrier for them; drain again or wait
// on a Recorder.
func Drain[S reactor.State[S]](tb testing.TB, c *reactor.Core[S]) S {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := c.Snapshot(ctx)
	if err != nil {
		tb.Fatalf("drain core: %v", err)
	}
	return s
}
