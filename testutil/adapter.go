package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/bryanbartow/reactor"
	"github.com/bryanbartow/reactor/realtime"
)

// ExecutorCase names a delivery executor so the same test suite can run on
// every delivery context.
type ExecutorCase struct {
	Name string
	New  func(tb testing.TB) reactor.Executor
}

// Executors returns one case per delivery context shipped with the module:
// inline, serial, and a running realtime loop.
func Executors() []ExecutorCase {
	return []ExecutorCase{
		{
			Name: "Inline",
			New: func(testing.TB) reactor.Executor {
				return reactor.Inline
			},
		},
		{
			Name: "Serial",
			New: func(testing.TB) reactor.Executor {
				return reactor.NewSerialExecutor()
			},
		},
		{
			Name: "Realtime",
			New: func(tb testing.TB) reactor.Executor {
				loop := realtime.NewLoop(realtime.Config{TickRate: time.Millisecond})
				if err := loop.Start(tb.Context()); err != nil {
					tb.Fatalf("start realtime loop: %v", err)
				}
				tb.Cleanup(func() { loop.Stop() })
				return loop
			},
		},
	}
}

// Held is an executor that keeps work until Run is called. It lets a test
// decide exactly when a scheduled delivery executes.
type Held struct {
	mu   sync.Mutex
	work []func()
}

// Execute stores work.
func (h *Held) Execute(work func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.work = append(h.work, work)
}

// Len returns the number of stored work items.
func (h *Held) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.work)
}

// Run executes and clears the stored work in order.
func (h *Held) Run() {
	h.mu.Lock()
	work := h.work
	h.work = nil
	h.mu.Unlock()

	for _, w := range work {
		w()
	}
}
