package realtime

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrStarted is returned by Start when the loop is already running.
var ErrStarted = errors.New("realtime: loop already started")

// Loop is a tick-based delivery context. Work handed to Execute is batched
// and run in submission order at the next tick boundary, on the tick
// goroutine, so subscribers bound to a frame loop observe state once per
// frame instead of once per event.
type Loop struct {
	// Tick-specific fields
	tickRate   time.Duration
	maxPerTick int
	ticker     *time.Ticker
	tickNum    uint64
	logger     *log.Logger

	// Work batching
	batch       []Work
	batchMu     sync.Mutex
	sequenceNum uint64

	// tickMu keeps manual Tick calls and the tick loop from overlapping.
	tickMu sync.Mutex

	// Control
	runMu      sync.Mutex
	tickCancel context.CancelFunc
	stopped    chan struct{}
}

// Config configures the tick loop.
type Config struct {
	TickRate   time.Duration // Fixed tick rate (e.g., 16.67ms for 60 FPS)
	MaxPerTick int           // Work items run per tick, the rest carries over (default: 1000)
	Logger     *log.Logger   // Receives recovered panics; nil discards them
}

// NewLoop creates a tick loop. It does nothing until Start or Tick is called.
func NewLoop(cfg Config) *Loop {
	if cfg.MaxPerTick <= 0 {
		cfg.MaxPerTick = 1000
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond // Default 60 FPS
	}

	return &Loop{
		tickRate:   cfg.TickRate,
		maxPerTick: cfg.MaxPerTick,
		logger:     cfg.Logger,
		batch:      make([]Work, 0, cfg.MaxPerTick),
	}
}

// Start begins ticking until ctx ends or Stop is called. A loop whose
// context has ended can be started again.
func (l *Loop) Start(ctx context.Context) error {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	if l.stopped != nil {
		select {
		case <-l.stopped:
			// Exited because its context ended.
			l.reset()
		default:
			return ErrStarted
		}
	}

	tickCtx, cancel := context.WithCancel(ctx)
	l.tickCancel = cancel
	l.ticker = time.NewTicker(l.tickRate)
	l.stopped = make(chan struct{})

	go l.tickLoop(tickCtx, l.ticker, l.stopped)

	return nil
}

// Stop halts the tick goroutine and waits for it to exit. Work still queued
// stays queued and runs on the next Tick or Start. Safe to call multiple
// times.
func (l *Loop) Stop() error {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	if l.stopped == nil {
		return nil
	}
	l.tickCancel()

	// Wait for tick loop to exit
	<-l.stopped

	l.reset()
	return nil
}

// reset releases the state of an exited tick loop. Caller holds runMu.
func (l *Loop) reset() {
	l.tickCancel()
	l.ticker.Stop()
	l.stopped = nil
	l.tickCancel = nil
	l.ticker = nil
}

// Execute queues work for the next tick. Thread-safe.
func (l *Loop) Execute(work func()) {
	if work == nil {
		return
	}
	l.batchMu.Lock()
	defer l.batchMu.Unlock()

	l.batch = append(l.batch, Work{
		Run:         work,
		SequenceNum: l.sequenceNum,
	})
	l.sequenceNum++
}

// Tick runs one tick immediately. Hosts that own their frame loop call Tick
// instead of Start.
func (l *Loop) Tick() {
	l.tickMu.Lock()
	defer l.tickMu.Unlock()

	l.processTick()

	l.batchMu.Lock()
	l.tickNum++
	l.batchMu.Unlock()
}

// TickNumber returns the number of completed ticks.
func (l *Loop) TickNumber() uint64 {
	l.batchMu.Lock()
	defer l.batchMu.Unlock()
	return l.tickNum
}

// Pending returns the number of queued work items.
func (l *Loop) Pending() int {
	l.batchMu.Lock()
	defer l.batchMu.Unlock()
	return len(l.batch)
}

// tickLoop is the main tick execution loop
func (l *Loop) tickLoop(ctx context.Context, ticker *time.Ticker, stopped chan struct{}) {
	defer close(stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick()
		}
	}
}
