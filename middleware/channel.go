package middleware

import (
	"sync/atomic"

	"github.com/bryanbartow/reactor"
)

// Published bundles an event with the state it produced.
type Published[S any] struct {
	Seq   uint64
	Event reactor.Event
	State S
}

// Channel forwards every processed event to a Go channel.
// Non-blocking publish with drop on backpressure.
type Channel[S reactor.State[S]] struct {
	ch      chan<- Published[S]
	seq     atomic.Uint64
	dropped atomic.Uint64
}

// NewChannel creates a Channel with the given output channel.
func NewChannel[S reactor.State[S]](ch chan<- Published[S]) *Channel[S] {
	return &Channel[S]{ch: ch}
}

// Process publishes event and state, dropping them if ch is full.
func (p *Channel[S]) Process(event reactor.Event, state S) {
	msg := Published[S]{Seq: p.seq.Add(1), Event: event, State: state}
	select {
	case p.ch <- msg:
	default:
		p.dropped.Add(1)
	}
}

// Dropped returns how many events were dropped on backpressure.
func (p *Channel[S]) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the output channel. The core using p must not process
// further events afterwards.
func (p *Channel[S]) Close() error {
	close(p.ch)
	return nil
}
