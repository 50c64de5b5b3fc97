package reactor

import (
	"context"
	"time"
)

// EventSource feeds external events into a core.
type EventSource interface {
	Events() <-chan Event
}

// Listen fires every event received from src until its channel is closed or
// ctx ends. The returned channel is closed when forwarding stops.
func (c *Core[S]) Listen(ctx context.Context, src EventSource) <-chan struct{} {
	done := make(chan struct{})
	events := src.Events()
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				c.Fire(e)
			}
		}
	}()
	return done
}

// ChannelSource is an EventSource backed by a Go channel.
type ChannelSource struct {
	ch <-chan Event
}

// NewChannelSource creates a ChannelSource reading from ch.
func NewChannelSource(ch <-chan Event) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Events returns the receive-only channel for events.
func (s *ChannelSource) Events() <-chan Event {
	return s.ch
}

// TickerSource emits the same event every interval.
// Useful for timeouts, heartbeats and clock-driven state.
type TickerSource struct {
	ch     chan Event
	event  Event
	ticker *time.Ticker
	stop   chan struct{}
}

// NewTickerSource starts a TickerSource emitting event every d. Ticks are
// dropped while the consumer lags behind.
func NewTickerSource(event Event, d time.Duration) *TickerSource {
	t := &TickerSource{
		ch:     make(chan Event, 10),
		event:  event,
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TickerSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- t.event:
			default:
				// drop if full
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Events returns the event channel. It is closed after Stop.
func (t *TickerSource) Events() <-chan Event {
	return t.ch
}

// Stop stops the ticker and closes the channel. Call it once.
func (t *TickerSource) Stop() {
	close(t.stop)
}
