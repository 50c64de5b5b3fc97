// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bryanbartow/reactor"
)

// tick is the benchmark event.
type tick struct{}

// gauge is a small state with a value payload.
type gauge struct {
	N    int
	Last [4]int64
}

func (g gauge) React(e reactor.Event) gauge {
	if _, ok := e.(tick); ok {
		g.N++
		g.Last[g.N%4] = int64(g.N)
	}
	return g
}

// sink counts deliveries.
type sink struct {
	n atomic.Int64
}

func (s *sink) Update(int) { s.n.Add(1) }

func drain(b *testing.B, c *reactor.Core[gauge]) gauge {
	b.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	g, err := c.Snapshot(ctx)
	if err != nil {
		b.Fatal(err)
	}
	return g
}

func count(g gauge) int { return g.N }
