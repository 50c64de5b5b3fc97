package demo

import (
	"fmt"
	"io"
	"sync"

	"github.com/bryanbartow/reactor"
)

// Sign prints the color each time it changes.
type Sign struct {
	out  io.Writer
	last Color
}

// Update implements reactor.Subscriber.
func (s *Sign) Update(c Color) {
	if c == s.last {
		return
	}
	s.last = c
	fmt.Fprintf(s.out, "sign: %s\n", c)
}

// Progress counts timer ticks, issues a RushCommand every rushEvery ticks and
// closes Done once target ticks were seen.
type Progress struct {
	core      *reactor.Core[Light]
	target    int
	rushEvery int
	last      int
	done      chan struct{}
	once      sync.Once
}

func newProgress(core *reactor.Core[Light], target, rushEvery int) *Progress {
	return &Progress{
		core:      core,
		target:    target,
		rushEvery: rushEvery,
		done:      make(chan struct{}),
	}
}

// Update implements reactor.Subscriber.
func (p *Progress) Update(ticks int) {
	if ticks == p.last {
		return
	}
	p.last = ticks
	if p.rushEvery > 0 && ticks%p.rushEvery == 0 {
		p.core.FireCommand(RushCommand{})
	}
	if ticks >= p.target {
		p.once.Do(func() { close(p.done) })
	}
}

// Done is closed once the target was reached.
func (p *Progress) Done() <-chan struct{} {
	return p.done
}
