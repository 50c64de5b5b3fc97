// Package demo implements the reactor-demo command: a traffic light driven
// by a timer, rendered on a frame loop, logged, journaled and traced.
package demo

import "github.com/bryanbartow/reactor"

// Color of the light.
type Color string

const (
	Red    Color = "red"
	Green  Color = "green"
	Yellow Color = "yellow"
)

// Timer advances the light to its next color.
type Timer struct{}

// Rush turns a red light green early.
type Rush struct{}

// Light is the demo state.
type Light struct {
	Color  Color `yaml:"color"`
	Ticks  int   `yaml:"ticks"`
	Cycles int   `yaml:"cycles"`
	Rushes int   `yaml:"rushes"`
}

// React implements reactor.State.
func (l Light) React(e reactor.Event) Light {
	switch e.(type) {
	case Timer:
		l.Ticks++
		l.Color = next(l.Color)
		if l.Color == Red {
			l.Cycles++
		}
	case Rush:
		if l.Color == Red {
			l.Color = Green
			l.Rushes++
		}
	}
	return l
}

func next(c Color) Color {
	switch c {
	case Red:
		return Green
	case Green:
		return Yellow
	default:
		return Red
	}
}

// RushCommand fires Rush only while the light is red.
type RushCommand struct{}

// Execute implements reactor.Command.
func (RushCommand) Execute(l Light, core *reactor.Core[Light]) {
	if l.Color == Red {
		core.Fire(Rush{})
	}
}
