package middleware

import (
	"fmt"
	"log"

	"github.com/bryanbartow/reactor"
)

// Logger writes one line per processed event.
type Logger[S reactor.State[S]] struct {
	l      *log.Logger
	format func(S) string
}

// LoggerOption configures a Logger.
type LoggerOption[S reactor.State[S]] func(*Logger[S])

// WithStateFormatter replaces the default %+v rendering of the state.
func WithStateFormatter[S reactor.State[S]](f func(S) string) LoggerOption[S] {
	return func(m *Logger[S]) {
		m.format = f
	}
}

// NewLogger creates a Logger writing to l, or to log.Default() if l is nil.
func NewLogger[S reactor.State[S]](l *log.Logger, opts ...LoggerOption[S]) *Logger[S] {
	if l == nil {
		l = log.Default()
	}
	m := &Logger[S]{
		l: l,
		format: func(s S) string {
			return fmt.Sprintf("%+v", s)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Process logs event and state.
func (m *Logger[S]) Process(event reactor.Event, state S) {
	m.l.Printf("event=%s state=%s", eventType(event), m.format(state))
}
