package middleware

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bryanbartow/reactor"
)

// TracerName is the instrumentation scope used by Tracer.
const TracerName = "github.com/bryanbartow/reactor/middleware"

// Span attribute keys.
const (
	AttrEventType = attribute.Key("reactor.event.type")
	AttrEventSeq  = attribute.Key("reactor.event.seq")
)

// Tracer records one span per processed event.
type Tracer[S reactor.State[S]] struct {
	tracer trace.Tracer
	name   string
	attrs  func(S) []attribute.KeyValue
	seq    atomic.Uint64
}

// TracerOption configures a Tracer.
type TracerOption[S reactor.State[S]] func(*Tracer[S])

// WithSpanName overrides the default span name "reactor.event".
func WithSpanName[S reactor.State[S]](name string) TracerOption[S] {
	return func(t *Tracer[S]) {
		t.name = name
	}
}

// WithStateAttributes adds attributes derived from the new state.
func WithStateAttributes[S reactor.State[S]](f func(S) []attribute.KeyValue) TracerOption[S] {
	return func(t *Tracer[S]) {
		t.attrs = f
	}
}

// NewTracer creates a Tracer using tp, or the global provider if tp is nil.
func NewTracer[S reactor.State[S]](tp trace.TracerProvider, opts ...TracerOption[S]) *Tracer[S] {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	t := &Tracer[S]{
		tracer: tp.Tracer(TracerName),
		name:   "reactor.event",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Process records a span for event.
func (t *Tracer[S]) Process(event reactor.Event, state S) {
	_, span := t.tracer.Start(context.Background(), t.name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrEventType.String(eventType(event)),
			AttrEventSeq.Int64(int64(t.seq.Add(1))),
		),
	)
	if t.attrs != nil {
		span.SetAttributes(t.attrs(state)...)
	}
	span.End()
}
