package middleware_test

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/bryanbartow/reactor"
	"github.com/bryanbartow/reactor/middleware"
	"github.com/bryanbartow/reactor/testutil"
)

func newRecordingProvider(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return tp, sr
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracer_SpanPerEvent(t *testing.T) {
	tp, sr := newRecordingProvider(t)
	tr := middleware.NewTracer(tp,
		middleware.WithStateAttributes(func(a account) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.Int("account.balance", a.Balance)}
		}),
	)

	core := reactor.New(account{}, reactor.WithMiddleware[account](tr))
	core.Fire(deposit{Amount: 4})
	core.Fire(withdraw{Amount: 1})
	testutil.Drain(t, core)

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	wantTypes := []string{"middleware_test.deposit", "middleware_test.withdraw"}
	wantBalance := []int64{4, 3}
	for i, span := range spans {
		if span.Name() != "reactor.event" {
			t.Errorf("span %d name = %q", i, span.Name())
		}
		attrs := span.Attributes()
		if v, ok := attrValue(attrs, middleware.AttrEventType); !ok || v.AsString() != wantTypes[i] {
			t.Errorf("span %d event type = %v, want %q", i, v.Emit(), wantTypes[i])
		}
		if v, ok := attrValue(attrs, middleware.AttrEventSeq); !ok || v.AsInt64() != int64(i+1) {
			t.Errorf("span %d seq = %v, want %d", i, v.Emit(), i+1)
		}
		if v, ok := attrValue(attrs, "account.balance"); !ok || v.AsInt64() != wantBalance[i] {
			t.Errorf("span %d balance = %v, want %d", i, v.Emit(), wantBalance[i])
		}
	}
}

func TestTracer_SpanName(t *testing.T) {
	tp, sr := newRecordingProvider(t)
	tr := middleware.NewTracer(tp, middleware.WithSpanName[account]("bank.apply"))
	tr.Process(deposit{Amount: 1}, account{})

	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "bank.apply" {
		t.Fatalf("spans = %v, want one named bank.apply", spans)
	}
	if got := spans[0].InstrumentationScope().Name; got != middleware.TracerName {
		t.Errorf("scope = %q, want %q", got, middleware.TracerName)
	}
}
