// Package telemetry sets up OpenTelemetry tracing for commands.
package telemetry

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/bryanbartow/reactor/internal/config"
)

// Environment variables read by LoadSettings.
const (
	EnvEndpoint    = "REACTOR_OTEL_ENDPOINT"
	EnvEnabled     = "REACTOR_OTEL_ENABLED"
	EnvSampleRatio = "REACTOR_OTEL_SAMPLE_RATIO"
	EnvVersion     = "REACTOR_OTEL_SERVICE_VERSION"
)

const defaultShutdownTimeout = 5 * time.Second

// Settings selects where and how much to trace.
type Settings struct {
	Endpoint    string  `env:"REACTOR_OTEL_ENDPOINT"`
	Enabled     bool    `env:"REACTOR_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"REACTOR_OTEL_SAMPLE_RATIO" envDefault:"1"`
	Version     string  `env:"REACTOR_OTEL_SERVICE_VERSION"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := config.ParseEnv(&s); err != nil {
		return Settings{}, fmt.Errorf("telemetry settings: %w", err)
	}
	if s.SampleRatio < 0 || s.SampleRatio > 1 {
		return Settings{}, config.Usagef("telemetry settings: %s=%v outside [0, 1]", EnvSampleRatio, s.SampleRatio)
	}
	return s, nil
}

// Active reports whether spans should be exported at all.
func (s Settings) Active() bool {
	return s.Enabled && s.Endpoint != ""
}

// Sampler returns the root sampler for SampleRatio. Child spans follow their
// parent's decision.
func (s Settings) Sampler() sdktrace.Sampler {
	switch {
	case s.SampleRatio >= 1:
		return sdktrace.AlwaysSample()
	case s.SampleRatio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(s.SampleRatio))
	}
}

// NewProvider builds an OTLP/HTTP tracer provider for service. It returns
// nil when s is not Active.
func NewProvider(ctx context.Context, service string, s Settings) (*sdktrace.TracerProvider, error) {
	if !s.Active() {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(s.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(service)}
	if s.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(s.Version))
	}
	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(s.Sampler()),
	), nil
}

// Setup loads Settings and, when tracing is active, registers a global
// provider for service. The returned shutdown flushes pending spans; it is a
// no-op when nothing was registered.
func Setup(ctx context.Context, service string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	s, err := LoadSettings()
	if err != nil {
		return noop, err
	}
	tp, err := NewProvider(ctx, service, s)
	if err != nil || tp == nil {
		return noop, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// Run configures tracing for service, executes run and flushes spans on the
// way out.
func Run(ctx context.Context, service string, run func(context.Context) error) error {
	shutdown, err := Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
