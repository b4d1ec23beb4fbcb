package bootstrap

import (
	"context"
	"io"
	"os"

	"credmask/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newTraceProvider(lc fx.Lifecycle, config *config.Config, logger *zap.Logger) *sdktrace.TracerProvider {
	tp, closer := NewTraceProvider(config.AppConfig, logger)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			defer closer()

			return tp.Shutdown(ctx)
		},
	})

	return tp
}

// NewTraceProvider installs the global tracer provider. The returned func
// releases the trace output once the provider is shut down.
func NewTraceProvider(c *config.AppConfig, logger *zap.Logger) (*sdktrace.TracerProvider, func()) {
	w, closer := traceWriter(c.TraceOutput, logger)

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		logger.Fatal("Failed to create trace exporter", zap.Error(err))
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName("credmask"),
		),
	)
	if err != nil {
		logger.Fatal("Failed to create resource", zap.Error(err))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	return tp, closer
}

func traceWriter(output string, logger *zap.Logger) (io.Writer, func()) {
	switch output {
	case "", "none":
		return io.Discard, func() {}
	case "stdout":
		return os.Stdout, func() {}
	case "stderr":
		return os.Stderr, func() {}
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warn("Trace output not writable, spans are discarded", zap.String("path", output), zap.Error(err))

		return io.Discard, func() {}
	}

	return f, func() { _ = f.Close() }
}
