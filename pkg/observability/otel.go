package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// OTelConfig holds the tracing settings needed to instrument a run.
type OTelConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
}

// OTelProviders holds OpenTelemetry providers for later shutdown.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
}

// Run phase span names, used to bracket the four stages of a comparison:
// ingesting each archive set, detecting differences, and classifying them.
const (
	SpanIngestOld = "japicc.ingest.old"
	SpanIngestNew = "japicc.ingest.new"
	SpanDetect    = "japicc.detect"
	SpanClassify  = "japicc.classify"
)

// InitOTel builds a tracer provider scoped to the local process. It records
// spans in-process (AlwaysSample) without wiring a remote exporter — there
// is no OTLP collector dependency in this deployment, so spans exist purely
// to correlate log lines via UpdateLoggerWithTraceContext and to let a
// future exporter be added without touching call sites.
func InitOTel(ctx context.Context, cfg OTelConfig, logger *Logger) (*OTelProviders, error) {
	if !cfg.Enabled {
		logger.Info("tracing is disabled")
		return nil, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("tracing initialized")
	return &OTelProviders{TracerProvider: tp}, nil
}

// ShutdownOTel gracefully shuts down the tracer provider.
func ShutdownOTel(ctx context.Context, providers *OTelProviders, logger *Logger) error {
	if providers == nil || providers.TracerProvider == nil {
		return nil
	}
	if err := providers.TracerProvider.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("failed to shut down tracer provider")
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	logger.Info("tracing shutdown complete")
	return nil
}

// StartPhase starts a span for one of the four run phases and returns the
// derived context plus a func to end it, letting callers write
// `ctx, end := StartPhase(ctx, SpanDetect); defer end()`.
func StartPhase(ctx context.Context, name string) (context.Context, func()) {
	ctx, span := otel.Tracer("github.com/platinummonkey/japicc").Start(ctx, name)
	return ctx, func() { span.End() }
}

// UpdateLoggerWithTraceContext adds trace and span IDs to logger when ctx
// carries a recording span.
func UpdateLoggerWithTraceContext(ctx context.Context, logger *Logger) *Logger {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return logger
	}
	spanCtx := span.SpanContext()
	return logger.WithFields(map[string]interface{}{
		"trace_id": spanCtx.TraceID().String(),
		"span_id":  spanCtx.SpanID().String(),
	})
}
