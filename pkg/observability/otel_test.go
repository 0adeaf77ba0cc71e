package observability

import (
	"bytes"
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestInitOTelDisabledReturnsNil(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})
	providers, err := InitOTel(context.Background(), OTelConfig{Enabled: false}, logger)
	if err != nil {
		t.Fatalf("InitOTel() error = %v", err)
	}
	if providers != nil {
		t.Error("expected nil providers when tracing is disabled")
	}
}

func TestInitOTelEnabledCreatesTracerProvider(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})
	providers, err := InitOTel(context.Background(), OTelConfig{
		Enabled:        true,
		ServiceName:    "japicc-test",
		ServiceVersion: "dev",
	}, logger)
	if err != nil {
		t.Fatalf("InitOTel() error = %v", err)
	}
	if providers == nil || providers.TracerProvider == nil {
		t.Fatal("expected a non-nil tracer provider")
	}
	if err := ShutdownOTel(context.Background(), providers, logger); err != nil {
		t.Errorf("ShutdownOTel() error = %v", err)
	}
}

func TestShutdownOTelNilProvidersIsNoOp(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})
	if err := ShutdownOTel(context.Background(), nil, logger); err != nil {
		t.Errorf("ShutdownOTel(nil) error = %v", err)
	}
}

func TestStartPhaseProducesARecordingSpan(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})
	providers, err := InitOTel(context.Background(), OTelConfig{Enabled: true, ServiceName: "japicc-test"}, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer ShutdownOTel(context.Background(), providers, logger)

	ctx, end := StartPhase(context.Background(), SpanDetect)
	defer end()

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		t.Error("expected StartPhase to produce a recording span")
	}
}

func TestUpdateLoggerWithTraceContextAttachesIDs(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(InfoLevel, &buf)

	logger := UpdateLoggerWithTraceContext(context.Background(), base)
	if logger != base {
		t.Error("expected no-op when context carries no recording span")
	}

	providers, err := InitOTel(context.Background(), OTelConfig{Enabled: true, ServiceName: "japicc-test"}, base)
	if err != nil {
		t.Fatal(err)
	}
	defer ShutdownOTel(context.Background(), providers, base)

	ctx, end := StartPhase(context.Background(), SpanIngestOld)
	defer end()

	withTrace := UpdateLoggerWithTraceContext(ctx, base)
	withTrace.Info("ingesting")
	if buf.Len() == 0 {
		t.Fatal("expected a log line")
	}
}
