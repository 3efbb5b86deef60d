package tracing_test

import (
	"context"
	"testing"

	"github.com/dndgen/stressor/internal/config"
	"github.com/dndgen/stressor/internal/tracing"
)

func TestInitDisabledByDefault(t *testing.T) {
	p, err := tracing.Init(context.Background(), config.TracingConfig{})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	// Tracer should return a usable no-op.
	tracer := p.Tracer()
	_, span := tracer.Start(context.Background(), "test")
	span.End()
	if span.SpanContext().TraceID().IsValid() {
		t.Error("disabled tracing should produce no-op spans without valid trace IDs")
	}
}

func TestInitEnabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	p, err := tracing.Init(context.Background(), config.TracingConfig{Enabled: true})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if p.Tracer() == nil {
		t.Error("Tracer() should never be nil")
	}
}

func TestNilProviderIsSafe(t *testing.T) {
	var p *tracing.Provider
	if p.Tracer() == nil {
		t.Error("nil provider Tracer() should return a no-op tracer")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("nil provider Shutdown() error = %v", err)
	}
}
