package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/inventory-keeper/internal/config"
	"github.com/tuanvumaihuynh/inventory-keeper/internal/telemetry"
)

func TestInitTracer_WithoutCollector(t *testing.T) {
	ctx := context.Background()

	cleanup, err := telemetry.InitTracer(ctx, config.Otel{ServiceName: "inventory-keeper-test", TraceIDRatio: 1})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, cleanup(ctx))
}

func TestInitTracer_WithCollector(t *testing.T) {
	ctx := context.Background()

	// The gRPC exporter dials lazily, so no collector has to be listening.
	cleanup, err := telemetry.InitTracer(ctx, config.Otel{
		ServiceName:   "inventory-keeper-test",
		CollectorURL:  "127.0.0.1:4317",
		Insecure:      true,
		CollectorAuth: "Bearer token",
		TraceIDRatio:  1,
		K8sPodName:    "ik-api-0",
		K8sNamespace:  "inventory",
	})
	require.NoError(t, err)
	require.NotNil(t, cleanup)

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = cleanup(shutdownCtx)
}
