package tracer

import (
	"context"
	"testing"
	"time"

	"health-portal-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracer_DisabledLeavesGlobalProvider(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown := InitTracer(config.AppConfig{ServiceName: "health-portal-backend", OtelEnabled: false})

	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestInitTracer_EnabledUsesConfiguredService(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown := InitTracer(config.AppConfig{
		ServiceName:  "portal-under-test",
		Environment:  "test",
		OtelEnabled:  true,
		OtelEndpoint: "localhost:4318",
	})

	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, ok, "an SDK provider is installed")

	_, span := tp.Tracer("test").Start(context.Background(), "chat-turn")
	attrs := span.(sdktrace.ReadOnlySpan).Resource().Attributes()
	span.End()

	values := make(map[string]string, len(attrs))
	for _, kv := range attrs {
		values[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "portal-under-test", values["service.name"])
	assert.Equal(t, "test", values["deployment.environment"])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
