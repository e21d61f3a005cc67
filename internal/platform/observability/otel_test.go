package observability

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	s := SettingsFromEnv()
	assert.Equal(t, "staging", s.Environment)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.InDelta(t, 0.25, s.SampleRatio, 1e-9)
}

func TestSettingsFromEnv_IgnoresBadValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "3")

	s := SettingsFromEnv()
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.InDelta(t, 1.0, s.SampleRatio, 1e-9)
}

func TestInitWithSettings_ExportsMetersToPrometheus(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	ctx := context.Background()
	registry := promclient.NewRegistry()

	instruments, shutdown, err := InitWithSettings(ctx, "poster-parlor-test", Settings{
		Environment: "test",
		LogLevel:    slog.LevelError,
		SampleRatio: 1,
		Registerer:  registry,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	counter, err := instruments.Meter("test").Int64Counter("orders.placed")
	require.NoError(t, err)
	counter.Add(ctx, 2)

	families, err := registry.Gather()
	require.NoError(t, err)
	var found bool
	for _, family := range families {
		if strings.HasPrefix(family.GetName(), "poster_parlor_orders_placed") {
			found = true
			require.NotEmpty(t, family.GetMetric())
			assert.InDelta(t, 2.0, family.GetMetric()[0].GetCounter().GetValue(), 1e-9)
		}
	}
	assert.True(t, found, "expected the service counter in the prometheus registry")

	_, span := instruments.Tracer("test").Start(ctx, "span")
	span.End()
}

func TestInstruments_NilSafe(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
}
