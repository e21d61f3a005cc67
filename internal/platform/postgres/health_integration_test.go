//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestHealthChecker_Postgres(t *testing.T) {
	ctx := context.Background()
	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("posterparlor_health"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := Connect(ctx, dsn)
	require.NoError(t, err)

	h := NewHealthChecker(db)
	got := h.Check(ctx)
	assert.Equal(t, HealthHealthy, got.Status)
	assert.True(t, got.Metrics.Persistent)
	assert.True(t, got.Metrics.Connected)
	assert.Equal(t, "posterparlor_health", got.Metrics.Database)
	assert.Contains(t, got.Metrics.ServerVersion, "PostgreSQL")
	assert.Empty(t, got.Errors)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	got = h.Check(ctx)
	assert.Equal(t, HealthUnhealthy, got.Status)
	assert.False(t, got.Metrics.Connected)
	assert.NotEmpty(t, got.Errors)
}
