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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
	"github.com/Apurer/poster-parlor-api/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("posterparlor_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_SaveAndLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("6f0e2a4c-1111-4000-8000-000000000001", "Alice@Example.com", "Alice", "password123")
	require.NoError(t, err)

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", saved.Email)
	assert.Equal(t, domain.RoleUser, saved.Role)
	assert.True(t, saved.CheckPassword("password123"))

	fetched, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)

	fetched.Deactivate()
	require.NoError(t, fetched.SetRole(domain.RoleAdmin))
	fetched.RecordLogin(time.Now())
	updated, err := repo.Save(ctx, fetched)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.IsAdmin())
	require.NotNil(t, updated.LastLogin)

	_, err = repo.GetByID(ctx, "6f0e2a4c-1111-4000-8000-000000000099")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := domain.NewUser("6f0e2a4c-1111-4000-8000-000000000001", "dup@example.com", "One", "password123")
	require.NoError(t, err)
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewUser("6f0e2a4c-1111-4000-8000-000000000002", "dup@example.com", "Two", "password123")
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ports.ErrDuplicateEmail)
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db)
	ctx := context.Background()
	now := time.Now().UTC()
	userID := "6f0e2a4c-1111-4000-8000-000000000001"

	require.NoError(t, store.Save(ctx, ports.Session{TokenHash: "live", UserID: userID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, store.Save(ctx, ports.Session{TokenHash: "stale", UserID: userID, ExpiresAt: now.Add(-time.Hour), CreatedAt: now}))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	live, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, userID, live.UserID)
	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, store.DeleteByUser(ctx, userID))
	_, err = store.Get(ctx, "live")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}
