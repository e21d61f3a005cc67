package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	usermemory "github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/memory"
	userdomain "github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
)

func TestDirectory_FindByID(t *testing.T) {
	ctx := context.Background()
	users := usermemory.NewRepository()
	_, err := users.Save(ctx, &userdomain.User{
		ID:           "b6b0f3f2-5d36-4a8e-9d7c-2f1f5c1f0a01",
		Email:        "shopper@example.com",
		Name:         "Shopper",
		PasswordHash: "hash",
		Role:         userdomain.RoleUser,
		IsActive:     true,
	})
	require.NoError(t, err)

	dir := New(users)
	record, err := dir.FindByID(ctx, "b6b0f3f2-5d36-4a8e-9d7c-2f1f5c1f0a01")
	require.NoError(t, err)
	assert.Equal(t, "Shopper", record.Name)
	assert.Equal(t, "shopper@example.com", record.Email)

	_, err = dir.FindByID(ctx, "b6b0f3f2-5d36-4a8e-9d7c-2f1f5c1f0a02")
	require.ErrorIs(t, err, ports.ErrCustomerNotFound)
}
