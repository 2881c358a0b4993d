package service

import (
	"context"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/repository/memrepo"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := NewUserService(memrepo.New().Users())

	id, created, err := users.EnsureUser(ctx, &domain.User{Name: "Ari", Email: "ari@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := users.EnsureUser(ctx, &domain.User{Name: "Ari B", Email: "ari@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	all, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.RoleMember, all[0].Role, "self-registration cannot pick a role")
	assert.Equal(t, "Ari", all[0].Name)
}

func TestEnsureUserRequiresEmail(t *testing.T) {
	users := NewUserService(memrepo.New().Users())
	_, _, err := users.EnsureUser(context.Background(), &domain.User{Name: "No Mail"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoleOf(t *testing.T) {
	ctx := context.Background()
	users := NewUserService(memrepo.New().Users())

	_, err := users.RoleOf(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	id, _, err := users.EnsureUser(ctx, &domain.User{Email: "ari@example.com"})
	require.NoError(t, err)
	role, err := users.RoleOf(ctx, "ari@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, role)

	result, err := users.MakeAdmin(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.MatchedCount)
	assert.EqualValues(t, 1, result.ModifiedCount)

	role, err = users.RoleOf(ctx, "ari@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	// Already an admin: matched but not modified.
	result, err = users.MakeAdmin(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 0, result.ModifiedCount)
}

func TestMakeAdminUnknownUser(t *testing.T) {
	users := NewUserService(memrepo.New().Users())
	_, err := users.MakeAdmin(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
