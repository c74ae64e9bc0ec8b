package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/store"
)

func TestStore_CreateUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	user := &domain.User{Username: "bilbo", PasswordHash: "$argon2id$..."}
	require.NoError(t, s.CreateUser(ctx, user))

	require.NotEmpty(t, user.ID)
	require.Contains(t, user.ID, "user-")
	require.False(t, user.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "bilbo", got.Username)
}

func TestStore_CreateUser_DuplicateUsername(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &domain.User{Username: "bilbo"}))

	err := s.CreateUser(ctx, &domain.User{Username: "bilbo"})
	require.ErrorIs(t, err, store.ErrUsernameExists)

	// Same name in different case is still taken.
	err = s.CreateUser(ctx, &domain.User{Username: "BILBO"})
	require.ErrorIs(t, err, store.ErrUsernameExists)
}

func TestStore_GetUserByUsername(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	user := &domain.User{Username: "Samwise"}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByUsername(ctx, "samwise")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	// The stored username keeps its original casing.
	require.Equal(t, "Samwise", got.Username)

	_, err = s.GetUserByUsername(ctx, "gollum")
	require.ErrorIs(t, err, store.ErrUserNotFound)
}
