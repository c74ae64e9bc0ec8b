package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookrackapp/bookrack-server/internal/store"
)

func TestEnsureInstance_FirstBoot(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := s.GetInstance(ctx)
	require.ErrorIs(t, err, store.ErrInstanceNotFound)

	instance, err := s.EnsureInstance(ctx, "1.0.0")
	require.NoError(t, err)
	assert.NotEmpty(t, instance.ID)
	assert.Equal(t, "1.0.0", instance.Version)

	// Second call returns the same record.
	again, err := s.EnsureInstance(ctx, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, instance.ID, again.ID)
}

func TestEnsureInstance_VersionUpgrade(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	instance, err := s.EnsureInstance(ctx, "1.0.0")
	require.NoError(t, err)

	upgraded, err := s.EnsureInstance(ctx, "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, instance.ID, upgraded.ID)
	assert.Equal(t, "1.1.0", upgraded.Version)

	got, err := s.GetInstance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", got.Version)
}
