package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookrackapp/bookrack-server/internal/auth"
	domainerrors "github.com/bookrackapp/bookrack-server/internal/errors"
	"github.com/bookrackapp/bookrack-server/internal/store"
	"github.com/bookrackapp/bookrack-server/internal/validation"
)

// setupAuthTest creates an auth service with temporary storage.
func setupAuthTest(t *testing.T) (*AuthService, *store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "bookrack-auth-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(authKey, 24*time.Hour)
	require.NoError(t, err)

	authService := NewAuthService(s, tokenService, validation.New(), nil)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return authService, s, cleanup
}

func TestAuthService_Signup(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "frodo", Password: "ringbearer9"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int((24 * time.Hour).Seconds()), resp.ExpiresIn)
	assert.Equal(t, "frodo", resp.User.Username)
	assert.NotEmpty(t, resp.User.ID)
	// The hash never leaves the service.
	assert.Empty(t, resp.User.PasswordHash)
}

func TestAuthService_Signup_DuplicateUsername(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "frodo", Password: "ringbearer9"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Username: "frodo", Password: "other-password"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	// Case only differs - still the same username.
	_, err = svc.Signup(ctx, SignupRequest{Username: "FRODO", Password: "other-password"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "ab", Password: "ringbearer9"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.Signup(ctx, SignupRequest{Username: "frodo", Password: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "frodo", Password: "ringbearer9"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "frodo", Password: "ringbearer9"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.PasswordHash)

	// Username lookup is case-insensitive.
	resp, err = svc.Login(ctx, LoginRequest{Username: "Frodo", Password: "ringbearer9"})
	require.NoError(t, err)
	assert.Equal(t, "frodo", resp.User.Username)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "frodo", Password: "ringbearer9"})
	require.NoError(t, err)

	// Wrong password and unknown user produce the same error.
	_, err = svc.Login(ctx, LoginRequest{Username: "frodo", Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "sauron", Password: "ringbearer9"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_ResolveCaller(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "frodo", Password: "ringbearer9"})
	require.NoError(t, err)

	caller, err := svc.ResolveCaller(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, caller.Valid())
	assert.Equal(t, resp.User.ID, caller.UserID())
	assert.Equal(t, "frodo", caller.Username())
}

func TestAuthService_ResolveCaller_BadToken(t *testing.T) {
	svc, _, cleanup := setupAuthTest(t)
	defer cleanup()

	_, err := svc.ResolveCaller(context.Background(), "v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_ResolveCaller_DeletedUser(t *testing.T) {
	svc, s, cleanup := setupAuthTest(t)
	defer cleanup()

	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "frodo", Password: "ringbearer9"})
	require.NoError(t, err)

	require.NoError(t, s.Users.Delete(ctx, resp.User.ID))

	_, err = svc.ResolveCaller(ctx, resp.Token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
