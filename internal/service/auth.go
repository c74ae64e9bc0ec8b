// Package service implements the application logic on top of the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookrackapp/bookrack-server/internal/auth"
	"github.com/bookrackapp/bookrack-server/internal/domain"
	domainerrors "github.com/bookrackapp/bookrack-server/internal/errors"
	"github.com/bookrackapp/bookrack-server/internal/store"
	"github.com/bookrackapp/bookrack-server/internal/validation"
)

// Caller identifies the authenticated user behind a request.
// The zero value is not a valid caller; the only way to obtain one is
// through AuthService.ResolveCaller, so a handler holding a Caller has
// proof the token was verified.
type Caller struct {
	userID   string
	username string
}

// UserID returns the caller's user ID.
func (c Caller) UserID() string { return c.userID }

// Username returns the caller's username.
func (c Caller) Username() string { return c.username }

// Valid reports whether this caller was produced by token resolution.
func (c Caller) Valid() bool { return c.userID != "" }

// AuthService handles signup, login and token verification.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		validator:    validator,
		logger:       logger,
	}
}

// SignupRequest contains new account data.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the access token and user data.
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"`
}

// Signup creates a new user account and logs them in.
// Usernames are unique case-insensitively; "Frodo" and "frodo" are the
// same account.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, domainerrors.AlreadyExists("username already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	}

	// Never echo the hash back to the client.
	user.PasswordHash = ""

	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int(s.tokenService.TokenDuration().Seconds()),
	}, nil
}

// Login authenticates a user and issues a fresh access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Don't leak whether the username exists
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	}

	user.PasswordHash = ""

	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int(s.tokenService.TokenDuration().Seconds()),
	}, nil
}

// ResolveCaller verifies an access token and returns the caller it
// identifies. The user must still exist; tokens of deleted accounts
// stop working immediately.
func (s *AuthService) ResolveCaller(ctx context.Context, token string) (Caller, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return Caller{}, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return Caller{}, domainerrors.Unauthorized("account no longer exists")
		}
		return Caller{}, fmt.Errorf("lookup user: %w", err)
	}

	return Caller{userID: user.ID, username: user.Username}, nil
}
