package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookrackapp/bookrack-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// callerKey is the context key for the authenticated caller.
const callerKey ctxKey = "caller"

// GetCaller returns the authenticated caller from context.
// Returns 401 error if the request carried no valid token.
func GetCaller(ctx context.Context) (service.Caller, error) {
	caller, ok := ctx.Value(callerKey).(service.Caller)
	if !ok || !caller.Valid() {
		return service.Caller{}, huma.Error401Unauthorized("Authentication required")
	}
	return caller, nil
}

// setCaller stores the caller in context.
func setCaller(ctx context.Context, caller service.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// authMiddleware returns a middleware that resolves Bearer tokens and stores the caller in context.
// If no token is present or invalid, continues without a caller.
// Handlers use GetCaller to check authentication.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			token := authHeader[7:]
			caller, err := auth.ResolveCaller(r.Context(), token)
			if err != nil {
				// Invalid token - continue without caller (handler will reject if auth required)
				next.ServeHTTP(w, r)
				return
			}

			ctx := setCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
