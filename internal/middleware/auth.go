package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/barnight/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the context key for storing the authenticated user ID.
const UserIDKey contextKey = "user_id"

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the user ID and email to the request context.
//
// When procedures are given, only those procedures require a token; all other
// procedures of the handler behave as with OptionalAuth.
func RequireAuth(jwtManager *auth.JWTManager, procedures ...string) connect.UnaryInterceptorFunc {
	protected := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		protected[p] = true
	}
	optional := OptionalAuth(jwtManager)

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if len(protected) > 0 && !protected[req.Spec().Procedure] {
				return optional(next)(ctx, req)
			}

			tokenString, err := bearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(withClaims(ctx, claims), req)
		}
	}
}

// OptionalAuth returns a middleware that validates JWT tokens if present, but allows
// requests without authentication. Useful for endpoints that have different behavior
// for authenticated vs unauthenticated users.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			// Invalid or missing tokens are ignored
			if tokenString, err := bearerToken(req.Header().Get("Authorization")); err == nil {
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = withClaims(ctx, claims)
				}
			}
			return next(ctx, req)
		}
	}
}

// WithUserID returns a context carrying userID as the authenticated user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return WithUserID(ctx, claims.UserID())
}

// bearerToken parses an "Authorization: Bearer <token>" header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}
