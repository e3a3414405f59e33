package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/devlink-social/devlink/pkg/auth"
	"github.com/devlink-social/devlink/pkg/contextkeys"
	"github.com/devlink-social/devlink/pkg/httputil"
	"github.com/devlink-social/devlink/pkg/storage"
)

// UserLookup confirms a token subject still resolves to a live identity.
// Implementations return storage.ErrNotFound when the account was deleted;
// a valid token must not revive a deleted account.
type UserLookup func(ctx context.Context, userID string) error

// AuthMiddleware guards routes behind the session cookies. User and admin
// sessions are verified independently; neither guard accepts the other's
// cookie.
type AuthMiddleware struct {
	tokens        *auth.TokenService
	lookupUser    UserLookup
	adminUsername string
}

// NewAuthMiddleware creates the auth guards. adminUsername pins admin tokens
// to the configured principal so a stale token from a previous deployment's
// admin cannot be replayed.
func NewAuthMiddleware(tokens *auth.TokenService, lookupUser UserLookup, adminUsername string) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:        tokens,
		lookupUser:    lookupUser,
		adminUsername: adminUsername,
	}
}

// RequireUser rejects requests without a valid user session. On success the
// verified claims are placed in the request context for GetUserClaims.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ReadUserToken(r)
		if token == "" {
			httputil.WriteUnauthorized(w, "Couldn't authenticate user. No token provided.")
			return
		}

		claims, err := m.tokens.VerifyUserToken(token)
		if err != nil {
			httputil.WriteUnauthorized(w, "Invalid or expired token. Please log in again.")
			return
		}

		if m.lookupUser != nil {
			if err := m.lookupUser(r.Context(), claims.UserID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					// The token outlived the account
					httputil.WriteUnauthorized(w, "Invalid or expired token. Please log in again.")
				} else {
					httputil.WriteInternalError(w, "Failed to authenticate user")
				}
				return
			}
		}

		ctx := contextkeys.WithIdentity(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests without a valid admin session. User tokens
// fail here on the missing role claim, and an admin token minted for a
// different username than the configured one is rejected too.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ReadAdminToken(r)
		if token == "" {
			httputil.WriteUnauthorized(w, "Couldn't authenticate admin. No token provided.")
			return
		}

		claims, err := m.tokens.VerifyAdminToken(token)
		if err != nil {
			httputil.WriteUnauthorized(w, "Invalid or expired admin token. Please log in again.")
			return
		}

		if m.adminUsername != "" && claims.Username != m.adminUsername {
			httputil.WriteUnauthorized(w, "Invalid or expired admin token. Please log in again.")
			return
		}

		ctx := contextkeys.WithAdmin(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserClaims extracts the verified user claims placed by RequireUser.
// Returns nil when the request did not pass through the guard.
func GetUserClaims(r *http.Request) *auth.UserClaims {
	claims, ok := r.Context().Value(contextkeys.IdentityKey).(*auth.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetAdminClaims extracts the verified admin claims placed by RequireAdmin
func GetAdminClaims(r *http.Request) *auth.AdminClaims {
	claims, ok := r.Context().Value(contextkeys.AdminKey).(*auth.AdminClaims)
	if !ok {
		return nil
	}
	return claims
}
