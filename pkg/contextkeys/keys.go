// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// USAGE PATTERN:
//   import "github.com/devlink-social/devlink/pkg/contextkeys"
//   ctx = contextkeys.WithIdentity(ctx, claims)
//   claims, ok := ctx.Value(contextkeys.IdentityKey).(*auth.UserClaims)
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// IdentityKey contains the verified *auth.UserClaims for the request
	// Set by: middleware.RequireUser (pkg/middleware/auth.go)
	// Required by: all user-authenticated endpoints and the ownership checks
	// Type: *auth.UserClaims
	IdentityKey Key = "identity"

	// AdminKey contains the verified *auth.AdminClaims for the request
	// Set by: middleware.RequireAdmin (pkg/middleware/auth.go)
	// Required by: admin-only endpoints (user deletion, admin probe/logout)
	// Type: *auth.AdminClaims
	AdminKey Key = "admin"

	// RequestIDKey contains the request ID string
	// Set by: httputil.RequestIDMiddleware
	// Used by: logger, request tracing across log lines
	// Type: string
	RequestIDKey Key = "request_id"

	// LoggerKey contains *observability.Logger
	// Set by: observability middleware
	// Used by: handlers that need structured logging with request context
	// Type: *observability.Logger
	LoggerKey Key = "logger"
)

// Helper functions for type-safe context operations

// WithIdentity adds the resolved user identity to the context
func WithIdentity(ctx context.Context, identity interface{}) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// WithAdmin adds the verified admin claims to the context
func WithAdmin(ctx context.Context, claims interface{}) context.Context {
	return context.WithValue(ctx, AdminKey, claims)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}
