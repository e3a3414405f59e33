// Package middleware provides the HTTP guards applied ahead of handlers:
// cookie-based session authentication for users and the admin principal,
// and Redis-backed rate limiting for the credential endpoints.
package middleware
