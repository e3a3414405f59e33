// Package storage defines the storage configuration and the sentinel errors
// implementations surface to the API layer.
package storage

import (
	"errors"
	"time"
)

// Sentinel errors hide driver details from handlers: storage implementations
// translate their native errors into these, and handlers translate these
// into HTTP statuses.
var (
	// ErrNotFound means the requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail means a signup hit the unique email constraint
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAlreadyReacted means the actor is already in the requested reaction
	// state for this target; double-toggles are errors, not no-ops
	ErrAlreadyReacted = errors.New("reaction already set")
)

// Config for the storage backend
type Config struct {
	// PostgreSQL config
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration

	// Redis config (rate limiter; optional)
	RedisURL        string
	RedisPassword   string
	RedisDB         int
	RedisMaxRetries int
	RedisPoolSize   int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		PostgresMaxConns: 20,
		PostgresMinConns: 2,
		PostgresTimeout:  10 * time.Second,
		RedisDB:          0,
		RedisMaxRetries:  3,
		RedisPoolSize:    10,
	}
}
