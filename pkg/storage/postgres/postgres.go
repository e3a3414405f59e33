// Package postgres implements the api.Storage contract on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"

	"github.com/devlink-social/devlink/pkg/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStorage implements api.Storage using PostgreSQL
type PostgresStorage struct {
	db     *sql.DB
	config storage.Config
}

// NewPostgresStorage connects to PostgreSQL, configures the pool, and runs
// pending schema migrations.
func NewPostgresStorage(config storage.Config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(config.PostgresMaxConns)
	db.SetMaxIdleConns(config.PostgresMinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), config.PostgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStorage{
		db:     db,
		config: config,
	}

	if err := s.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *PostgresStorage) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, "migrations")
}

// DB exposes the underlying pool for health checks
func (s *PostgresStorage) DB() *sql.DB {
	return s.db
}

// Close closes the connection pool
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

// mapError hides driver details behind the storage sentinel errors
func mapError(err error) error {
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	return err
}
