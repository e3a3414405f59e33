package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"github.com/devlink-social/devlink/pkg/api"
	"github.com/devlink-social/devlink/pkg/storage"
)

const userColumns = "id, name, email, password_hash, profile_pic, description, portfolio, created_at"

// CreateUser inserts a new identity. Emails are stored lowercase so
// uniqueness is case-insensitive.
func (s *PostgresStorage) CreateUser(ctx context.Context, user *api.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, profile_pic, description, portfolio)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		user.ID,
		user.Name,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.ProfilePic,
		user.Description,
		user.Portfolio,
	).Scan(&user.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return storage.ErrDuplicateEmail
	}
	return err
}

// GetUserByID fetches an identity by id
func (s *PostgresStorage) GetUserByID(ctx context.Context, id string) (*api.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail fetches an identity by its (case-insensitive) email
func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*api.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, strings.ToLower(email)))
}

// UpdateUser persists mutable profile fields
func (s *PostgresStorage) UpdateUser(ctx context.Context, user *api.User) error {
	query := `
		UPDATE users
		SET name = $2, password_hash = $3, profile_pic = $4, description = $5, portfolio = $6
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.PasswordHash,
		user.ProfilePic,
		user.Description,
		user.Portfolio,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUser hard-deletes an identity and returns the deleted record.
// Projects, comments, posts, and reactions referencing the user are left
// orphaned; there is no cascade.
func (s *PostgresStorage) DeleteUser(ctx context.Context, id string) (*api.User, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// ListUsers returns all identities, newest first
func (s *PostgresStorage) ListUsers(ctx context.Context) ([]*api.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// SearchUsersByName returns identities whose name starts with the prefix,
// case-insensitively.
func (s *PostgresStorage) SearchUsersByName(ctx context.Context, prefix string) ([]*api.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(name) LIKE LOWER($1) || '%'
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, escapeLike(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// escapeLike neutralizes LIKE metacharacters in user-supplied prefixes
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *PostgresStorage) scanUser(row rowScanner) (*api.User, error) {
	user := &api.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ProfilePic,
		&user.Description,
		&user.Portfolio,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func scanUsers(rows *sql.Rows) ([]*api.User, error) {
	users := make([]*api.User, 0)
	for rows.Next() {
		user := &api.User{}
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.ProfilePic,
			&user.Description,
			&user.Portfolio,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
