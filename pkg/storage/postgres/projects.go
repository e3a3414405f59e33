package postgres

import (
	"context"
	"database/sql"

	"github.com/devlink-social/devlink/pkg/api"
	"github.com/devlink-social/devlink/pkg/storage"
)

const projectColumns = "id, owner_id, name, description, image, link, created_at"

// CreateProject inserts a new project owned by its creator
func (s *PostgresStorage) CreateProject(ctx context.Context, project *api.Project) error {
	query := `
		INSERT INTO projects (id, owner_id, name, description, image, link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	return s.db.QueryRowContext(ctx, query,
		project.ID,
		project.OwnerID,
		project.Name,
		project.Description,
		project.Image,
		project.Link,
	).Scan(&project.CreatedAt)
}

// GetProject fetches a project by id
func (s *PostgresStorage) GetProject(ctx context.Context, id string) (*api.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(s.db.QueryRowContext(ctx, query, id))
}

// ListProjectsByOwner returns a user's projects, newest first
func (s *PostgresStorage) ListProjectsByOwner(ctx context.Context, ownerID string) ([]*api.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProjects(rows)
}

// ListProjects returns every project, newest first
func (s *PostgresStorage) ListProjects(ctx context.Context) ([]*api.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProjects(rows)
}

// DeleteProject removes a project by id. Ownership is the handler's concern;
// by the time this runs the check has already passed.
func (s *PostgresStorage) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
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

func scanProject(row rowScanner) (*api.Project, error) {
	p := &api.Project{}
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Description,
		&p.Image,
		&p.Link,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func scanProjects(rows *sql.Rows) ([]*api.Project, error) {
	projects := make([]*api.Project, 0)
	for rows.Next() {
		p := &api.Project{}
		err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Name,
			&p.Description,
			&p.Image,
			&p.Link,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
