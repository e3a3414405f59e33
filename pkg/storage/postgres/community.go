package postgres

import (
	"context"
	"database/sql"

	"github.com/devlink-social/devlink/pkg/api"
	"github.com/devlink-social/devlink/pkg/storage"
)

// CreateCommunityPost inserts a board post
func (s *PostgresStorage) CreateCommunityPost(ctx context.Context, post *api.CommunityPost) error {
	query := `
		INSERT INTO community_posts (id, author_id, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	return s.db.QueryRowContext(ctx, query,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Body,
	).Scan(&post.CreatedAt)
}

const postSelect = `
	SELECT p.id, p.author_id, p.title, p.body, p.created_at,
	       u.id, u.name, u.profile_pic
	FROM community_posts p
	LEFT JOIN users u ON u.id = p.author_id
`

// GetCommunityPost fetches a single board post with its author populated
func (s *PostgresStorage) GetCommunityPost(ctx context.Context, id string) (*api.CommunityPost, error) {
	row := s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id)

	post, err := scanPost(row)
	if err != nil {
		return nil, mapError(err)
	}
	return post, nil
}

// ListCommunityPosts returns all board posts, newest first, with authors
// populated.
func (s *PostgresStorage) ListCommunityPosts(ctx context.Context) ([]*api.CommunityPost, error) {
	rows, err := s.db.QueryContext(ctx, postSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*api.CommunityPost, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// DeleteCommunityPost removes a board post and its comments
func (s *PostgresStorage) DeleteCommunityPost(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_comments WHERE post_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM community_posts WHERE id = $1`, id)
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

	return tx.Commit()
}

// CreatePostComment inserts a comment on a board post
func (s *PostgresStorage) CreatePostComment(ctx context.Context, comment *api.PostComment) error {
	query := `
		INSERT INTO post_comments (id, post_id, author_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	return s.db.QueryRowContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.CreatedAt)
}

// ListPostComments returns the comments of a board post, oldest first, with
// authors populated.
func (s *PostgresStorage) ListPostComments(ctx context.Context, postID string) ([]*api.PostComment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.body, c.created_at,
		       u.id, u.name, u.profile_pic
		FROM post_comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at
	`

	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*api.PostComment, 0)
	for rows.Next() {
		c := &api.PostComment{}
		var authorID, authorName, authorPic sql.NullString
		err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.AuthorID,
			&c.Body,
			&c.CreatedAt,
			&authorID,
			&authorName,
			&authorPic,
		)
		if err != nil {
			return nil, err
		}
		if authorID.Valid {
			c.Author = &api.UserSummary{
				ID:         authorID.String,
				Name:       authorName.String,
				ProfilePic: authorPic.String,
			}
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanPost(row rowScanner) (*api.CommunityPost, error) {
	post := &api.CommunityPost{}
	var authorID, authorName, authorPic sql.NullString
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Body,
		&post.CreatedAt,
		&authorID,
		&authorName,
		&authorPic,
	)
	if err != nil {
		return nil, err
	}
	if authorID.Valid {
		post.Author = &api.UserSummary{
			ID:         authorID.String,
			Name:       authorName.String,
			ProfilePic: authorPic.String,
		}
	}
	return post, nil
}
