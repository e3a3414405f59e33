package postgres

import (
	"context"
	"database/sql"

	"github.com/devlink-social/devlink/pkg/api"
)

// CreateComment inserts a profile comment
func (s *PostgresStorage) CreateComment(ctx context.Context, comment *api.Comment) error {
	query := `
		INSERT INTO profile_comments (id, sender_id, receiver_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	return s.db.QueryRowContext(ctx, query,
		comment.ID,
		comment.SenderID,
		comment.ReceiverID,
		comment.Content,
	).Scan(&comment.CreatedAt)
}

// ListCommentsForUser returns the comments left on a user's profile, newest
// first, with the sender's name and picture populated. Senders that were
// deleted since are left nil (orphaned references are accepted).
func (s *PostgresStorage) ListCommentsForUser(ctx context.Context, receiverID string) ([]*api.Comment, error) {
	query := `
		SELECT c.id, c.sender_id, c.receiver_id, c.content, c.created_at,
		       u.id, u.name, u.profile_pic
		FROM profile_comments c
		LEFT JOIN users u ON u.id = c.sender_id
		WHERE c.receiver_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*api.Comment, 0)
	for rows.Next() {
		c := &api.Comment{}
		var senderID, senderName, senderPic sql.NullString
		err := rows.Scan(
			&c.ID,
			&c.SenderID,
			&c.ReceiverID,
			&c.Content,
			&c.CreatedAt,
			&senderID,
			&senderName,
			&senderPic,
		)
		if err != nil {
			return nil, err
		}
		if senderID.Valid {
			c.Sender = &api.UserSummary{
				ID:         senderID.String,
				Name:       senderName.String,
				ProfilePic: senderPic.String,
			}
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
