package postgres

import (
	"context"
	"database/sql"

	"github.com/devlink-social/devlink/pkg/api"
	"github.com/devlink-social/devlink/pkg/storage"
)

// SetReaction moves the (target, actor) pair into the given reaction state.
// The single-row-per-pair constraint makes "like removes the dislike" an
// atomic conditional upsert rather than a read-modify-write: the WHERE clause
// on the conflict update refuses to overwrite an identical kind, which is how
// double-likes surface as ErrAlreadyReacted.
func (s *PostgresStorage) SetReaction(ctx context.Context, targetID, actorID string, kind api.ReactionKind) error {
	query := `
		INSERT INTO profile_reactions (target_id, actor_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (target_id, actor_id)
		DO UPDATE SET kind = EXCLUDED.kind, created_at = NOW()
		WHERE profile_reactions.kind <> EXCLUDED.kind
	`

	result, err := s.db.ExecContext(ctx, query, targetID, actorID, string(kind))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrAlreadyReacted
	}
	return nil
}

// GetReaction returns the actor's current reaction toward the target, or
// ErrNotFound for the neutral state.
func (s *PostgresStorage) GetReaction(ctx context.Context, targetID, actorID string) (api.ReactionKind, error) {
	var kind string
	err := s.db.QueryRowContext(ctx,
		`SELECT kind FROM profile_reactions WHERE target_id = $1 AND actor_id = $2`,
		targetID, actorID,
	).Scan(&kind)
	if err == sql.ErrNoRows {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return api.ReactionKind(kind), nil
}

// ListReactions returns the actor ids in one direction's set for a target.
// Unknown targets yield an empty set, not an error.
func (s *PostgresStorage) ListReactions(ctx context.Context, targetID string, kind api.ReactionKind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT actor_id FROM profile_reactions WHERE target_id = $1 AND kind = $2 ORDER BY created_at`,
		targetID, string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actors := make([]string, 0)
	for rows.Next() {
		var actorID string
		if err := rows.Scan(&actorID); err != nil {
			return nil, err
		}
		actors = append(actors, actorID)
	}
	return actors, rows.Err()
}
