package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minhchau-creator/blogger.com/internal/core/likes"
)

type postgresLikeRepo struct {
	db *sql.DB
}

// NewLikeRepository creates a new PostgreSQL like repository
func NewLikeRepository(db *sql.DB) likes.Repository {
	return &postgresLikeRepo{db: db}
}

// Insert stores the like. Returns false when it already existed.
func (r *postgresLikeRepo) Insert(ctx context.Context, userID, postID string) (bool, error) {
	query := `
		INSERT INTO post_likes (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING`

	res, err := conn(ctx, r.db).ExecContext(ctx, query, userID, postID)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidID(err) {
			return false, likes.ErrPostNotFound
		}
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	return rowsAffected(res)
}

// Delete removes the like. Returns false when there was none.
func (r *postgresLikeRepo) Delete(ctx context.Context, userID, postID string) (bool, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return rowsAffected(res)
}

func (r *postgresLikeRepo) Exists(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE user_id = $1 AND post_id = $2)`, userID, postID,
	).Scan(&exists)
	if isInvalidID(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}
