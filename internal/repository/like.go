package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"driftline/internal/model"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like row. The (user_id, target_type, target_id) unique
// constraint turns duplicate attempts into model.ErrAlreadyLiked, including
// the race where two requests insert concurrently.
func (r *likeRepository) Create(ctx context.Context, tx *sqlx.Tx, like *model.Like) error {
	query := `
		INSERT INTO likes (user_id, target_type, target_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := tx.QueryRowxContext(ctx, query, like.UserID, like.TargetKind, like.TargetID).
		Scan(&like.ID, &like.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// GetForUpdate locks the like row for the duration of tx so unlike and
// cascading deletes cannot both pair a decrement with the same row.
func (r *likeRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, likeID int64) (*model.Like, error) {
	query := `
		SELECT id, user_id, target_type, target_id, created_at
		FROM likes
		WHERE id = $1
		FOR UPDATE
	`
	var like model.Like
	err := tx.GetContext(ctx, &like, query, likeID)
	if err == sql.ErrNoRows {
		return nil, model.ErrLikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get like: %w", err)
	}
	return &like, nil
}

func (r *likeRepository) Delete(ctx context.Context, tx *sqlx.Tx, likeID int64) (bool, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, likeID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *likeRepository) DeleteByTargets(ctx context.Context, tx *sqlx.Tx, kind model.TargetKind, targetIDs []int64) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM likes WHERE target_type = $1 AND target_id = ANY($2)`
	result, err := tx.ExecContext(ctx, query, kind, pq.Array(targetIDs))
	if err != nil {
		return 0, fmt.Errorf("delete likes by targets: %w", err)
	}
	return result.RowsAffected()
}

func (r *likeRepository) ListByUser(ctx context.Context, tx *sqlx.Tx, userID int64) ([]model.Like, error) {
	query := `
		SELECT id, user_id, target_type, target_id, created_at
		FROM likes
		WHERE user_id = $1
	`
	var likes []model.Like
	err := tx.SelectContext(ctx, &likes, query, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("list likes by user: %w", err)
	}
	return likes, nil
}

func (r *likeRepository) DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) (int64, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete likes by user: %w", err)
	}
	return result.RowsAffected()
}
