package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"driftline/internal/model"
)

type counterRepository struct {
	db *sqlx.DB
}

func NewCounterRepository(db *sqlx.DB) CounterRepository {
	return &counterRepository{db: db}
}

// tableFor maps the target tag to its table. Both tables carry the same
// counter column pair, which is what keeps this switch exhaustive and small.
func tableFor(kind model.TargetKind) (string, error) {
	switch kind {
	case model.TargetPost:
		return "posts", nil
	case model.TargetComment:
		return "comments", nil
	default:
		return "", fmt.Errorf("%w: %q", model.ErrInvalidTargetKind, kind)
	}
}

func columnFor(field model.CounterField) (string, error) {
	switch field {
	case model.CounterLikes:
		return "like_count", nil
	case model.CounterComments:
		return "comment_count", nil
	default:
		return "", fmt.Errorf("unknown counter field: %q", field)
	}
}

// Increment adjusts a counter on the target row inside the caller's
// transaction. The row UPDATE takes a row-level lock, so concurrent
// increments against the same target serialize; zero rows affected means
// the target vanished and the whole transaction must roll back.
func (r *counterRepository) Increment(ctx context.Context, tx *sqlx.Tx, target model.TargetRef, field model.CounterField, delta int) error {
	table, err := tableFor(target.Kind)
	if err != nil {
		return err
	}
	column, err := columnFor(field)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = %s + $1 WHERE id = $2`, table, column, column)
	result, err := tx.ExecContext(ctx, query, delta, target.ID)
	if err != nil {
		return fmt.Errorf("update %s.%s: %w", table, column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrTargetNotFound
	}
	return nil
}

// Recount rewrites both counters of a target from the likes/comments
// tables in a single statement. Idempotent: recounting a correct pair
// changes nothing. This is the repair path for administrative mutations
// that bypassed the transactional increments.
func (r *counterRepository) Recount(ctx context.Context, target model.TargetRef) (model.Counters, error) {
	table, err := tableFor(target.Kind)
	if err != nil {
		return model.Counters{}, err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			like_count = (SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2),
			comment_count = (SELECT COUNT(*) FROM comments WHERE target_type = $1 AND target_id = $2)
		WHERE id = $2
		RETURNING like_count, comment_count
	`, table)

	var counters model.Counters
	err = r.db.QueryRowxContext(ctx, query, target.Kind, target.ID).
		Scan(&counters.Likes, &counters.Comments)
	if err == sql.ErrNoRows {
		return model.Counters{}, model.ErrTargetNotFound
	}
	if err != nil {
		return model.Counters{}, fmt.Errorf("recount %s: %w", target, err)
	}
	return counters, nil
}
