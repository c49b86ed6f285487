package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"driftline/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment. Runs inside the caller's transaction so the
// insert and the target's counter increment commit together.
func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, comment *model.Comment) error {
	query := `
		INSERT INTO comments (author_id, target_type, target_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, like_count, comment_count, created_at
	`
	err := tx.QueryRowxContext(ctx, query,
		comment.AuthorID, comment.TargetKind, comment.TargetID, comment.Content,
	).Scan(&comment.ID, &comment.LikeCount, &comment.CommentCount, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, author_id, target_type, target_id, content, like_count, comment_count, created_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, author_id, target_type, target_id, content, like_count, comment_count, created_at
		FROM comments
		WHERE id = $1
		FOR UPDATE
	`
	var comment model.Comment
	err := tx.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment for update: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) Exists(ctx context.Context, commentID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, commentID)
	if err != nil {
		return false, fmt.Errorf("check comment exists: %w", err)
	}
	return exists, nil
}

func (r *commentRepository) IDsByTarget(ctx context.Context, tx *sqlx.Tx, target model.TargetRef) ([]int64, error) {
	query := `SELECT id FROM comments WHERE target_type = $1 AND target_id = $2`
	var ids []int64
	err := tx.SelectContext(ctx, &ids, query, target.Kind, target.ID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get comment ids by target: %w", err)
	}
	return ids, nil
}

func (r *commentRepository) IDsByAuthor(ctx context.Context, tx *sqlx.Tx, authorID int64) ([]int64, error) {
	query := `SELECT id FROM comments WHERE author_id = $1`
	var ids []int64
	err := tx.SelectContext(ctx, &ids, query, authorID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get comment ids by author: %w", err)
	}
	return ids, nil
}

func (r *commentRepository) ListByIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) ([]model.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, author_id, target_type, target_id, content, like_count, comment_count, created_at
		FROM comments
		WHERE id = ANY($1)
	`
	var comments []model.Comment
	err := tx.SelectContext(ctx, &comments, query, pq.Array(ids))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("list comments by ids: %w", err)
	}
	return comments, nil
}

// CollectSubtrees walks the reply adjacency breadth-first with an explicit
// worklist, one batched query per depth level. Arbitrarily deep threads
// never grow the call stack; the frontier is bounded by the widest level.
// Returns the roots plus every transitive descendant, deduplicated.
func (r *commentRepository) CollectSubtrees(ctx context.Context, tx *sqlx.Tx, rootIDs []int64) ([]int64, error) {
	if len(rootIDs) == 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{}, len(rootIDs))
	var all []int64

	frontier := make([]int64, 0, len(rootIDs))
	for _, id := range rootIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		all = append(all, id)
		frontier = append(frontier, id)
	}

	query := `SELECT id FROM comments WHERE target_type = $1 AND target_id = ANY($2)`

	for len(frontier) > 0 {
		var children []int64
		err := tx.SelectContext(ctx, &children, query, model.TargetComment, pq.Array(frontier))
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("collect comment subtree: %w", err)
		}

		frontier = frontier[:0]
		for _, id := range children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
			frontier = append(frontier, id)
		}
	}

	return all, nil
}

func (r *commentRepository) DeleteByIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	return result.RowsAffected()
}
