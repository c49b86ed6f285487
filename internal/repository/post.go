package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"driftline/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post; published_at is assigned by the database at
// insert time.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (author_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id, published_at, like_count, comment_count
	`
	err := r.db.QueryRowxContext(ctx, query, post.AuthorID, post.Title, post.Body).
		Scan(&post.ID, &post.PublishedAt, &post.LikeCount, &post.CommentCount)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, author_id, title, body, published_at, like_count, comment_count
		FROM posts
		WHERE id = $1
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, postID int64) (*model.Post, error) {
	query := `
		SELECT id, author_id, title, body, published_at, like_count, comment_count
		FROM posts
		WHERE id = $1
		FOR UPDATE
	`
	var post model.Post
	err := tx.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post for update: %w", err)
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return exists, nil
}

func (r *postRepository) GetByAuthors(ctx context.Context, authorIDs []int64) ([]model.Post, error) {
	if len(authorIDs) == 0 {
		return []model.Post{}, nil
	}

	query := `
		SELECT id, author_id, title, body, published_at, like_count, comment_count
		FROM posts
		WHERE author_id = ANY($1)
		ORDER BY published_at DESC, id DESC
	`
	var posts []model.Post
	err := r.db.SelectContext(ctx, &posts, query, pq.Array(authorIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get posts by authors: %w", err)
	}
	return posts, nil
}

func (r *postRepository) IDsByAuthor(ctx context.Context, tx *sqlx.Tx, authorID int64) ([]int64, error) {
	var ids []int64
	err := tx.SelectContext(ctx, &ids, `SELECT id FROM posts WHERE author_id = $1`, authorID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get post ids by author: %w", err)
	}
	return ids, nil
}

func (r *postRepository) DeleteByIDs(ctx context.Context, tx *sqlx.Tx, postIDs []int64) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ANY($1)`, pq.Array(postIDs))
	if err != nil {
		return 0, fmt.Errorf("delete posts: %w", err)
	}
	return result.RowsAffected()
}
