package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"driftline/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByNickname(ctx context.Context, nickname string) (*model.User, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	// Update rewrites the editable profile fields (names, birthday).
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type FollowRepository interface {
	// Create inserts the edge; returns false if it already existed.
	Create(ctx context.Context, followerID, followedID int64) (bool, error)
	// Delete removes the edge; returns false if it did not exist.
	Delete(ctx context.Context, followerID, followedID int64) (bool, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	FollowingIDs(ctx context.Context, userID int64) ([]int64, error)
	FollowerIDs(ctx context.Context, userID int64) ([]int64, error)
	// DeleteAllForUser removes edges in both directions, for account deletion.
	DeleteAllForUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// GetForUpdate locks the post row for the duration of tx.
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, postID int64) (*model.Post, error)
	Exists(ctx context.Context, postID int64) (bool, error)
	// GetByAuthors returns every post authored by any of the given users,
	// newest first. The feed ranker reorders in memory per strategy.
	GetByAuthors(ctx context.Context, authorIDs []int64) ([]model.Post, error)
	IDsByAuthor(ctx context.Context, tx *sqlx.Tx, authorID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, tx *sqlx.Tx, postIDs []int64) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, comment *model.Comment) error
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// GetForUpdate locks the comment row so concurrent cascading deletes
	// of the same comment cannot both decrement the parent counter.
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, commentID int64) (*model.Comment, error)
	Exists(ctx context.Context, commentID int64) (bool, error)
	IDsByTarget(ctx context.Context, tx *sqlx.Tx, target model.TargetRef) ([]int64, error)
	IDsByAuthor(ctx context.Context, tx *sqlx.Tx, authorID int64) ([]int64, error)
	ListByIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) ([]model.Comment, error)
	// CollectSubtrees returns the given roots plus every descendant
	// comment, walking the reply adjacency with an explicit worklist.
	CollectSubtrees(ctx context.Context, tx *sqlx.Tx, rootIDs []int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) (int64, error)
}

type LikeRepository interface {
	// Create inserts the like; returns model.ErrAlreadyLiked on the
	// (user, target) unique constraint.
	Create(ctx context.Context, tx *sqlx.Tx, like *model.Like) error
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, likeID int64) (*model.Like, error)
	// Delete removes the like; returns false if it was already gone.
	Delete(ctx context.Context, tx *sqlx.Tx, likeID int64) (bool, error)
	DeleteByTargets(ctx context.Context, tx *sqlx.Tx, kind model.TargetKind, targetIDs []int64) (int64, error)
	ListByUser(ctx context.Context, tx *sqlx.Tx, userID int64) ([]model.Like, error)
	DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) (int64, error)
}

// CounterRepository maintains the denormalized like/comment counters on
// posts and comments. Increment runs inside the caller's transaction so
// the counter change commits or rolls back with the row mutation it is
// paired with; Recount rewrites a counter pair from the source tables.
type CounterRepository interface {
	Increment(ctx context.Context, tx *sqlx.Tx, target model.TargetRef, field model.CounterField, delta int) error
	Recount(ctx context.Context, target model.TargetRef) (model.Counters, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
