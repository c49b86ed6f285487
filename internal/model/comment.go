package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post or on another comment. A comment
// is itself a like/comment target, so it carries the same counter pair as
// a post (reply counters kept symmetric with posts).
type Comment struct {
	ID           int64      `db:"id" json:"id"`
	AuthorID     int64      `db:"author_id" json:"author_id"`
	TargetKind   TargetKind `db:"target_type" json:"target_kind"`
	TargetID     int64      `db:"target_id" json:"target_id"`
	Content      string     `db:"content" json:"content"`
	LikeCount    int        `db:"like_count" json:"like_count"`
	CommentCount int        `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Target returns the entity this comment was written on.
func (c *Comment) Target() TargetRef {
	return TargetRef{Kind: c.TargetKind, ID: c.TargetID}
}

// Self returns the comment as a polymorphic engagement target.
func (c *Comment) Self() TargetRef {
	return CommentTarget(c.ID)
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	TargetKind TargetKind `json:"target_kind"`
	TargetID   int64      `json:"target_id"`
	Content    string     `json:"content"`
}

// DeleteCommentResult reports the size of a cascading comment deletion.
type DeleteCommentResult struct {
	CommentsRemoved int   `json:"comments_removed"`
	LikesRemoved    int64 `json:"likes_removed"`
}

// Comment constraints
const (
	MaxCommentLength = 2200
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not allowed to delete this comment")
	ErrContentRequired = errors.New("comment content is required")
	ErrContentTooLong  = errors.New("comment content too long")
)
