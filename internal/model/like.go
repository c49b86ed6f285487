package model

import (
	"errors"
	"time"
)

// Like is one row in the engagement ledger: a user liking a post or a
// comment. (user_id, target_type, target_id) is unique.
type Like struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	TargetKind TargetKind `db:"target_type" json:"target_kind"`
	TargetID   int64      `db:"target_id" json:"target_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Target returns the liked entity.
func (l *Like) Target() TargetRef {
	return TargetRef{Kind: l.TargetKind, ID: l.TargetID}
}

// CreateLikeRequest is the request body for liking a target.
type CreateLikeRequest struct {
	TargetKind TargetKind `json:"target_kind"`
	TargetID   int64      `json:"target_id"`
}

// Like errors
var (
	// ErrAlreadyLiked is returned when (user, target) already has a like
	ErrAlreadyLiked = errors.New("target already liked by this user")

	ErrLikeNotFound = errors.New("like not found")
	ErrNotLikeOwner = errors.New("not the owner of this like")
)
