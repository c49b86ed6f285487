package model

import (
	"errors"
	"fmt"
)

// TargetKind discriminates the polymorphic target of a like or comment.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// TargetRef is a tagged reference to either a post or a comment. Every
// lookup, counter update and cascade switches on Kind; an unknown kind is
// rejected up front rather than dispatched at runtime.
type TargetRef struct {
	Kind TargetKind `json:"kind"`
	ID   int64      `json:"id"`
}

// PostTarget builds a reference to a post.
func PostTarget(id int64) TargetRef {
	return TargetRef{Kind: TargetPost, ID: id}
}

// CommentTarget builds a reference to a comment.
func CommentTarget(id int64) TargetRef {
	return TargetRef{Kind: TargetComment, ID: id}
}

// Validate checks the tag and id without touching storage.
func (t TargetRef) Validate() error {
	switch t.Kind {
	case TargetPost, TargetComment:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTargetKind, t.Kind)
	}
	if t.ID <= 0 {
		return ErrInvalidTargetID
	}
	return nil
}

func (t TargetRef) String() string {
	return fmt.Sprintf("%s/%d", t.Kind, t.ID)
}

// CounterField names a denormalized counter column on a target entity.
type CounterField string

const (
	CounterLikes    CounterField = "like_count"
	CounterComments CounterField = "comment_count"
)

// Counters holds the recomputed counter values for one target.
type Counters struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// Target errors
var (
	ErrInvalidTargetKind = errors.New("invalid target kind")
	ErrInvalidTargetID   = errors.New("invalid target id")
	ErrTargetNotFound    = errors.New("target not found")
)
