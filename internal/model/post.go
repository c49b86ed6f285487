package model

import (
	"errors"
	"time"
)

// Post represents a published post with its denormalized engagement counters.
// like_count and comment_count are caches over the likes/comments tables;
// every mutation of those tables updates them in the same transaction.
type Post struct {
	ID           int64     `db:"id" json:"id"`
	AuthorID     int64     `db:"author_id" json:"author_id"`
	Title        string    `db:"title" json:"title"`
	Body         string    `db:"body" json:"body"`
	PublishedAt  time.Time `db:"published_at" json:"published_at"`
	LikeCount    int       `db:"like_count" json:"like_count"`
	CommentCount int       `db:"comment_count" json:"comment_count"`
}

// Target returns the post as a polymorphic engagement target.
func (p *Post) Target() TargetRef {
	return PostTarget(p.ID)
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Post errors
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostOwner  = errors.New("not the owner of this post")
	ErrTitleRequired = errors.New("post title is required")
	ErrBodyRequired  = errors.New("post body is required")
)
