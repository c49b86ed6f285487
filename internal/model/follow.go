package model

import "time"

// FollowEdge is a directed edge in the social graph. The ordered pair
// (follower_id, followed_id) is unique and self-loops are rejected.
type FollowEdge struct {
	FollowerID int64     `db:"follower_id" json:"follower_id"`
	FollowedID int64     `db:"followed_id" json:"followed_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FollowResult reports the outcome of a follow attempt. Self-follows and
// duplicate follows are ordinary outcomes, not errors.
type FollowResult string

const (
	FollowCreated          FollowResult = "created"
	FollowAlreadyFollowing FollowResult = "already_following"
	FollowSelfRejected     FollowResult = "self_follow_rejected"
)

// UnfollowResult reports the outcome of an unfollow attempt.
type UnfollowResult string

const (
	UnfollowRemoved      UnfollowResult = "removed"
	UnfollowNotFollowing UnfollowResult = "not_following"
)
