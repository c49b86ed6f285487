package service

import (
	"context"
	"log"

	"driftline/internal/model"
	"driftline/internal/repository"
)

// FollowService manages the directed follow graph. Follow and unfollow
// report their outcome as an explicit result value; the rejected and
// no-op cases are ordinary outcomes, not errors.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates the follower -> followed edge. Self-follows are rejected
// before any storage access; an existing edge is reported, not an error.
// Returns model.ErrUserNotFound when the followed user does not exist.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID int64) (model.FollowResult, error) {
	if followerID == followedID {
		return model.FollowSelfRejected, nil
	}

	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return "", err
	}

	created, err := s.followRepo.Create(ctx, followerID, followedID)
	if err != nil {
		return "", err
	}
	if !created {
		return model.FollowAlreadyFollowing, nil
	}

	log.Printf("[FollowService] Follow: follower=%d followed=%d", followerID, followedID)
	return model.FollowCreated, nil
}

// Unfollow removes the edge if present. Unfollowing someone never followed
// is reported as a distinct outcome so repeated unfollows stay idempotent.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID int64) (model.UnfollowResult, error) {
	removed, err := s.followRepo.Delete(ctx, followerID, followedID)
	if err != nil {
		return "", err
	}
	if !removed {
		return model.UnfollowNotFollowing, nil
	}

	log.Printf("[FollowService] Unfollow: follower=%d followed=%d", followerID, followedID)
	return model.UnfollowRemoved, nil
}

// IsFollowing reports whether the directed edge exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followedID)
}

// FollowingIDs returns the ids of every user the given user follows.
func (s *FollowService) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.followRepo.FollowingIDs(ctx, userID)
}

// FollowerIDs returns the ids of every user following the given user.
func (s *FollowService) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.followRepo.FollowerIDs(ctx, userID)
}
