package service

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"

	"driftline/internal/model"
	"driftline/internal/repository"
)

// EngagementService records likes against posts and comments. Every like
// mutation and its counter update run in one transaction, so the cached
// like_count on the target can never drift from the ledger.
type EngagementService struct {
	likeRepo    repository.LikeRepository
	counterRepo repository.CounterRepository
	targets     targetDirectory
	txRunner    repository.TxRunner
}

func NewEngagementService(
	likeRepo repository.LikeRepository,
	counterRepo repository.CounterRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	txRunner repository.TxRunner,
) *EngagementService {
	return &EngagementService{
		likeRepo:    likeRepo,
		counterRepo: counterRepo,
		targets:     targetDirectory{posts: postRepo, comments: commentRepo},
		txRunner:    txRunner,
	}
}

// Like records that a user liked a target. A second like of the same
// target by the same user returns model.ErrAlreadyLiked and leaves the
// counter untouched.
func (s *EngagementService) Like(ctx context.Context, userID int64, req model.CreateLikeRequest) (*model.Like, error) {
	target := model.TargetRef{Kind: req.TargetKind, ID: req.TargetID}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.targets.exists(ctx, target)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrTargetNotFound
	}

	like := &model.Like{
		UserID:     userID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
	err = s.txRunner.RunTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.likeRepo.Create(ctx, tx, like); err != nil {
			return err
		}

		// The unique index made this insert the first like for (user, target),
		// so the increment pairs with exactly one ledger row. If the target was
		// deleted since the existence check the increment reports not-found and
		// the rollback discards the orphaned like.
		return s.counterRepo.Increment(ctx, tx, target, model.CounterLikes, 1)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[EngagementService] Like: user=%d target=%s like=%d", userID, target, like.ID)
	return like, nil
}

// Unlike removes a like by id. Only the user who created the like may
// remove it. The delete and the counter decrement commit together.
func (s *EngagementService) Unlike(ctx context.Context, userID, likeID int64) error {
	var target model.TargetRef
	err := s.txRunner.RunTx(ctx, func(tx *sqlx.Tx) error {
		like, err := s.likeRepo.GetForUpdate(ctx, tx, likeID)
		if err != nil {
			return err
		}
		if like.UserID != userID {
			return model.ErrNotLikeOwner
		}
		target = like.Target()

		removed, err := s.likeRepo.Delete(ctx, tx, likeID)
		if err != nil {
			return err
		}
		if !removed {
			// The row lock above makes this unreachable in practice.
			return model.ErrLikeNotFound
		}

		return s.counterRepo.Increment(ctx, tx, target, model.CounterLikes, -1)
	})
	if err != nil {
		return err
	}

	log.Printf("[EngagementService] Unlike: user=%d target=%s like=%d", userID, target, likeID)
	return nil
}
