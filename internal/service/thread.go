package service

import (
	"context"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"driftline/internal/model"
	"driftline/internal/repository"
)

// OwnershipPolicy decides whether a user may delete a comment. The
// default allows only the comment's author; a deployment can widen this
// to moderators or to owners of the commented post.
type OwnershipPolicy func(comment *model.Comment, userID int64) bool

// AuthorOnlyPolicy permits deletion by the comment's author alone.
func AuthorOnlyPolicy(comment *model.Comment, userID int64) bool {
	return comment.AuthorID == userID
}

// ThreadService manages comments on posts and on other comments. Replies
// form a tree via the polymorphic target reference; deleting a comment
// removes its whole subtree and every like on it in one transaction.
type ThreadService struct {
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	counterRepo repository.CounterRepository
	targets     targetDirectory
	canDelete   OwnershipPolicy
	txRunner    repository.TxRunner
}

func NewThreadService(
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	counterRepo repository.CounterRepository,
	postRepo repository.PostRepository,
	txRunner repository.TxRunner,
) *ThreadService {
	return &ThreadService{
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		counterRepo: counterRepo,
		targets:     targetDirectory{posts: postRepo, comments: commentRepo},
		canDelete:   AuthorOnlyPolicy,
		txRunner:    txRunner,
	}
}

// SetOwnershipPolicy replaces the deletion policy. Must be called before
// the service starts handling requests.
func (s *ThreadService) SetOwnershipPolicy(policy OwnershipPolicy) {
	if policy != nil {
		s.canDelete = policy
	}
}

// AddComment creates a comment on a post or another comment. The insert
// and the target's comment_count increment commit together.
func (s *ThreadService) AddComment(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

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

	comment := &model.Comment{
		AuthorID:   userID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
		Content:    content,
	}
	err = s.txRunner.RunTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.commentRepo.Create(ctx, tx, comment); err != nil {
			return err
		}

		// If the target was deleted since the existence check this reports
		// not-found and the rollback discards the orphaned comment.
		return s.counterRepo.Increment(ctx, tx, target, model.CounterComments, 1)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ThreadService] AddComment: user=%d target=%s comment=%d", userID, target, comment.ID)
	return comment, nil
}

// GetByID returns a single comment.
func (s *ThreadService) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	return s.commentRepo.GetByID(ctx, commentID)
}

// DeleteComment removes a comment, every reply beneath it and every like
// on any of those comments, then decrements the parent target's
// comment_count by exactly one. All of it commits or rolls back as a
// unit, so surviving counters stay exact whatever happens mid-cascade.
func (s *ThreadService) DeleteComment(ctx context.Context, userID, commentID int64) (model.DeleteCommentResult, error) {
	var result model.DeleteCommentResult

	err := s.txRunner.RunTx(ctx, func(tx *sqlx.Tx) error {
		// The row lock serializes concurrent deletes of the same comment so
		// the parent counter is decremented exactly once.
		comment, err := s.commentRepo.GetForUpdate(ctx, tx, commentID)
		if err != nil {
			return err
		}
		if !s.canDelete(comment, userID) {
			return model.ErrNotCommentOwner
		}

		doomed, err := s.commentRepo.CollectSubtrees(ctx, tx, []int64{commentID})
		if err != nil {
			return err
		}

		likesRemoved, err := s.likeRepo.DeleteByTargets(ctx, tx, model.TargetComment, doomed)
		if err != nil {
			return err
		}

		commentsRemoved, err := s.commentRepo.DeleteByIDs(ctx, tx, doomed)
		if err != nil {
			return err
		}

		// Only the root's parent survives; every other deleted comment hangs
		// off another deleted comment, so no further decrements are owed.
		if err := s.counterRepo.Increment(ctx, tx, comment.Target(), model.CounterComments, -1); err != nil {
			return err
		}

		result = model.DeleteCommentResult{
			CommentsRemoved: int(commentsRemoved),
			LikesRemoved:    likesRemoved,
		}
		return nil
	})
	if err != nil {
		return model.DeleteCommentResult{}, err
	}

	log.Printf("[ThreadService] DeleteComment: user=%d root=%d comments=%d likes=%d",
		userID, commentID, result.CommentsRemoved, result.LikesRemoved)
	return result, nil
}
