package service

import (
	"context"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"driftline/internal/model"
	"driftline/internal/repository"
)

// PostService manages posts. Deleting a post cascades over its whole
// comment tree and every like touching the post or those comments.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	txRunner    repository.TxRunner
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	txRunner repository.TxRunner,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		txRunner:    txRunner,
	}
}

// Create publishes a new post. Title and body are both required;
// published_at is assigned by the database.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.Post, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.ErrTitleRequired
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, model.ErrBodyRequired
	}

	post := &model.Post{
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	log.Printf("[PostService] Create: user=%d post=%d", userID, post.ID)
	return post, nil
}

// GetByID returns a single post with its current counters.
func (s *PostService) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// ListByAuthor returns a user's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	return s.postRepo.GetByAuthors(ctx, []int64{authorID})
}

// Delete removes a post, its full comment tree and every like on the
// post or any of those comments, in one transaction. Only the author may
// delete. No counter updates are owed: nothing that referenced the post
// survives the cascade.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	var removedComments int
	err := s.txRunner.RunTx(ctx, func(tx *sqlx.Tx) error {
		post, err := s.postRepo.GetForUpdate(ctx, tx, postID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return model.ErrNotPostOwner
		}

		roots, err := s.commentRepo.IDsByTarget(ctx, tx, post.Target())
		if err != nil {
			return err
		}
		doomed, err := s.commentRepo.CollectSubtrees(ctx, tx, roots)
		if err != nil {
			return err
		}
		removedComments = len(doomed)

		if _, err := s.likeRepo.DeleteByTargets(ctx, tx, model.TargetComment, doomed); err != nil {
			return err
		}
		if _, err := s.likeRepo.DeleteByTargets(ctx, tx, model.TargetPost, []int64{postID}); err != nil {
			return err
		}
		if _, err := s.commentRepo.DeleteByIDs(ctx, tx, doomed); err != nil {
			return err
		}
		_, err = s.postRepo.DeleteByIDs(ctx, tx, []int64{postID})
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("[PostService] Delete: user=%d post=%d comments=%d", userID, postID, removedComments)
	return nil
}
