package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"driftline/internal/model"
)

func newThreadFixture(commentRepo *mockCommentRepository, postRepo *mockPostRepository) *ThreadService {
	return NewThreadService(commentRepo, &mockLikeRepository{}, &mockCounterRepository{}, postRepo, &mockTxRunner{})
}

func TestThreadService_AddComment_ContentRequired(t *testing.T) {
	svc := newThreadFixture(&mockCommentRepository{}, &mockPostRepository{})

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.AddComment(context.Background(), 1, model.CreateCommentRequest{
			TargetKind: model.TargetPost,
			TargetID:   1,
			Content:    content,
		})
		if !errors.Is(err, model.ErrContentRequired) {
			t.Errorf("content %q: expected ErrContentRequired, got: %v", content, err)
		}
	}
}

func TestThreadService_AddComment_ContentTooLong(t *testing.T) {
	svc := newThreadFixture(&mockCommentRepository{}, &mockPostRepository{})

	_, err := svc.AddComment(context.Background(), 1, model.CreateCommentRequest{
		TargetKind: model.TargetPost,
		TargetID:   1,
		Content:    strings.Repeat("x", model.MaxCommentLength+1),
	})
	if !errors.Is(err, model.ErrContentTooLong) {
		t.Fatalf("expected ErrContentTooLong, got: %v", err)
	}
}

func TestThreadService_AddComment_InvalidTarget(t *testing.T) {
	svc := newThreadFixture(&mockCommentRepository{}, &mockPostRepository{})

	_, err := svc.AddComment(context.Background(), 1, model.CreateCommentRequest{
		TargetKind: "story",
		TargetID:   1,
		Content:    "hello",
	})
	if !errors.Is(err, model.ErrInvalidTargetKind) {
		t.Fatalf("expected ErrInvalidTargetKind, got: %v", err)
	}

	_, err = svc.AddComment(context.Background(), 1, model.CreateCommentRequest{
		TargetKind: model.TargetPost,
		TargetID:   0,
		Content:    "hello",
	})
	if !errors.Is(err, model.ErrInvalidTargetID) {
		t.Fatalf("expected ErrInvalidTargetID, got: %v", err)
	}
}

func TestThreadService_AddComment_TargetNotFound(t *testing.T) {
	// Exists defaults to false for both kinds
	svc := newThreadFixture(&mockCommentRepository{}, &mockPostRepository{})

	for _, target := range []model.TargetRef{model.PostTarget(42), model.CommentTarget(42)} {
		_, err := svc.AddComment(context.Background(), 1, model.CreateCommentRequest{
			TargetKind: target.Kind,
			TargetID:   target.ID,
			Content:    "hello",
		})
		if !errors.Is(err, model.ErrTargetNotFound) {
			t.Errorf("target %s: expected ErrTargetNotFound, got: %v", target, err)
		}
	}
}

func TestThreadService_GetByID(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, Content: "hi"}, nil
		},
	}
	svc := newThreadFixture(commentRepo, &mockPostRepository{})

	comment, err := svc.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if comment.ID != 5 {
		t.Errorf("id = %d, want 5", comment.ID)
	}
}

func TestThreadService_AddComment_PairsInsertWithIncrement(t *testing.T) {
	commentRepo := &mockCommentRepository{}
	postRepo := existingPost(7)
	var gotTarget model.TargetRef
	var gotField model.CounterField
	var gotDelta int
	counterRepo := &mockCounterRepository{
		incrementFn: func(ctx context.Context, tx *sqlx.Tx, target model.TargetRef, field model.CounterField, delta int) error {
			gotTarget, gotField, gotDelta = target, field, delta
			return nil
		},
	}
	svc := NewThreadService(commentRepo, &mockLikeRepository{}, counterRepo, postRepo, &mockTxRunner{})

	comment, err := svc.AddComment(context.Background(), 1, model.CreateCommentRequest{
		TargetKind: model.TargetPost,
		TargetID:   7,
		Content:    "  hello  ",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if comment.Content != "hello" {
		t.Errorf("content = %q, want trimmed %q", comment.Content, "hello")
	}
	if counterRepo.incrementCalls != 1 {
		t.Fatalf("increment calls = %d, want 1", counterRepo.incrementCalls)
	}
	if gotTarget != model.PostTarget(7) || gotField != model.CounterComments || gotDelta != 1 {
		t.Errorf("increment(%s, %s, %d), want (%s, %s, 1)",
			gotTarget, gotField, gotDelta, model.PostTarget(7), model.CounterComments)
	}
}

func TestThreadService_DeleteComment_CascadesSubtree(t *testing.T) {
	// Comment 5 on post 7 has replies 6 and 8; 8 has reply 9. Six likes sit
	// across the subtree.
	commentRepo := &mockCommentRepository{
		getForUpdateFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, AuthorID: 1, TargetKind: model.TargetPost, TargetID: 7}, nil
		},
		collectSubtreesFn: func(ctx context.Context, rootIDs []int64) ([]int64, error) {
			return []int64{5, 6, 8, 9}, nil
		},
	}
	var likedKind model.TargetKind
	var likedIDs []int64
	likeRepo := &mockLikeRepository{
		deleteByTargetsFn: func(ctx context.Context, kind model.TargetKind, targetIDs []int64) (int64, error) {
			likedKind, likedIDs = kind, targetIDs
			return 6, nil
		},
	}
	var gotTarget model.TargetRef
	var gotDelta int
	counterRepo := &mockCounterRepository{
		incrementFn: func(ctx context.Context, tx *sqlx.Tx, target model.TargetRef, field model.CounterField, delta int) error {
			gotTarget, gotDelta = target, delta
			return nil
		},
	}
	svc := NewThreadService(commentRepo, likeRepo, counterRepo, &mockPostRepository{}, &mockTxRunner{})

	result, err := svc.DeleteComment(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.CommentsRemoved != 4 {
		t.Errorf("comments removed = %d, want 4", result.CommentsRemoved)
	}
	if result.LikesRemoved != 6 {
		t.Errorf("likes removed = %d, want 6", result.LikesRemoved)
	}

	if likedKind != model.TargetComment {
		t.Errorf("likes deleted for kind %q, want %q", likedKind, model.TargetComment)
	}
	if len(likedIDs) != 4 {
		t.Errorf("likes deleted for %d comments, want 4", len(likedIDs))
	}
	if len(commentRepo.deletedIDs) != 4 {
		t.Errorf("comment rows deleted = %d, want 4", len(commentRepo.deletedIDs))
	}

	// Only the root's surviving parent is decremented, exactly once
	if counterRepo.incrementCalls != 1 {
		t.Fatalf("increment calls = %d, want 1", counterRepo.incrementCalls)
	}
	if gotTarget != model.PostTarget(7) || gotDelta != -1 {
		t.Errorf("increment(%s, %d), want (%s, -1)", gotTarget, gotDelta, model.PostTarget(7))
	}
}

func TestThreadService_DeleteComment_NotOwner_NoMutation(t *testing.T) {
	commentRepo := &mockCommentRepository{
		getForUpdateFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			return &model.Comment{ID: commentID, AuthorID: 2, TargetKind: model.TargetPost, TargetID: 7}, nil
		},
	}
	counterRepo := &mockCounterRepository{}
	svc := NewThreadService(commentRepo, &mockLikeRepository{}, counterRepo, &mockPostRepository{}, &mockTxRunner{})

	_, err := svc.DeleteComment(context.Background(), 1, 5)
	if !errors.Is(err, model.ErrNotCommentOwner) {
		t.Fatalf("expected ErrNotCommentOwner, got: %v", err)
	}
	if len(commentRepo.deletedIDs) != 0 {
		t.Errorf("non-owner delete removed %d comments, want 0", len(commentRepo.deletedIDs))
	}
	if counterRepo.incrementCalls != 0 {
		t.Errorf("non-owner delete touched the counter %d times, want 0", counterRepo.incrementCalls)
	}
}

func TestAuthorOnlyPolicy(t *testing.T) {
	comment := &model.Comment{ID: 1, AuthorID: 10}

	if !AuthorOnlyPolicy(comment, 10) {
		t.Error("author should be allowed to delete")
	}
	if AuthorOnlyPolicy(comment, 11) {
		t.Error("non-author should not be allowed to delete")
	}
}
