package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"driftline/internal/model"
)

func newEngagementFixture(likeRepo *mockLikeRepository, counterRepo *mockCounterRepository,
	postRepo *mockPostRepository, commentRepo *mockCommentRepository) *EngagementService {
	return NewEngagementService(likeRepo, counterRepo, postRepo, commentRepo, &mockTxRunner{})
}

func existingPost(id int64) *mockPostRepository {
	return &mockPostRepository{
		existsFn: func(ctx context.Context, postID int64) (bool, error) {
			return postID == id, nil
		},
	}
}

func TestEngagementService_Like_InvalidTarget(t *testing.T) {
	svc := newEngagementFixture(&mockLikeRepository{}, &mockCounterRepository{},
		&mockPostRepository{}, &mockCommentRepository{})

	_, err := svc.Like(context.Background(), 1, model.CreateLikeRequest{
		TargetKind: "profile",
		TargetID:   1,
	})
	if !errors.Is(err, model.ErrInvalidTargetKind) {
		t.Fatalf("expected ErrInvalidTargetKind, got: %v", err)
	}

	_, err = svc.Like(context.Background(), 1, model.CreateLikeRequest{
		TargetKind: model.TargetComment,
		TargetID:   -3,
	})
	if !errors.Is(err, model.ErrInvalidTargetID) {
		t.Fatalf("expected ErrInvalidTargetID, got: %v", err)
	}
}

func TestEngagementService_Like_TargetNotFound(t *testing.T) {
	svc := newEngagementFixture(&mockLikeRepository{}, &mockCounterRepository{},
		&mockPostRepository{}, &mockCommentRepository{})

	_, err := svc.Like(context.Background(), 1, model.CreateLikeRequest{
		TargetKind: model.TargetPost,
		TargetID:   42,
	})
	if !errors.Is(err, model.ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got: %v", err)
	}
}

func TestEngagementService_Like_ChecksRightStore(t *testing.T) {
	var postChecked, commentChecked int64
	postRepo := &mockPostRepository{
		existsFn: func(ctx context.Context, postID int64) (bool, error) {
			postChecked = postID
			return false, nil
		},
	}
	commentRepo := &mockCommentRepository{
		existsFn: func(ctx context.Context, commentID int64) (bool, error) {
			commentChecked = commentID
			return false, nil
		},
	}
	svc := newEngagementFixture(&mockLikeRepository{}, &mockCounterRepository{}, postRepo, commentRepo)

	_, _ = svc.Like(context.Background(), 1, model.CreateLikeRequest{TargetKind: model.TargetPost, TargetID: 11})
	_, _ = svc.Like(context.Background(), 1, model.CreateLikeRequest{TargetKind: model.TargetComment, TargetID: 22})

	if postChecked != 11 {
		t.Errorf("post existence checked with id %d, want 11", postChecked)
	}
	if commentChecked != 22 {
		t.Errorf("comment existence checked with id %d, want 22", commentChecked)
	}
}

func TestEngagementService_Like_PairsInsertWithIncrement(t *testing.T) {
	likeRepo := &mockLikeRepository{
		createFn: func(ctx context.Context, like *model.Like) error {
			like.ID = 77
			return nil
		},
	}
	var gotTarget model.TargetRef
	var gotField model.CounterField
	var gotDelta int
	counterRepo := &mockCounterRepository{
		incrementFn: func(ctx context.Context, tx *sqlx.Tx, target model.TargetRef, field model.CounterField, delta int) error {
			gotTarget, gotField, gotDelta = target, field, delta
			return nil
		},
	}
	svc := newEngagementFixture(likeRepo, counterRepo, existingPost(11), &mockCommentRepository{})

	like, err := svc.Like(context.Background(), 1, model.CreateLikeRequest{
		TargetKind: model.TargetPost,
		TargetID:   11,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if like.ID != 77 {
		t.Errorf("like id = %d, want 77", like.ID)
	}
	if counterRepo.incrementCalls != 1 {
		t.Fatalf("increment calls = %d, want 1", counterRepo.incrementCalls)
	}
	if gotTarget != model.PostTarget(11) || gotField != model.CounterLikes || gotDelta != 1 {
		t.Errorf("increment(%s, %s, %d), want (%s, %s, 1)",
			gotTarget, gotField, gotDelta, model.PostTarget(11), model.CounterLikes)
	}
}

func TestEngagementService_Like_Duplicate_LeavesCounterUntouched(t *testing.T) {
	likeRepo := &mockLikeRepository{
		createFn: func(ctx context.Context, like *model.Like) error {
			return model.ErrAlreadyLiked
		},
	}
	counterRepo := &mockCounterRepository{}
	svc := newEngagementFixture(likeRepo, counterRepo, existingPost(11), &mockCommentRepository{})

	_, err := svc.Like(context.Background(), 1, model.CreateLikeRequest{
		TargetKind: model.TargetPost,
		TargetID:   11,
	})
	if !errors.Is(err, model.ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got: %v", err)
	}
	if counterRepo.incrementCalls != 0 {
		t.Errorf("duplicate like incremented the counter %d times, want 0", counterRepo.incrementCalls)
	}
}

func TestEngagementService_Unlike_NotOwner_NoMutation(t *testing.T) {
	likeRepo := &mockLikeRepository{
		getForUpdateFn: func(ctx context.Context, likeID int64) (*model.Like, error) {
			return &model.Like{ID: likeID, UserID: 99, TargetKind: model.TargetPost, TargetID: 11}, nil
		},
	}
	counterRepo := &mockCounterRepository{}
	svc := newEngagementFixture(likeRepo, counterRepo, &mockPostRepository{}, &mockCommentRepository{})

	err := svc.Unlike(context.Background(), 1, 5)
	if !errors.Is(err, model.ErrNotLikeOwner) {
		t.Fatalf("expected ErrNotLikeOwner, got: %v", err)
	}
	if likeRepo.deleteCalls != 0 {
		t.Errorf("non-owner unlike deleted %d rows, want 0", likeRepo.deleteCalls)
	}
	if counterRepo.incrementCalls != 0 {
		t.Errorf("non-owner unlike touched the counter %d times, want 0", counterRepo.incrementCalls)
	}
}

func TestEngagementService_Unlike_PairsDeleteWithDecrement(t *testing.T) {
	likeRepo := &mockLikeRepository{
		getForUpdateFn: func(ctx context.Context, likeID int64) (*model.Like, error) {
			return &model.Like{ID: likeID, UserID: 1, TargetKind: model.TargetComment, TargetID: 22}, nil
		},
		deleteFn: func(ctx context.Context, likeID int64) (bool, error) {
			return true, nil
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
	svc := newEngagementFixture(likeRepo, counterRepo, &mockPostRepository{}, &mockCommentRepository{})

	if err := svc.Unlike(context.Background(), 1, 5); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if likeRepo.deleteCalls != 1 {
		t.Errorf("delete calls = %d, want 1", likeRepo.deleteCalls)
	}
	if counterRepo.incrementCalls != 1 {
		t.Fatalf("increment calls = %d, want 1", counterRepo.incrementCalls)
	}
	if gotTarget != model.CommentTarget(22) || gotDelta != -1 {
		t.Errorf("increment(%s, %d), want (%s, -1)", gotTarget, gotDelta, model.CommentTarget(22))
	}
}
