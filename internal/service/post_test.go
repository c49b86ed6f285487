package service

import (
	"context"
	"errors"
	"testing"

	"driftline/internal/model"
)

func TestPostService_Create(t *testing.T) {
	postRepo := &mockPostRepository{
		createFn: func(ctx context.Context, post *model.Post) error {
			post.ID = 1
			return nil
		},
	}
	svc := NewPostService(postRepo, &mockCommentRepository{}, &mockLikeRepository{}, &mockTxRunner{})

	post, err := svc.Create(context.Background(), 9, model.CreatePostRequest{
		Title: "First light",
		Body:  "hello world",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if post.AuthorID != 9 {
		t.Errorf("author = %d, want 9", post.AuthorID)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	svc := NewPostService(&mockPostRepository{}, &mockCommentRepository{}, &mockLikeRepository{}, &mockTxRunner{})

	_, err := svc.Create(context.Background(), 9, model.CreatePostRequest{Title: "  ", Body: "body"})
	if !errors.Is(err, model.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got: %v", err)
	}

	_, err = svc.Create(context.Background(), 9, model.CreatePostRequest{Title: "title", Body: ""})
	if !errors.Is(err, model.ErrBodyRequired) {
		t.Fatalf("expected ErrBodyRequired, got: %v", err)
	}
}
