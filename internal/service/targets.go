package service

import (
	"context"
	"fmt"

	"driftline/internal/model"
	"driftline/internal/repository"
)

// targetDirectory resolves polymorphic target references against the
// post and comment stores. Shared by the engagement and thread services.
type targetDirectory struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
}

func (d targetDirectory) exists(ctx context.Context, target model.TargetRef) (bool, error) {
	switch target.Kind {
	case model.TargetPost:
		return d.posts.Exists(ctx, target.ID)
	case model.TargetComment:
		return d.comments.Exists(ctx, target.ID)
	default:
		return false, fmt.Errorf("%w: %q", model.ErrInvalidTargetKind, target.Kind)
	}
}
