package service

import (
	"context"
	"log"

	"driftline/internal/model"
	"driftline/internal/queue"
	"driftline/internal/repository"
)

// CounterService repairs denormalized counters. The transactional write
// path keeps counters exact on its own; recounting exists for mutations
// that bypassed it, such as manual data surgery or imports.
type CounterService struct {
	counterRepo repository.CounterRepository
	targets     targetDirectory
	publisher   queue.Publisher
}

func NewCounterService(
	counterRepo repository.CounterRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	publisher queue.Publisher,
) *CounterService {
	return &CounterService{
		counterRepo: counterRepo,
		targets:     targetDirectory{posts: postRepo, comments: commentRepo},
		publisher:   publisher,
	}
}

// RecountFor rebuilds both counters of a target from the likes and
// comments tables and returns the recomputed pair. Idempotent.
func (s *CounterService) RecountFor(ctx context.Context, target model.TargetRef) (model.Counters, error) {
	if err := target.Validate(); err != nil {
		return model.Counters{}, err
	}

	counters, err := s.counterRepo.Recount(ctx, target)
	if err != nil {
		return model.Counters{}, err
	}

	log.Printf("[CounterService] Recount: target=%s likes=%d comments=%d",
		target, counters.Likes, counters.Comments)
	return counters, nil
}

// RequestRecount enqueues an asynchronous recount for a target. The
// target is validated and checked for existence up front so a bad
// request fails at the caller instead of in a worker.
func (s *CounterService) RequestRecount(ctx context.Context, target model.TargetRef) error {
	if err := target.Validate(); err != nil {
		return err
	}

	exists, err := s.targets.exists(ctx, target)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrTargetNotFound
	}

	event := queue.NewRecountRequestedEvent(target)
	msgID, err := s.publisher.Publish(ctx, queue.StreamCounters, event)
	if err != nil {
		return err
	}

	log.Printf("[CounterService] RequestRecount: target=%s msgID=%s", target, msgID)
	return nil
}
