package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"driftline/internal/model"
	"driftline/internal/queue"
)

// CounterRecounter rebuilds the denormalized counters of a target.
// Abstracts the counter service so workers don't depend on it directly.
type CounterRecounter interface {
	RecountFor(ctx context.Context, target model.TargetRef) (model.Counters, error)
}

// Handler processes counter events from the queue.
type Handler struct {
	recounter CounterRecounter
}

// NewHandler creates a new event handler.
func NewHandler(recounter CounterRecounter) *Handler {
	return &Handler{recounter: recounter}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.CounterEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventRecountRequested:
		err = h.handleRecountRequested(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleRecountRequested rebuilds a target's counter pair. A target that
// was deleted after the request was enqueued is not an error; the recount
// is simply moot.
func (h *Handler) handleRecountRequested(ctx context.Context, event queue.CounterEvent) error {
	target := event.Target()
	log.Printf("[Worker] RecountRequested: target=%s", target)

	counters, err := h.recounter.RecountFor(ctx, target)
	if err != nil {
		if errors.Is(err, model.ErrTargetNotFound) {
			log.Printf("[Worker] RecountRequested: target=%s gone, skipping", target)
			return nil
		}
		return fmt.Errorf("recount %s: %w", target, err)
	}

	log.Printf("[Worker] RecountRequested DONE: target=%s likes=%d comments=%d",
		target, counters.Likes, counters.Comments)
	return nil
}
