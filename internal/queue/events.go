package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"driftline/internal/model"
)

// Event types for the counter stream
const (
	EventRecountRequested = "recount_requested"
)

// Stream names
const (
	StreamCounters = "stream:counters"
)

// Consumer group name for counter workers
const (
	ConsumerGroupCounters = "counter_workers"
)

// CounterEvent represents an event published to the counter stream.
// Recount requests carry the target whose denormalized counters should
// be rebuilt from the likes/comments tables.
type CounterEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	TargetKind model.TargetKind `json:"target_kind"`
	TargetID   int64            `json:"target_id"`
}

// Target returns the event's target as a reference.
func (e CounterEvent) Target() model.TargetRef {
	return model.TargetRef{Kind: e.TargetKind, ID: e.TargetID}
}

// NewRecountRequestedEvent creates an event asking a worker to rebuild the
// counter pair of the given target.
func NewRecountRequestedEvent(target model.TargetRef) CounterEvent {
	return CounterEvent{
		Type:       EventRecountRequested,
		Timestamp:  time.Now().Unix(),
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e CounterEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseCounterEvent parses a CounterEvent from Redis stream message values.
func ParseCounterEvent(values map[string]interface{}) (CounterEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return CounterEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event CounterEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return CounterEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
