package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const EventAttendanceRecorded = "attendance.recorded"

// Event is a domain event envelope. Payload is marshalled as JSON.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops events. It is used when no queue is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, event Event) error {
	slog.Debug("event dropped, no queue configured", "event_type", event.Type, "event_id", event.ID)
	return nil
}
