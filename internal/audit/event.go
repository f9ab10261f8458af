// Package audit records what happened to bar nights. Events are queued on a
// buffered channel and written by a background Worker so request handlers
// never wait on the audit log.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the night service.
const (
	TypeNightCreated = "bar_night.created"
	TypeNightUpdated = "bar_night.updated"
	TypeNightDeleted = "bar_night.deleted"
)

// Event is a single audit record.
type Event struct {
	ID        string
	Type      string
	Data      any // marshalled to JSON when saved; json.RawMessage when read back
	Metadata  map[string]string
	CreatedAt int64
}

// EventOption configures an Event built by NewEvent.
type EventOption func(*Event)

// WithType sets the event type.
func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

// WithData attaches a JSON-serializable payload.
func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

// WithMetadata adds a single metadata entry.
func WithMetadata(key, value string) EventOption {
	return func(e *Event) {
		e.Metadata[key] = value
	}
}

// NewEvent creates an event with a fresh ID and timestamp.
func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().Unix(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// EventLogger persists events.
type EventLogger interface {
	SaveEvent(ctx context.Context, e Event) error
}
