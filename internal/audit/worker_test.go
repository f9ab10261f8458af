package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingLogger struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (l *recordingLogger) SaveEvent(ctx context.Context, e Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return errors.New("disk full")
	}
	l.events = append(l.events, e)
	return nil
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(
		WithType(TypeNightCreated),
		WithData(map[string]any{"total_amount": 90.0}),
		WithMetadata("user_id", "u-1"),
	)

	if e.ID == "" {
		t.Error("expected ID to be generated")
	}
	if e.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}
	if e.Type != TypeNightCreated {
		t.Errorf("Type = %q, want %q", e.Type, TypeNightCreated)
	}
	if e.Metadata["user_id"] != "u-1" {
		t.Errorf("Metadata[user_id] = %q, want u-1", e.Metadata["user_id"])
	}
}

func TestWorker_ShutdownWritesQueuedEvents(t *testing.T) {
	logger := &recordingLogger{}
	worker := NewWorker(logger, 10)

	// Queue before starting so every event is still buffered at shutdown.
	for i := 0; i < 5; i++ {
		worker.Enqueue(NewEvent(WithType(TypeNightUpdated)))
	}
	worker.Start()
	worker.Shutdown()

	if got := logger.count(); got != 5 {
		t.Errorf("saved %d events, want 5", got)
	}
}

func TestWorker_DropsWhenFull(t *testing.T) {
	logger := &recordingLogger{}
	worker := NewWorker(logger, 2)

	for i := 0; i < 4; i++ {
		worker.Enqueue(NewEvent(WithType(TypeNightDeleted)))
	}
	worker.Start()
	worker.Shutdown()

	if got := logger.count(); got != 2 {
		t.Errorf("saved %d events, want 2", got)
	}
}

func TestWorker_SaveErrorsDoNotStopWorker(t *testing.T) {
	logger := &recordingLogger{fail: true}
	worker := NewWorker(logger, 4)
	worker.Enqueue(NewEvent(WithType(TypeNightCreated)))
	worker.Start()
	worker.Shutdown()

	if got := logger.count(); got != 0 {
		t.Errorf("saved %d events, want 0", got)
	}
}
