package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Worker drains queued events into an EventLogger on its own goroutine.
type Worker struct {
	eventCh chan Event
	logger  EventLogger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorker creates a worker with room for bufferSize pending events.
func NewWorker(logger EventLogger, bufferSize int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		eventCh: make(chan Event, bufferSize),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the background goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				w.drain()
				return
			case event := <-w.eventCh:
				// Not w.ctx: a save in flight must survive Shutdown
				if err := w.logger.SaveEvent(context.WithoutCancel(w.ctx), event); err != nil {
					slog.Error("failed to save audit event", "error", err, "event_type", event.Type)
				}
			}
		}
	}()
}

func (w *Worker) drain() {
	slog.Info("Draining audit events before shutdown", "remaining_events", len(w.eventCh))
	for {
		select {
		case event := <-w.eventCh:
			if err := w.logger.SaveEvent(context.Background(), event); err != nil {
				slog.Error("failed to save audit event during shutdown", "error", err, "event_type", event.Type)
			}
		default:
			return
		}
	}
}

// Enqueue queues an event without blocking. When the buffer is full the
// event is dropped and a warning is logged.
func (w *Worker) Enqueue(event Event) {
	select {
	case w.eventCh <- event:
	default:
		slog.Warn("audit channel full, dropping event", "event_type", event.Type)
	}
}

// Shutdown stops the worker after writing every event already queued.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}
