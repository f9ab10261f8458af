package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/barnight/internal/audit"
)

// SaveEvent appends an audit event.
func (s *PostgresStore) SaveEvent(ctx context.Context, e audit.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode event metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO events (id, event_type, event_data, event_metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Type, data, metadata, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEvents returns events of one type, oldest first.
func (s *PostgresStore) ListEvents(ctx context.Context, eventType string) ([]audit.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_type, event_data, event_metadata, created_at
		 FROM events WHERE event_type = $1 ORDER BY created_at, seq`,
		eventType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := []audit.Event{}
	var e audit.Event
	var data []byte
	var metadata map[string]string
	_, err = pgx.ForEachRow(rows, []any{&e.ID, &e.Type, &data, &metadata, &e.CreatedAt}, func() error {
		event := e
		event.Data = json.RawMessage(append([]byte(nil), data...))
		event.Metadata = metadata
		metadata = nil
		events = append(events, event)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan events: %w", err)
	}
	return events, nil
}
