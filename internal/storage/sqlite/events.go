package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mmynk/barnight/internal/audit"
)

// SaveEvent appends an audit event.
func (s *SQLiteStore) SaveEvent(ctx context.Context, e audit.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode event metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO events (id, event_type, event_data, event_metadata, created_at) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.Type, string(data), string(metadata), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEvents returns events of one type, oldest first.
func (s *SQLiteStore) ListEvents(ctx context.Context, eventType string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_type, event_data, event_metadata, created_at
		 FROM events WHERE event_type = ? ORDER BY created_at, rowid`,
		eventType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []audit.Event{}
	for rows.Next() {
		var e audit.Event
		var data, metadata string
		if err := rows.Scan(&e.ID, &e.Type, &data, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Data = json.RawMessage(data)
		if err := json.Unmarshal([]byte(metadata), &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode event metadata: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
