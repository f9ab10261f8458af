// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using pgx connection pools.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/barnight/internal/models"
	"github.com/mmynk/barnight/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL, applies migrations and returns a ready store.
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if err := MigrateUp(databaseURL); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateBarNight persists a new night and all of its child rows in one transaction.
func (s *PostgresStore) CreateBarNight(ctx context.Context, night *models.BarNight) error {
	if night.ID == "" {
		night.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if night.CreatedAt == 0 {
		night.CreatedAt = now
	}
	night.UpdatedAt = now
	storage.PrepareNight(night)

	date, err := parseDate(night.Date)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO bar_nights (id, name, total_amount, date, created_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			night.ID, night.Name, night.TotalAmount, date, night.CreatedBy, night.CreatedAt, night.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bar night: %w", err)
		}
		return insertChildren(ctx, tx, night)
	})
}

// UpdateBarNight replaces the night's fields and re-creates every child row.
func (s *PostgresStore) UpdateBarNight(ctx context.Context, night *models.BarNight) error {
	night.UpdatedAt = time.Now().Unix()
	storage.PrepareNight(night)

	date, err := parseDate(night.Date)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE bar_nights SET name = $1, total_amount = $2, date = $3, updated_at = $4
			 WHERE id = $5 RETURNING created_by, created_at`,
			night.Name, night.TotalAmount, date, night.UpdatedAt, night.ID,
		).Scan(&night.CreatedBy, &night.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("bar night %s: %w", night.ID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to update bar night: %w", err)
		}

		batch := &pgx.Batch{}
		batch.Queue("DELETE FROM individual_item_participants WHERE item_id IN (SELECT id FROM individual_items WHERE bar_night_id = $1)", night.ID)
		batch.Queue("DELETE FROM individual_items WHERE bar_night_id = $1", night.ID)
		batch.Queue("DELETE FROM bar_night_payments WHERE bar_night_id = $1", night.ID)
		batch.Queue("DELETE FROM bar_night_participants WHERE bar_night_id = $1", night.ID)
		if err := sendBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("failed to clear bar night children: %w", err)
		}

		return insertChildren(ctx, tx, night)
	})
}

// DeleteBarNight removes a night; child rows go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteBarNight(ctx context.Context, nightID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM bar_nights WHERE id = $1", nightID)
	if err != nil {
		return fmt.Errorf("failed to delete bar night: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bar night %s: %w", nightID, storage.ErrNotFound)
	}
	return nil
}

// GetBarNight retrieves a night by ID, including all child rows.
func (s *PostgresStore) GetBarNight(ctx context.Context, nightID string) (*models.BarNight, error) {
	nights, err := s.loadNights(ctx, "WHERE id = $1", nightID)
	if err != nil {
		return nil, err
	}
	if len(nights) == 0 {
		return nil, fmt.Errorf("bar night %s: %w", nightID, storage.ErrNotFound)
	}
	return &nights[0], nil
}

// ListBarNights retrieves every night, newest date first.
func (s *PostgresStore) ListBarNights(ctx context.Context) ([]models.BarNight, error) {
	return s.loadNights(ctx, "")
}

func (s *PostgresStore) loadNights(ctx context.Context, filter string, args ...any) ([]models.BarNight, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, total_amount, date, created_by, created_at, updated_at
		 FROM bar_nights `+filter+` ORDER BY date DESC, created_at DESC, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bar nights: %w", err)
	}

	nights := []models.BarNight{}
	var n models.BarNight
	var date time.Time
	_, err = pgx.ForEachRow(rows,
		[]any{&n.ID, &n.Name, &n.TotalAmount, &date, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt},
		func() error {
			n.Date = date.Format(models.DateLayout)
			nights = append(nights, n)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bar nights: %w", err)
	}
	if len(nights) == 0 {
		return nights, nil
	}

	a := storage.NewAssembler(nights)
	scope := "SELECT id FROM bar_nights " + filter

	var ownerID string
	var p models.Participant
	if err := s.forEach(ctx,
		`SELECT bar_night_id, user_id, share_amount FROM bar_night_participants
		 WHERE bar_night_id IN (`+scope+`) ORDER BY bar_night_id, position`,
		args, []any{&ownerID, &p.UserID, &p.ShareAmount},
		func() error { a.AddParticipant(ownerID, p); return nil },
	); err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	var pay models.Payment
	if err := s.forEach(ctx,
		`SELECT bar_night_id, user_id, amount FROM bar_night_payments
		 WHERE bar_night_id IN (`+scope+`) ORDER BY bar_night_id, position`,
		args, []any{&ownerID, &pay.UserID, &pay.Amount},
		func() error { a.AddPayment(ownerID, pay); return nil },
	); err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	var item models.IndividualItem
	if err := s.forEach(ctx,
		`SELECT bar_night_id, id, description, amount FROM individual_items
		 WHERE bar_night_id IN (`+scope+`) ORDER BY bar_night_id, position`,
		args, []any{&ownerID, &item.ID, &item.Description, &item.Amount},
		func() error { a.AddItem(ownerID, item); return nil },
	); err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	if err := s.forEach(ctx,
		`SELECT ip.item_id, ip.user_id, ip.share_amount
		 FROM individual_item_participants ip
		 JOIN individual_items i ON i.id = ip.item_id
		 WHERE i.bar_night_id IN (`+scope+`) ORDER BY ip.item_id, ip.position`,
		args, []any{&ownerID, &p.UserID, &p.ShareAmount},
		func() error { a.AddItemParticipant(ownerID, p); return nil },
	); err != nil {
		return nil, fmt.Errorf("failed to load item participants: %w", err)
	}

	return a.Nights(), nil
}

func (s *PostgresStore) forEach(ctx context.Context, query string, args []any, scans []any, fn func() error) error {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	_, err = pgx.ForEachRow(rows, scans, fn)
	return err
}

// insertChildren queues every child row into a single batch.
func insertChildren(ctx context.Context, tx pgx.Tx, night *models.BarNight) error {
	batch := &pgx.Batch{}
	for i, p := range night.Participants {
		batch.Queue(
			"INSERT INTO bar_night_participants (bar_night_id, user_id, share_amount, position) VALUES ($1, $2, $3, $4)",
			night.ID, p.UserID, p.ShareAmount, i,
		)
	}
	for i, p := range night.Payments {
		batch.Queue(
			"INSERT INTO bar_night_payments (bar_night_id, user_id, amount, position) VALUES ($1, $2, $3, $4)",
			night.ID, p.UserID, p.Amount, i,
		)
	}
	for i, item := range night.Items {
		batch.Queue(
			"INSERT INTO individual_items (id, bar_night_id, description, amount, position) VALUES ($1, $2, $3, $4, $5)",
			item.ID, night.ID, item.Description, item.Amount, i,
		)
		for j, p := range item.Participants {
			batch.Queue(
				"INSERT INTO individual_item_participants (item_id, user_id, share_amount, position) VALUES ($1, $2, $3, $4)",
				item.ID, p.UserID, p.ShareAmount, j,
			)
		}
	}

	if err := sendBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to insert bar night children: %w", err)
	}
	return nil
}

// sendBatch executes every queued statement and stops at the first error.
func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	return results.Close()
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid bar night date %q: %w", value, err)
	}
	return date, nil
}
