// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/barnight/internal/models"
	"github.com/mmynk/barnight/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBarNight persists a new night and all of its child rows in one transaction.
func (s *SQLiteStore) CreateBarNight(ctx context.Context, night *models.BarNight) error {
	if night.ID == "" {
		night.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if night.CreatedAt == 0 {
		night.CreatedAt = now
	}
	night.UpdatedAt = now
	storage.PrepareNight(night)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bar_nights (id, name, total_amount, date, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		night.ID, night.Name, night.TotalAmount, night.Date, night.CreatedBy, night.CreatedAt, night.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bar night: %w", err)
	}

	if err := insertChildren(ctx, tx, night); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateBarNight replaces the night's fields and re-creates every child row.
// Old participants, payments and items are deleted rather than diffed.
func (s *SQLiteStore) UpdateBarNight(ctx context.Context, night *models.BarNight) error {
	night.UpdatedAt = time.Now().Unix()
	storage.PrepareNight(night)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE bar_nights SET name = ?, total_amount = ?, date = ?, updated_at = ? WHERE id = ?",
		night.Name, night.TotalAmount, night.Date, night.UpdatedAt, night.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bar night: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bar night %s: %w", night.ID, storage.ErrNotFound)
	}

	deletes := []string{
		"DELETE FROM individual_item_participants WHERE item_id IN (SELECT id FROM individual_items WHERE bar_night_id = ?)",
		"DELETE FROM individual_items WHERE bar_night_id = ?",
		"DELETE FROM bar_night_payments WHERE bar_night_id = ?",
		"DELETE FROM bar_night_participants WHERE bar_night_id = ?",
	}
	for _, stmt := range deletes {
		if _, err := tx.ExecContext(ctx, stmt, night.ID); err != nil {
			return fmt.Errorf("failed to clear bar night children: %w", err)
		}
	}

	if err := insertChildren(ctx, tx, night); err != nil {
		return err
	}

	// CreatedAt and CreatedBy are not part of the update.
	if err := tx.QueryRowContext(ctx,
		"SELECT created_by, created_at FROM bar_nights WHERE id = ?", night.ID,
	).Scan(&night.CreatedBy, &night.CreatedAt); err != nil {
		return fmt.Errorf("failed to reload bar night: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteBarNight removes a night; child rows go with it via ON DELETE CASCADE.
func (s *SQLiteStore) DeleteBarNight(ctx context.Context, nightID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bar_nights WHERE id = ?", nightID)
	if err != nil {
		return fmt.Errorf("failed to delete bar night: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bar night %s: %w", nightID, storage.ErrNotFound)
	}
	return nil
}

// GetBarNight retrieves a night by ID, including all child rows.
func (s *SQLiteStore) GetBarNight(ctx context.Context, nightID string) (*models.BarNight, error) {
	nights, err := s.loadNights(ctx, "WHERE id = ?", nightID)
	if err != nil {
		return nil, err
	}
	if len(nights) == 0 {
		return nil, fmt.Errorf("bar night %s: %w", nightID, storage.ErrNotFound)
	}
	return &nights[0], nil
}

// ListBarNights retrieves every night, newest date first.
func (s *SQLiteStore) ListBarNights(ctx context.Context) ([]models.BarNight, error) {
	return s.loadNights(ctx, "")
}

// loadNights reads the nights matching filter and joins their child rows,
// issuing one query per table regardless of how many nights match.
func (s *SQLiteStore) loadNights(ctx context.Context, filter string, args ...any) ([]models.BarNight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, total_amount, date, created_by, created_at, updated_at
		 FROM bar_nights `+filter+` ORDER BY date DESC, created_at DESC, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bar nights: %w", err)
	}
	defer rows.Close()

	nights := []models.BarNight{}
	for rows.Next() {
		var n models.BarNight
		if err := rows.Scan(&n.ID, &n.Name, &n.TotalAmount, &n.Date, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bar night: %w", err)
		}
		nights = append(nights, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bar nights: %w", err)
	}
	if len(nights) == 0 {
		return nights, nil
	}

	a := storage.NewAssembler(nights)
	scope := "SELECT id FROM bar_nights " + filter

	err = s.eachRow(ctx,
		`SELECT bar_night_id, user_id, share_amount FROM bar_night_participants
		 WHERE bar_night_id IN (`+scope+`) ORDER BY bar_night_id, position`,
		args,
		func(rows *sql.Rows) error {
			var nightID string
			var p models.Participant
			if err := rows.Scan(&nightID, &p.UserID, &p.ShareAmount); err != nil {
				return err
			}
			a.AddParticipant(nightID, p)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	err = s.eachRow(ctx,
		`SELECT bar_night_id, user_id, amount FROM bar_night_payments
		 WHERE bar_night_id IN (`+scope+`) ORDER BY bar_night_id, position`,
		args,
		func(rows *sql.Rows) error {
			var nightID string
			var p models.Payment
			if err := rows.Scan(&nightID, &p.UserID, &p.Amount); err != nil {
				return err
			}
			a.AddPayment(nightID, p)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	err = s.eachRow(ctx,
		`SELECT bar_night_id, id, description, amount FROM individual_items
		 WHERE bar_night_id IN (`+scope+`) ORDER BY bar_night_id, position`,
		args,
		func(rows *sql.Rows) error {
			var nightID string
			var item models.IndividualItem
			if err := rows.Scan(&nightID, &item.ID, &item.Description, &item.Amount); err != nil {
				return err
			}
			a.AddItem(nightID, item)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	err = s.eachRow(ctx,
		`SELECT ip.item_id, ip.user_id, ip.share_amount
		 FROM individual_item_participants ip
		 JOIN individual_items i ON i.id = ip.item_id
		 WHERE i.bar_night_id IN (`+scope+`) ORDER BY ip.item_id, ip.position`,
		args,
		func(rows *sql.Rows) error {
			var itemID string
			var p models.Participant
			if err := rows.Scan(&itemID, &p.UserID, &p.ShareAmount); err != nil {
				return err
			}
			a.AddItemParticipant(itemID, p)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load item participants: %w", err)
	}

	return a.Nights(), nil
}

// eachRow runs query and calls scan for every row.
func (s *SQLiteStore) eachRow(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// insertChildren writes participants, payments, items and item participants.
func insertChildren(ctx context.Context, tx *sql.Tx, night *models.BarNight) error {
	for i, p := range night.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bar_night_participants (bar_night_id, user_id, share_amount, position) VALUES (?, ?, ?, ?)",
			night.ID, p.UserID, p.ShareAmount, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i, p := range night.Payments {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bar_night_payments (bar_night_id, user_id, amount, position) VALUES (?, ?, ?, ?)",
			night.ID, p.UserID, p.Amount, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	for i := range night.Items {
		item := &night.Items[i]
		_, err := tx.ExecContext(ctx,
			"INSERT INTO individual_items (id, bar_night_id, description, amount, position) VALUES (?, ?, ?, ?, ?)",
			item.ID, night.ID, item.Description, item.Amount, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for j, p := range item.Participants {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO individual_item_participants (item_id, user_id, share_amount, position) VALUES (?, ?, ?, ?)",
				item.ID, p.UserID, p.ShareAmount, j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item participant: %w", err)
			}
		}
	}

	return nil
}

// isNotFound reports whether err is a missing-row error from database/sql.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
