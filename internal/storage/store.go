// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/barnight/internal/audit"
	"github.com/mmynk/barnight/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store defines the interface for the ledger store.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateBarNight persists a new night with all of its participants,
	// payments and items. IDs, timestamps, default name and share amounts
	// are filled in by the store.
	CreateBarNight(ctx context.Context, night *models.BarNight) error

	// GetBarNight retrieves a fully materialized night by ID.
	// Returns an error wrapping ErrNotFound if it does not exist.
	GetBarNight(ctx context.Context, nightID string) (*models.BarNight, error)

	// ListBarNights returns every night, fully materialized, newest date first.
	ListBarNights(ctx context.Context) ([]models.BarNight, error)

	// UpdateBarNight replaces the night's name, total and date and
	// re-creates all of its participants, payments and items from night.
	// Returns an error wrapping ErrNotFound if it does not exist.
	UpdateBarNight(ctx context.Context, night *models.BarNight) error

	// DeleteBarNight removes a night and everything that belongs to it.
	// Returns an error wrapping ErrNotFound if it does not exist.
	DeleteBarNight(ctx context.Context, nightID string) error

	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error when the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all users ordered by display name.
	ListUsers(ctx context.Context) ([]models.User, error)

	// SaveEvent appends an audit event.
	SaveEvent(ctx context.Context, e audit.Event) error

	// ListEvents returns audit events of one type, oldest first.
	ListEvents(ctx context.Context, eventType string) ([]audit.Event, error)

	// Close releases any resources held by the store.
	Close() error
}
