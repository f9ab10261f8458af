package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmynk/barnight/internal/models"
)

const userColumns = "id, email, display_name, password_hash, created_at, updated_at"

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail returns nil, nil when no user has the email.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID returns nil, nil when no user has the ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *PostgresStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = $1", value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[models.User])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users ordered by display name.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY display_name, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.User])
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
