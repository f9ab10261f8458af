package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mmynk/barnight/internal/models"
)

// memoryUsers is an in-memory UserStorage.
type memoryUsers struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	lookErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[user.ID] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookErr != nil {
		return nil, m.lookErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers())

	user, err := a.Register(ctx, "  Anna@Example.com ", " Anna ", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "anna@example.com" || user.DisplayName != "Anna" {
		t.Errorf("expected normalized profile, got %q %q", user.Email, user.DisplayName)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}

	got, err := a.Authenticate(ctx, "ANNA@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}

	byID, err := a.GetUser(ctx, user.ID)
	if err != nil || byID == nil || byID.ID != user.ID {
		t.Errorf("GetUser returned %v, %v", byID, err)
	}
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers())

	if _, err := a.Register(ctx, "bob@example.com", "Bob", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
	if _, err := a.Register(ctx, "bob@example.com", "Bob", "long enough"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := a.Register(ctx, "BOB@example.com", "Bobby", "long enough"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()
	a := NewPasswordAuthenticator(users)
	if _, err := a.Register(ctx, "carl@example.com", "Carl", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "carl@example.com", password: "password124"},
		{name: "unknown email", email: "nobody@example.com", password: "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Authenticate(ctx, tt.email, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}

	users.lookErr = errors.New("db down")
	if _, err := a.Authenticate(ctx, "carl@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials on storage failure, got %v", err)
	}
}
