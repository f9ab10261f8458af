package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/barnight/internal/models"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "anna@example.com", DisplayName: "Anna"}

	token, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID() != "user-1" || claims.DisplayName != "Anna" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != Issuer || claims.ID == "" {
		t.Errorf("expected issuer and token id, got %q %q", claims.Issuer, claims.ID)
	}
}

// sign builds an HS256 token with arbitrary claims.
func sign(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1"}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	expired, err := NewJWTManager("test-secret", -time.Minute).Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	foreign, err := NewJWTManager("other-secret", time.Hour).Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, Subject: "user-1", ExpiresAt: future},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
		{name: "none algorithm", token: unsigned},
		{name: "garbage", token: "not.a.token"},
		{
			name:  "other issuer",
			token: sign(t, "test-secret", &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", Subject: "user-1", ExpiresAt: future}}),
		},
		{
			name:  "no expiry",
			token: sign(t, "test-secret", &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, Subject: "user-1"}}),
		},
		{
			name:  "no subject",
			token: sign(t, "test-secret", &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, ExpiresAt: future}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
