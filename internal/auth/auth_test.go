package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"merittrack/internal/config"
)

func testService() *Service {
	return NewService(&config.AuthConfig{JWTSecret: "test-secret"})
}

func TestGenerateToken(t *testing.T) {
	svc := testService()

	token, err := svc.GenerateToken(uuid.New(), "scout@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("Token should not be empty")
	}
}

func TestValidateToken(t *testing.T) {
	svc := testService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "scout@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "scout@example.com" {
		t.Errorf("Expected email scout@example.com, got %s", claims.Email)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := testService()

	token, err := svc.GenerateToken(uuid.New(), "scout@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); err != ErrExpiredToken {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := testService()
	other := NewService(&config.AuthConfig{JWTSecret: "different-secret"})

	token, err := other.GenerateToken(uuid.New(), "scout@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateGarbageToken(t *testing.T) {
	svc := testService()

	if _, err := svc.ValidateToken("not-a-token"); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}
