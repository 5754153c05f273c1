package security_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/domain"
	"github.com/roomstack/roombook/internal/security"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 5*24*time.Hour)

	user := &domain.User{
		ID:    uuid.New(),
		Email: "test@example.com",
		Role:  domain.RoleAdmin,
	}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if token == "" {
		t.Error("token is empty")
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("user ID mismatch: got %v, want %v", claims.UserID, user.ID)
	}

	if claims.Email != user.Email {
		t.Errorf("email mismatch: got %v, want %v", claims.Email, user.Email)
	}

	if claims.Role != domain.RoleAdmin {
		t.Errorf("role mismatch: got %v, want %v", claims.Role, domain.RoleAdmin)
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", 5*24*time.Hour)

	// Invalid token format
	if _, err := manager.Validate("invalid-token"); err == nil {
		t.Error("expected error for invalid token, got nil")
	}

	// Empty token
	if _, err := manager.Validate(""); err == nil {
		t.Error("expected error for empty token, got nil")
	}

	// Token signed with different secret
	otherManager := security.NewJWTManager("different-secret-key-32-chars!!", 5*24*time.Hour)
	token, _ := otherManager.Generate(&domain.User{ID: uuid.New(), Email: "test@example.com", Role: domain.RoleClient})

	if _, err := manager.Validate(token); err == nil {
		t.Error("expected error for token signed with different secret, got nil")
	}
}

func TestJWTManager_TokenTTL(t *testing.T) {
	ttl := 120 * time.Hour
	manager := security.NewJWTManager("test-secret-key-with-32-chars!!", ttl)

	if manager.TokenTTL() != ttl {
		t.Errorf("token TTL mismatch: got %v, want %v", manager.TokenTTL(), ttl)
	}
}
