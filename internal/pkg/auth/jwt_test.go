package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/campusdesk/campusdesk/internal/app/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       7,
		Email:    "student@university.edu",
		RoleType: models.RoleStudent,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		SecretKey:   "test-signing-key",
		TokenExp:    time.Hour,
		TokenIssuer: "test",
	})

	token, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims failed: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected userID 7, got %d", claims.UserID)
	}
	if claims.Email != "student@university.edu" {
		t.Errorf("unexpected email %s", claims.Email)
	}
	if claims.RoleType != string(models.RoleStudent) {
		t.Errorf("unexpected role %s", claims.RoleType)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		SecretKey:   "test-signing-key",
		TokenExp:    -time.Minute,
		TokenIssuer: "test",
	})

	token, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := svc.ValidateAndExtractClaims(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	signer := NewJWTService(JWTConfig{SecretKey: "key-one", TokenExp: time.Hour, TokenIssuer: "test"})
	verifier := NewJWTService(JWTConfig{SecretKey: "key-two", TokenExp: time.Hour, TokenIssuer: "test"})

	token, err := signer.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.ValidateAndExtractClaims(token); err == nil {
		t.Error("expected validation to fail with a different key")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing prefix", "abc.def.ghi", "", true},
		{"empty header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
