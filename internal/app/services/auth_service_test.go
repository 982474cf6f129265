package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
	"github.com/campusdesk/campusdesk/internal/pkg/auth"
)

const testAdminSecret = "test-admin-secret"

func setupTestAuthService() (*AuthService, *mockUserRepo, *mockEmailService) {
	userRepo := newMockUserRepo()
	emailService := newMockEmailService()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-signing-key",
		TokenExp:    time.Hour,
		TokenIssuer: "test",
	})
	svc := NewAuthService(userRepo, jwtService, emailService, testAdminSecret, zerolog.Nop())
	return svc, userRepo, emailService
}

func registerTestStudent(t *testing.T, svc *AuthService, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: "password123",
		FullName: "Test Student",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp
}

func TestRegister_Student(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()

	resp := registerTestStudent(t, svc, "student@university.edu")

	if resp.Token == "" {
		t.Error("expected a signed token")
	}
	if resp.User.RoleType != string(models.RoleStudent) {
		t.Errorf("expected role student, got %s", resp.User.RoleType)
	}

	stored := userRepo.users[resp.User.ID]
	if stored == nil {
		t.Fatal("user was not persisted")
	}
	if stored.Password == nil || *stored.Password == "password123" {
		t.Error("password must be stored hashed")
	}
}

func TestRegister_AdminSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"correct secret", testAdminSecret, false},
		{"wrong secret", "nope", true},
		{"empty secret", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := setupTestAuthService()
			resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
				Email:       "admin@university.edu",
				Password:    "password123",
				FullName:    "Admin User",
				RoleType:    "admin",
				AdminSecret: tt.secret,
			})

			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrPermissionDenied) {
					t.Errorf("expected ErrPermissionDenied, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register failed: %v", err)
			}
			if resp.User.RoleType != string(models.RoleAdmin) {
				t.Errorf("expected role admin, got %s", resp.User.RoleType)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService()
	registerTestStudent(t, svc, "dup@university.edu")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "dup@university.edu",
		Password: "password123",
		FullName: "Second Account",
	})
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := setupTestAuthService()
	registerTestStudent(t, svc, "student@university.edu")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@university.edu",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a signed token")
	}
	if resp.User.Email != "student@university.edu" {
		t.Errorf("unexpected email %s", resp.User.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := setupTestAuthService()
	registerTestStudent(t, svc, "student@university.edu")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@university.edu",
		Password: "wrong-password",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@university.edu",
		Password: "password123",
	})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	resp := registerTestStudent(t, svc, "student@university.edu")
	userRepo.users[resp.User.ID].IsActive = false

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@university.edu",
		Password: "password123",
	})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Errorf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	svc, _, _ := setupTestAuthService()
	registered := registerTestStudent(t, svc, "student@university.edu")

	user, err := svc.GetCurrentUser(context.Background(), registered.User.ID)
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if user.Email != "student@university.edu" {
		t.Errorf("unexpected email %s", user.Email)
	}

	if _, err := svc.GetCurrentUser(context.Background(), 9999); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPasswordReset_Flow(t *testing.T) {
	svc, _, emailService := setupTestAuthService()
	registerTestStudent(t, svc, "student@university.edu")

	if err := svc.ForgotPassword(context.Background(), "student@university.edu"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	code := emailService.resetCodes["student@university.edu"]
	if len(code) != 6 {
		t.Fatalf("expected a 6-digit reset code, got %q", code)
	}

	// Wrong code is rejected
	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "student@university.edu",
		Code:        "000000",
		NewPassword: "newpassword1",
	})
	if code != "000000" && !errors.Is(err, apperrors.ErrInvalidResetCode) {
		t.Errorf("expected ErrInvalidResetCode, got %v", err)
	}

	// Correct code resets the password
	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "student@university.edu",
		Code:        code,
		NewPassword: "newpassword1",
	})
	if err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "student@university.edu",
		Password: "newpassword1",
	}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}

	// The code is single use
	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "student@university.edu",
		Code:        code,
		NewPassword: "anotherpass1",
	})
	if !errors.Is(err, apperrors.ErrInvalidResetCode) {
		t.Errorf("expected ErrInvalidResetCode on reuse, got %v", err)
	}
}

func TestPasswordReset_Expired(t *testing.T) {
	svc, userRepo, emailService := setupTestAuthService()
	registered := registerTestStudent(t, svc, "student@university.edu")

	if err := svc.ForgotPassword(context.Background(), "student@university.edu"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	expired := time.Now().Add(-time.Minute)
	userRepo.users[registered.User.ID].ResetExpires = &expired

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Email:       "student@university.edu",
		Code:        emailService.resetCodes["student@university.edu"],
		NewPassword: "newpassword1",
	})
	if !errors.Is(err, apperrors.ErrResetCodeExpired) {
		t.Errorf("expected ErrResetCodeExpired, got %v", err)
	}
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	err := svc.ForgotPassword(context.Background(), "nobody@university.edu")
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
