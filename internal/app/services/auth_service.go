package services

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/app/repositories"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
	"github.com/campusdesk/campusdesk/internal/pkg/auth"
	"github.com/campusdesk/campusdesk/internal/pkg/email"
)

// resetCodeTTL is how long an emailed password reset code stays valid
const resetCodeTTL = 10 * time.Minute

// AuthService handles registration, login and password recovery
type AuthService struct {
	userRepo     repositories.IUserRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
	adminSecret  string
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	adminSecret string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		emailService: emailService,
		adminSecret:  adminSecret,
		logger:       logger,
	}
}

// Register creates a new account and returns it with a signed token.
// Admin accounts additionally require the deployment's admin secret.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.RoleStudent
	if req.RoleType == string(models.RoleAdmin) {
		if s.adminSecret == "" ||
			subtle.ConstantTimeCompare([]byte(req.AdminSecret), []byte(s.adminSecret)) != 1 {
			return nil, apperrors.NewForbiddenError("Invalid admin secret")
		}
		role = models.RoleAdmin
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: &hash,
		FullName: req.FullName,
		RoleType: role,
		IsActive: true,
	}
	if req.StudentID != "" {
		user.StudentID = &req.StudentID
	}

	if _, err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User registered")

	return &dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	// Provider-backed accounts carry no local password
	if user.Password == nil || !auth.CheckPassword(*user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	}, nil
}

// GetCurrentUser returns the authenticated user's public representation
func (s *AuthService) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ForgotPassword generates a 6-digit reset code, stores its hash with a
// short expiry and emails the code to the account's address.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	code, err := auth.GenerateResetCode()
	if err != nil {
		return err
	}

	expires := time.Now().Add(resetCodeTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, auth.HashResetCode(code), expires); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetCode(user.Email, user.FullName, code); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send password reset email")
		return err
	}

	return nil
}

// ResetPassword redeems a reset code and replaces the account password.
// Only the SHA-256 of the code is ever stored, so codes are compared by hash.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return apperrors.ErrInvalidResetCode
	}
	if user.ResetToken == nil || user.ResetExpires == nil {
		return apperrors.ErrInvalidResetCode
	}
	if time.Now().After(*user.ResetExpires) {
		return apperrors.ErrResetCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(auth.HashResetCode(req.Code)), []byte(*user.ResetToken)) != 1 {
		return apperrors.ErrInvalidResetCode
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password reset completed")
	return nil
}
