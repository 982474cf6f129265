package dto

import "time"

// RegisterRequest represents the account creation payload.
// AdminSecret is required only when RoleType is "admin".
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name" binding:"required,min=2,max=100"`
	StudentID   string `json:"student_id,omitempty"`
	RoleType    string `json:"role,omitempty" binding:"omitempty,oneof=student admin"`
	AdminSecret string `json:"admin_secret,omitempty"`
}

// LoginRequest represents the credential exchange payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest asks for a reset code to be emailed
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest redeems an emailed reset code
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UserResponse is the public representation of a user
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	StudentID *string   `json:"student_id,omitempty"`
	RoleType  string    `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse carries the signed token plus the authenticated user
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
