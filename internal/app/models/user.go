package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64      `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email        string     `json:"email" db:"email" example:"student@university.edu"`        // User's email address
	Password     *string    `json:"-" db:"password_hash"`                                     // Hashed password, nil for provider-backed accounts
	FullName     string     `json:"fullName" db:"full_name" example:"Jane Doe"`               // User's display name
	StudentID    *string    `json:"studentId,omitempty" db:"student_id" example:"20231104"`   // University student identifier (nullable)
	ProviderUID  *string    `json:"-" db:"provider_uid"`                                      // External identity provider UID (nullable)
	RoleType     RoleType   `json:"roleType" db:"role_type" example:"student"`                // User's role (student or admin)
	AvatarURL    *string    `json:"avatarUrl,omitempty" db:"avatar_url"`                      // URL of the user's avatar (nullable)
	IsActive     bool       `json:"isActive" db:"is_active" example:"true"`                   // Whether the user account is active
	ResetToken   *string    `json:"-" db:"reset_token"`                                       // SHA-256 of the password reset code (nullable)
	ResetExpires *time.Time `json:"-" db:"reset_token_expires"`                               // Expiry of the reset code (nullable)
	CreatedAt    time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"` // Timestamp when the user was created
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"` // Timestamp when the user was last updated
}
