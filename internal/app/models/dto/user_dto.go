package dto

import "github.com/campusdesk/campusdesk/internal/app/models"

// UpdateProfileRequest updates the caller's display name and avatar
type UpdateProfileRequest struct {
	FullName  string `json:"full_name,omitempty" binding:"omitempty,min=2,max=100"`
	AvatarURL string `json:"avatar_url,omitempty" binding:"omitempty,url"`
}

// NewUserResponse maps a user model to its public representation
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		StudentID: user.StudentID,
		RoleType:  string(user.RoleType),
		AvatarURL: user.AvatarURL,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
