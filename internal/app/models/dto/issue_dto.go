package dto

import (
	"time"

	"github.com/campusdesk/campusdesk/internal/app/models"
)

// CreateIssueRequest represents the issue creation payload
type CreateIssueRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location" binding:"required"`
	CategoryID  int64  `json:"category_id" binding:"required,gt=0"`
	Priority    string `json:"priority,omitempty" binding:"omitempty,oneof=low medium high urgent"`
	ImageURL    string `json:"image_url,omitempty"`
}

// UpdateStatusRequest represents the admin status transition payload
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required,issuestatus"`
	Comment string `json:"comment,omitempty"`
}

// ListIssuesParams holds listing filters shared by student and admin views.
// Status "active" is a virtual filter matching everything not closed/resolved.
type ListIssuesParams struct {
	Status string
	Limit  int
}

// IssueResponse is the list representation of an issue
type IssueResponse struct {
	ID           int64                `json:"id"`
	IssueNumber  int64                `json:"issue_number"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Location     string               `json:"location"`
	Priority     models.IssuePriority `json:"priority"`
	Status       models.IssueStatus   `json:"status"`
	CategoryID   int64                `json:"category_id"`
	CategoryName string               `json:"category_name,omitempty"`
	CreatedBy    int64                `json:"created_by"`
	CreatorName  string               `json:"creator_name,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// IssueDetailResponse adds history and attachments to the issue representation
type IssueDetailResponse struct {
	IssueResponse
	Creator     *UserResponse         `json:"creator,omitempty"`
	Updates     []IssueUpdateResponse `json:"updates"`
	Attachments []AttachmentResponse  `json:"attachments"`
}

// IssueUpdateResponse is one history timeline entry
type IssueUpdateResponse struct {
	ID        int64              `json:"id"`
	NewStatus models.IssueStatus `json:"new_status"`
	Comment   string             `json:"comment"`
	UpdatedBy int64              `json:"updated_by"`
	CreatedAt time.Time          `json:"created_at"`
}

// AttachmentResponse is the public representation of an attachment
type AttachmentResponse struct {
	ID       int64  `json:"id"`
	FileURL  string `json:"file_url"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// NewIssueResponse maps an issue model to its list representation
func NewIssueResponse(issue *models.Issue) IssueResponse {
	resp := IssueResponse{
		ID:          issue.ID,
		IssueNumber: issue.IssueNumber,
		Title:       issue.Title,
		Description: issue.Description,
		Location:    issue.Location,
		Priority:    issue.Priority,
		Status:      issue.Status,
		CategoryID:  issue.CategoryID,
		CreatedBy:   issue.CreatedBy,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
	if issue.Category != nil {
		resp.CategoryName = issue.Category.Name
	}
	if issue.Creator != nil {
		resp.CreatorName = issue.Creator.FullName
	}
	return resp
}
