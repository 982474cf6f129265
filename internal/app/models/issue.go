package models

import "time"

// Issue represents a reported problem tracked through the status lifecycle
type Issue struct {
	ID          int64         `json:"id" db:"id"`
	IssueNumber int64         `json:"issueNumber" db:"issue_number"` // Human-facing sequential number, assigned once at creation
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Location    string        `json:"location" db:"location"`
	Priority    IssuePriority `json:"priority" db:"priority"`
	Status      IssueStatus   `json:"status" db:"status"`
	CategoryID  int64         `json:"categoryId" db:"category_id"`
	CreatedBy   int64         `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`

	// Related entities
	Category    *Category     `json:"category,omitempty"`
	Creator     *User         `json:"creator,omitempty"`
	Updates     []*IssueUpdate `json:"updates,omitempty"`
	Attachments []*Attachment `json:"attachments,omitempty"`
}

// IssueUpdate is an append-only history record capturing one status transition.
// One row is created at issue creation and one per subsequent transition;
// rows are never mutated or deleted.
type IssueUpdate struct {
	ID        int64       `json:"id" db:"id"`
	IssueID   int64       `json:"issueId" db:"issue_id"`
	NewStatus IssueStatus `json:"newStatus" db:"new_status"`
	Comment   string      `json:"comment" db:"comment"`
	UpdatedBy int64       `json:"updatedBy" db:"updated_by"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

// Attachment links an externally stored file to an issue
type Attachment struct {
	ID         int64     `json:"id" db:"id"`
	IssueID    int64     `json:"issueId" db:"issue_id"`
	UploadedBy int64     `json:"uploadedBy" db:"uploaded_by"`
	FileURL    string    `json:"fileUrl" db:"file_url"`
	MimeType   string    `json:"mimeType" db:"mime_type"`
	FileSize   int64     `json:"fileSize" db:"file_size"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
