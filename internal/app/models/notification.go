package models

import "time"

// Notification is the durable record produced by the status-change fan-out.
// Only the read flag is ever mutated; rows are never deleted.
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"userId" db:"user_id"`
	IssueID   *int64           `json:"issueId,omitempty" db:"issue_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	IsRead    bool             `json:"isRead" db:"is_read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
