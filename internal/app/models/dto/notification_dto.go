package dto

import (
	"time"

	"github.com/campusdesk/campusdesk/internal/app/models"
)

// NotificationResponse is the public representation of a persisted notification
type NotificationResponse struct {
	ID        int64                   `json:"id"`
	IssueID   *int64                  `json:"issue_id,omitempty"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

// NotificationListResponse carries a page of notifications plus the unread count
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

// NewNotificationResponse maps a notification model to its public representation
func NewNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		IssueID:   n.IssueID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
