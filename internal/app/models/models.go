package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleAdmin   RoleType = "admin"
)

// IssueStatus defines the lifecycle state of an issue
type IssueStatus string

const (
	StatusSubmitted  IssueStatus = "submitted"
	StatusInReview   IssueStatus = "in_review"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

// StatusActive is a virtual listing filter, not a stored status.
// It matches every issue that is neither closed nor resolved.
const StatusActive = "active"

// AllStatuses lists every valid issue status, in lifecycle order.
var AllStatuses = []IssueStatus{
	StatusSubmitted,
	StatusInReview,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
}

// IsValidStatus reports whether s is one of the five lifecycle labels.
func IsValidStatus(s IssueStatus) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IssuePriority defines how urgent an issue is
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

// NotificationType classifies a persisted notification for UI rendering
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)
