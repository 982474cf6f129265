package dto

// CategoryCount pairs a category name with its issue count
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// AnalyticsResponse aggregates issue counts for the admin dashboard
type AnalyticsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByCategory []CategoryCount  `json:"byCategory"`
	Recent     []IssueResponse  `json:"recent"`
}
