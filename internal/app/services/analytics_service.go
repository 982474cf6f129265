package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/app/repositories"
)

// recentIssuesCount is how many recent issues the dashboard shows
const recentIssuesCount = 5

// AnalyticsService aggregates issue counts for the admin dashboard
type AnalyticsService struct {
	issueRepo repositories.IIssueRepository
	logger    zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(issueRepo repositories.IIssueRepository, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		issueRepo: issueRepo,
		logger:    logger,
	}
}

// GetDashboard returns the total issue count, per-status and per-category
// breakdowns and the most recently reported issues.
func (s *AnalyticsService) GetDashboard(ctx context.Context) (*dto.AnalyticsResponse, error) {
	total, err := s.issueRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.issueRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	categoryCounts, err := s.issueRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.issueRepo.List(ctx, repositories.IssueFilter{Limit: recentIssuesCount})
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyticsResponse{
		Total:      total,
		ByStatus:   byStatus,
		ByCategory: make([]dto.CategoryCount, 0, len(categoryCounts)),
		Recent:     toIssueResponses(recent),
	}
	for _, c := range categoryCounts {
		resp.ByCategory = append(resp.ByCategory, dto.CategoryCount{
			Name:  c.CategoryName,
			Count: c.Count,
		})
	}
	return resp, nil
}
