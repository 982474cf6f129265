package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/app/repositories"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
	"github.com/campusdesk/campusdesk/internal/pkg/email"
	"github.com/campusdesk/campusdesk/internal/pkg/realtime"
)

// initialHistoryComment is written into the first history row of every issue
const initialHistoryComment = "Issue reported"

// TransitionPolicy restricts which status transitions are accepted, keyed by
// the current status. A nil policy allows any transition between valid
// statuses, which is the default.
type TransitionPolicy map[models.IssueStatus][]models.IssueStatus

// Allows reports whether moving from one status to another is permitted
func (p TransitionPolicy) Allows(from, to models.IssueStatus) bool {
	if p == nil {
		return true
	}
	for _, s := range p[from] {
		if s == to {
			return true
		}
	}
	return false
}

// EventEmitter pushes events to a user's live websocket connections
type EventEmitter interface {
	EmitToUser(userID int64, event realtime.Event)
}

// IssueService handles issue reporting, listing and the status lifecycle
type IssueService struct {
	issueRepo        repositories.IIssueRepository
	categoryRepo     repositories.ICategoryRepository
	notificationRepo repositories.INotificationRepository
	emitter          EventEmitter
	emailService     email.EmailService
	policy           TransitionPolicy
	logger           zerolog.Logger
}

// NewIssueService creates a new IssueService
func NewIssueService(
	issueRepo repositories.IIssueRepository,
	categoryRepo repositories.ICategoryRepository,
	notificationRepo repositories.INotificationRepository,
	emitter EventEmitter,
	emailService email.EmailService,
	policy TransitionPolicy,
	logger zerolog.Logger,
) *IssueService {
	return &IssueService{
		issueRepo:        issueRepo,
		categoryRepo:     categoryRepo,
		notificationRepo: notificationRepo,
		emitter:          emitter,
		emailService:     emailService,
		policy:           policy,
		logger:           logger,
	}
}

// Create reports a new issue. The issue starts as submitted with one history
// row, and the owning department is emailed best-effort afterwards.
func (s *IssueService) Create(ctx context.Context, userID int64, req *dto.CreateIssueRequest) (*dto.IssueResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	priority := models.IssuePriority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	issue := &models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Priority:    priority,
		Status:      models.StatusSubmitted,
		CategoryID:  category.ID,
		CreatedBy:   userID,
	}

	var attachments []*models.Attachment
	if req.ImageURL != "" {
		attachments = append(attachments, &models.Attachment{
			UploadedBy: userID,
			FileURL:    req.ImageURL,
			MimeType:   "image/jpeg",
		})
	}

	if err := s.issueRepo.Create(ctx, issue, initialHistoryComment, attachments); err != nil {
		return nil, err
	}
	issue.Category = category

	// Core record is committed; the department email must not undo that
	if err := s.emailService.SendIssueReported(category.DepartmentEmail, issue); err != nil {
		s.logger.Error().Err(err).Int64("issueID", issue.ID).Msg("Failed to send new issue email")
	}

	s.logger.Info().Int64("issueID", issue.ID).Int64("issueNumber", issue.IssueNumber).Msg("Issue created")

	resp := dto.NewIssueResponse(issue)
	return &resp, nil
}

// ListForUser returns the caller's own issues matching the filter
func (s *IssueService) ListForUser(ctx context.Context, userID int64, params dto.ListIssuesParams) ([]dto.IssueResponse, error) {
	issues, err := s.issueRepo.List(ctx, repositories.IssueFilter{
		CreatedBy: &userID,
		Status:    params.Status,
		Limit:     params.Limit,
	})
	if err != nil {
		return nil, err
	}
	return toIssueResponses(issues), nil
}

// ListAll returns issues across all reporters, for admin triage
func (s *IssueService) ListAll(ctx context.Context, params dto.ListIssuesParams) ([]dto.IssueResponse, error) {
	issues, err := s.issueRepo.List(ctx, repositories.IssueFilter{
		Status: params.Status,
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, err
	}
	return toIssueResponses(issues), nil
}

// GetByID returns one issue with its history and attachments.
// Only the reporter and admins may read an issue.
func (s *IssueService) GetByID(ctx context.Context, userID int64, role models.RoleType, issueID int64) (*dto.IssueDetailResponse, error) {
	issue, err := s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue.CreatedBy != userID && role != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}

	detail := dto.IssueDetailResponse{
		IssueResponse: dto.NewIssueResponse(issue),
		Updates:       []dto.IssueUpdateResponse{},
		Attachments:   []dto.AttachmentResponse{},
	}
	if issue.Creator != nil {
		creator := dto.NewUserResponse(issue.Creator)
		detail.Creator = &creator
	}
	for _, u := range issue.Updates {
		detail.Updates = append(detail.Updates, dto.IssueUpdateResponse{
			ID:        u.ID,
			NewStatus: u.NewStatus,
			Comment:   u.Comment,
			UpdatedBy: u.UpdatedBy,
			CreatedAt: u.CreatedAt,
		})
	}
	for _, a := range issue.Attachments {
		detail.Attachments = append(detail.Attachments, dto.AttachmentResponse{
			ID:       a.ID,
			FileURL:  a.FileURL,
			MimeType: a.MimeType,
			FileSize: a.FileSize,
		})
	}

	return &detail, nil
}

// UpdateStatus moves an issue to a new status. The status write and its
// history row commit together; every notification channel afterwards is
// best-effort and can only cost delivery, never the transition itself.
func (s *IssueService) UpdateStatus(ctx context.Context, actorID, issueID int64, req *dto.UpdateStatusRequest) (*dto.IssueResponse, error) {
	newStatus := models.IssueStatus(req.Status)
	if !models.IsValidStatus(newStatus) {
		return nil, apperrors.ErrInvalidStatus
	}

	current, err := s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !s.policy.Allows(current.Status, newStatus) {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("Transition from %s to %s is not allowed", current.Status, newStatus))
	}

	historyComment := req.Comment
	if historyComment == "" {
		historyComment = fmt.Sprintf("Status updated to %s", newStatus)
	}

	issue, err := s.issueRepo.UpdateStatusWithHistory(ctx, issueID, newStatus, historyComment, actorID)
	if err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, issue, req.Comment)

	s.logger.Info().
		Int64("issueID", issue.ID).
		Str("status", string(newStatus)).
		Int64("actorID", actorID).
		Msg("Issue status updated")

	resp := dto.NewIssueResponse(issue)
	return &resp, nil
}

// notifyStatusChange fans the committed transition out to the reporter:
// a durable notification row, two websocket events and an email. Failures
// are logged and swallowed; the notification row is the durable fallback
// for reporters who are offline.
func (s *IssueService) notifyStatusChange(ctx context.Context, issue *models.Issue, comment string) {
	notification := &models.Notification{
		UserID:  issue.CreatedBy,
		IssueID: &issue.ID,
		Type:    models.NotificationInfo,
		Title:   "Issue Updated",
		Message: fmt.Sprintf("Your issue %q has been updated to %s.", issue.Title, issue.Status),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error().Err(err).Int64("issueID", issue.ID).Msg("Failed to persist status notification")
	}

	s.emitter.EmitToUser(issue.CreatedBy, realtime.Event{
		Event: realtime.EventIssueUpdated,
		Data: realtime.IssueUpdatedPayload{
			IssueID:   issue.ID,
			NewStatus: issue.Status,
			Comment:   comment,
		},
	})
	s.emitter.EmitToUser(issue.CreatedBy, realtime.Event{
		Event: realtime.EventNotification,
		Data: realtime.NotificationPayload{
			Type:    models.NotificationInfo,
			Message: fmt.Sprintf("Issue %q is now %s", issue.Title, issue.Status),
		},
	})

	if issue.Creator != nil {
		if err := s.emailService.SendStatusUpdated(issue.Creator.Email, issue.Creator.FullName, issue, comment); err != nil {
			s.logger.Error().Err(err).Int64("issueID", issue.ID).Msg("Failed to send status update email")
		}
	}
}

func toIssueResponses(issues []*models.Issue) []dto.IssueResponse {
	responses := make([]dto.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		responses = append(responses, dto.NewIssueResponse(issue))
	}
	return responses
}
