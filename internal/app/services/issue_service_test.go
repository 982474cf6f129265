package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/app/models/dto"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
	"github.com/campusdesk/campusdesk/internal/pkg/realtime"
)

type issueServiceFixture struct {
	svc           *IssueService
	issueRepo     *mockIssueRepo
	categoryRepo  *mockCategoryRepo
	notifications *mockNotificationRepo
	emitter       *mockEmitter
	emailService  *mockEmailService
	userRepo      *mockUserRepo
	reporter      *models.User
	category      *models.Category
}

func setupIssueService(t *testing.T, policy TransitionPolicy) *issueServiceFixture {
	t.Helper()

	userRepo := newMockUserRepo()
	categoryRepo := newMockCategoryRepo()
	issueRepo := newMockIssueRepo(categoryRepo, userRepo)
	notifications := newMockNotificationRepo()
	emitter := &mockEmitter{}
	emailService := newMockEmailService()

	reporter := &models.User{Email: "reporter@university.edu", FullName: "Rita Reporter", RoleType: models.RoleStudent, IsActive: true}
	if _, err := userRepo.CreateUser(context.Background(), reporter); err != nil {
		t.Fatalf("seeding reporter failed: %v", err)
	}
	category := categoryRepo.add("Facilities", "facilities@university.edu")

	svc := NewIssueService(issueRepo, categoryRepo, notifications, emitter, emailService, policy, zerolog.Nop())
	return &issueServiceFixture{
		svc:           svc,
		issueRepo:     issueRepo,
		categoryRepo:  categoryRepo,
		notifications: notifications,
		emitter:       emitter,
		emailService:  emailService,
		userRepo:      userRepo,
		reporter:      reporter,
		category:      category,
	}
}

func (f *issueServiceFixture) createIssue(t *testing.T, title string) *dto.IssueResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.reporter.ID, &dto.CreateIssueRequest{
		Title:       title,
		Description: "Something is broken",
		Location:    "Building A",
		CategoryID:  f.category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return resp
}

func TestCreateIssue_AssignsSequentialNumbers(t *testing.T) {
	f := setupIssueService(t, nil)

	first := f.createIssue(t, "Broken window")
	second := f.createIssue(t, "Leaking pipe")

	if first.IssueNumber != 4001 {
		t.Errorf("expected first issue number 4001, got %d", first.IssueNumber)
	}
	if second.IssueNumber != 4002 {
		t.Errorf("expected second issue number 4002, got %d", second.IssueNumber)
	}
	if first.Status != models.StatusSubmitted {
		t.Errorf("new issues must start as submitted, got %s", first.Status)
	}
	if first.Priority != models.PriorityMedium {
		t.Errorf("expected default priority medium, got %s", first.Priority)
	}
}

func TestCreateIssue_WritesInitialHistory(t *testing.T) {
	f := setupIssueService(t, nil)

	created := f.createIssue(t, "Broken window")

	updates := f.issueRepo.updates[created.ID]
	if len(updates) != 1 {
		t.Fatalf("expected exactly one history row, got %d", len(updates))
	}
	if updates[0].Comment != "Issue reported" {
		t.Errorf("unexpected initial comment %q", updates[0].Comment)
	}
	if updates[0].NewStatus != models.StatusSubmitted {
		t.Errorf("unexpected initial status %s", updates[0].NewStatus)
	}

	if len(f.emailService.issueReportedTo) != 1 || f.emailService.issueReportedTo[0] != "facilities@university.edu" {
		t.Errorf("expected department email to facilities@university.edu, got %v", f.emailService.issueReportedTo)
	}
}

func TestCreateIssue_UnknownCategory(t *testing.T) {
	f := setupIssueService(t, nil)

	_, err := f.svc.Create(context.Background(), f.reporter.ID, &dto.CreateIssueRequest{
		Title:       "Broken window",
		Description: "Something is broken",
		Location:    "Building A",
		CategoryID:  999,
	})
	if !errors.Is(err, apperrors.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCreateIssue_WithImage(t *testing.T) {
	f := setupIssueService(t, nil)

	resp, err := f.svc.Create(context.Background(), f.reporter.ID, &dto.CreateIssueRequest{
		Title:       "Broken window",
		Description: "Something is broken",
		Location:    "Building A",
		CategoryID:  f.category.ID,
		ImageURL:    "http://localhost:8080/uploads/photo.jpg",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	attachments := f.issueRepo.issues[resp.ID].Attachments
	if len(attachments) != 1 {
		t.Fatalf("expected one attachment, got %d", len(attachments))
	}
	if attachments[0].FileURL != "http://localhost:8080/uploads/photo.jpg" {
		t.Errorf("unexpected attachment URL %s", attachments[0].FileURL)
	}
}

func TestGetByID_Access(t *testing.T) {
	f := setupIssueService(t, nil)
	created := f.createIssue(t, "Broken window")

	other := &models.User{Email: "other@university.edu", FullName: "Other Student", RoleType: models.RoleStudent, IsActive: true}
	if _, err := f.userRepo.CreateUser(context.Background(), other); err != nil {
		t.Fatalf("seeding user failed: %v", err)
	}

	tests := []struct {
		name    string
		userID  int64
		role    models.RoleType
		wantErr bool
	}{
		{"creator can read", f.reporter.ID, models.RoleStudent, false},
		{"other student denied", other.ID, models.RoleStudent, true},
		{"admin can read", other.ID, models.RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := f.svc.GetByID(context.Background(), tt.userID, tt.role, created.ID)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrPermissionDenied) {
					t.Errorf("expected ErrPermissionDenied, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetByID failed: %v", err)
			}
			if len(detail.Updates) != 1 {
				t.Errorf("expected one history entry, got %d", len(detail.Updates))
			}
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	f := setupIssueService(t, nil)

	_, err := f.svc.GetByID(context.Background(), f.reporter.ID, models.RoleStudent, 404)
	if !errors.Is(err, apperrors.ErrIssueNotFound) {
		t.Errorf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestUpdateStatus_FanOut(t *testing.T) {
	f := setupIssueService(t, nil)
	created := f.createIssue(t, "Broken window")

	resp, err := f.svc.UpdateStatus(context.Background(), 42, created.ID, &dto.UpdateStatusRequest{
		Status:  string(models.StatusInReview),
		Comment: "Maintenance scheduled",
	})
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if resp.Status != models.StatusInReview {
		t.Errorf("expected status in_review, got %s", resp.Status)
	}

	// Exactly one new history row carrying the comment
	updates := f.issueRepo.updates[created.ID]
	if len(updates) != 2 {
		t.Fatalf("expected two history rows, got %d", len(updates))
	}
	last := updates[len(updates)-1]
	if last.Comment != "Maintenance scheduled" {
		t.Errorf("unexpected history comment %q", last.Comment)
	}
	if last.UpdatedBy != 42 {
		t.Errorf("expected actor 42 on history row, got %d", last.UpdatedBy)
	}

	// Durable notification for the reporter
	if len(f.notifications.notifications) != 1 {
		t.Fatalf("expected one persisted notification, got %d", len(f.notifications.notifications))
	}
	n := f.notifications.notifications[0]
	if n.UserID != f.reporter.ID {
		t.Errorf("notification went to user %d, want %d", n.UserID, f.reporter.ID)
	}
	if n.Title != "Issue Updated" {
		t.Errorf("unexpected notification title %q", n.Title)
	}
	if n.IssueID == nil || *n.IssueID != created.ID {
		t.Error("notification should reference the issue")
	}

	// Two websocket events, issue_updated then notification
	events := f.emitter.eventsFor(f.reporter.ID)
	if len(events) != 2 {
		t.Fatalf("expected two emitted events, got %d", len(events))
	}
	if events[0].Event != realtime.EventIssueUpdated {
		t.Errorf("first event should be %s, got %s", realtime.EventIssueUpdated, events[0].Event)
	}
	payload, ok := events[0].Data.(realtime.IssueUpdatedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", events[0].Data)
	}
	if payload.IssueID != created.ID || payload.NewStatus != models.StatusInReview {
		t.Errorf("unexpected issue_updated payload %+v", payload)
	}
	if events[1].Event != realtime.EventNotification {
		t.Errorf("second event should be %s, got %s", realtime.EventNotification, events[1].Event)
	}

	// Best-effort email to the reporter
	if len(f.emailService.statusEmails) != 1 || f.emailService.statusEmails[0].to != f.reporter.Email {
		t.Errorf("expected status email to %s, got %v", f.reporter.Email, f.emailService.statusEmails)
	}
}

func TestUpdateStatus_DefaultComment(t *testing.T) {
	f := setupIssueService(t, nil)
	created := f.createIssue(t, "Broken window")

	if _, err := f.svc.UpdateStatus(context.Background(), 42, created.ID, &dto.UpdateStatusRequest{
		Status: string(models.StatusResolved),
	}); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	updates := f.issueRepo.updates[created.ID]
	last := updates[len(updates)-1]
	if last.Comment != "Status updated to resolved" {
		t.Errorf("expected defaulted comment, got %q", last.Comment)
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := setupIssueService(t, nil)
	created := f.createIssue(t, "Broken window")

	_, err := f.svc.UpdateStatus(context.Background(), 42, created.ID, &dto.UpdateStatusRequest{
		Status: "escalated",
	})
	if !errors.Is(err, apperrors.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	if len(f.issueRepo.updates[created.ID]) != 1 {
		t.Error("a rejected transition must not append history")
	}
	if len(f.emitter.events) != 0 {
		t.Error("a rejected transition must not emit events")
	}
	if len(f.notifications.notifications) != 0 {
		t.Error("a rejected transition must not persist notifications")
	}
}

func TestUpdateStatus_UnknownIssue(t *testing.T) {
	f := setupIssueService(t, nil)

	_, err := f.svc.UpdateStatus(context.Background(), 42, 404, &dto.UpdateStatusRequest{
		Status: string(models.StatusClosed),
	})
	if !errors.Is(err, apperrors.ErrIssueNotFound) {
		t.Errorf("expected ErrIssueNotFound, got %v", err)
	}
}

func TestUpdateStatus_TransitionPolicy(t *testing.T) {
	policy := TransitionPolicy{
		models.StatusSubmitted: {models.StatusInReview},
	}
	f := setupIssueService(t, policy)
	created := f.createIssue(t, "Broken window")

	// Disallowed transition
	_, err := f.svc.UpdateStatus(context.Background(), 42, created.ID, &dto.UpdateStatusRequest{
		Status: string(models.StatusClosed),
	})
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}

	// Allowed transition
	if _, err := f.svc.UpdateStatus(context.Background(), 42, created.ID, &dto.UpdateStatusRequest{
		Status: string(models.StatusInReview),
	}); err != nil {
		t.Errorf("allowed transition failed: %v", err)
	}
}

func TestListForUser_ActiveFilter(t *testing.T) {
	f := setupIssueService(t, nil)

	statuses := []models.IssueStatus{
		models.StatusSubmitted,
		models.StatusInProgress,
		models.StatusResolved,
		models.StatusClosed,
	}
	for i, status := range statuses {
		created := f.createIssue(t, fmt.Sprintf("Issue %d", i))
		if status != models.StatusSubmitted {
			if _, err := f.svc.UpdateStatus(context.Background(), 42, created.ID, &dto.UpdateStatusRequest{
				Status: string(status),
			}); err != nil {
				t.Fatalf("UpdateStatus failed: %v", err)
			}
		}
	}

	active, err := f.svc.ListForUser(context.Background(), f.reporter.ID, dto.ListIssuesParams{Status: "active"})
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected two active issues, got %d", len(active))
	}
	for _, issue := range active {
		if issue.Status == models.StatusClosed || issue.Status == models.StatusResolved {
			t.Errorf("active filter leaked status %s", issue.Status)
		}
	}

	all, err := f.svc.ListForUser(context.Background(), f.reporter.ID, dto.ListIssuesParams{})
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected four issues without filter, got %d", len(all))
	}

	limited, err := f.svc.ListForUser(context.Background(), f.reporter.ID, dto.ListIssuesParams{Limit: 2})
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected limit of two issues, got %d", len(limited))
	}
}

func TestListForUser_OnlyOwnIssues(t *testing.T) {
	f := setupIssueService(t, nil)
	f.createIssue(t, "Mine")

	other := &models.User{Email: "other@university.edu", FullName: "Other Student", RoleType: models.RoleStudent, IsActive: true}
	if _, err := f.userRepo.CreateUser(context.Background(), other); err != nil {
		t.Fatalf("seeding user failed: %v", err)
	}

	issues, err := f.svc.ListForUser(context.Background(), other.ID, dto.ListIssuesParams{})
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("expected no issues for the other user, got %d", len(issues))
	}

	all, err := f.svc.ListAll(context.Background(), dto.ListIssuesParams{})
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected one issue in the admin listing, got %d", len(all))
	}
}
