package services

import (
	"context"
	"sort"
	"time"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/app/repositories"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
	"github.com/campusdesk/campusdesk/internal/pkg/realtime"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		if existing.StudentID != nil && user.StudentID != nil && *existing.StudentID == *user.StudentID {
			return 0, apperrors.ErrStudentIDAlreadyExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return user.ID, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	result := make([]*models.User, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id int64, fullName, avatarURL *string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if fullName != nil {
		user.FullName = *fullName
	}
	if avatarURL != nil {
		user.AvatarURL = avatarURL
	}
	return user, nil
}

func (m *mockUserRepo) SetResetToken(_ context.Context, userID int64, tokenHash string, expires time.Time) error {
	user, ok := m.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.ResetToken = &tokenHash
	user.ResetExpires = &expires
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	user, ok := m.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = &passwordHash
	user.ResetToken = nil
	user.ResetExpires = nil
	return nil
}

func (m *mockUserRepo) StudentIDExists(_ context.Context, studentID string) (bool, error) {
	for _, user := range m.users {
		if user.StudentID != nil && *user.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories map[int64]*models.Category
	nextID     int64
	failList   bool
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[int64]*models.Category), nextID: 1}
}

func (m *mockCategoryRepo) add(name, departmentEmail string) *models.Category {
	category := &models.Category{
		ID:              m.nextID,
		Name:            name,
		DepartmentEmail: departmentEmail,
		IsActive:        true,
		CreatedAt:       time.Now(),
	}
	m.nextID++
	m.categories[category.ID] = category
	return category
}

func (m *mockCategoryRepo) GetActive(_ context.Context) ([]*models.Category, error) {
	if m.failList {
		return nil, apperrors.ErrResourceNotFound
	}
	result := make([]*models.Category, 0, len(m.categories))
	for _, category := range m.categories {
		if category.IsActive {
			result = append(result, category)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id int64) (*models.Category, error) {
	if category, ok := m.categories[id]; ok {
		return category, nil
	}
	return nil, apperrors.ErrCategoryNotFound
}

func (m *mockCategoryRepo) UpsertByName(_ context.Context, category *models.Category) error {
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			existing.Description = category.Description
			existing.DepartmentEmail = category.DepartmentEmail
			existing.IsActive = category.IsActive
			category.ID = existing.ID
			return nil
		}
	}
	category.ID = m.nextID
	m.nextID++
	m.categories[category.ID] = category
	return nil
}

// ── Mock IssueRepository ──

const firstIssueNumber = 4001

type mockIssueRepo struct {
	issues     map[int64]*models.Issue
	updates    map[int64][]*models.IssueUpdate
	categories *mockCategoryRepo
	users      *mockUserRepo
	nextID     int64
	nextNumber int64
}

func newMockIssueRepo(categories *mockCategoryRepo, users *mockUserRepo) *mockIssueRepo {
	return &mockIssueRepo{
		issues:     make(map[int64]*models.Issue),
		updates:    make(map[int64][]*models.IssueUpdate),
		categories: categories,
		users:      users,
		nextID:     1,
		nextNumber: firstIssueNumber,
	}
}

func (m *mockIssueRepo) Create(_ context.Context, issue *models.Issue, initialComment string, attachments []*models.Attachment) error {
	issue.ID = m.nextID
	m.nextID++
	issue.IssueNumber = m.nextNumber
	m.nextNumber++
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt

	for i, attachment := range attachments {
		attachment.ID = int64(i + 1)
		attachment.IssueID = issue.ID
	}
	issue.Attachments = attachments

	m.issues[issue.ID] = issue
	m.updates[issue.ID] = []*models.IssueUpdate{{
		ID:        1,
		IssueID:   issue.ID,
		NewStatus: issue.Status,
		Comment:   initialComment,
		UpdatedBy: issue.CreatedBy,
		CreatedAt: issue.CreatedAt,
	}}
	return nil
}

func (m *mockIssueRepo) hydrate(issue *models.Issue) *models.Issue {
	if category, ok := m.categories.categories[issue.CategoryID]; ok {
		issue.Category = category
	}
	if creator, ok := m.users.users[issue.CreatedBy]; ok {
		issue.Creator = creator
	}
	return issue
}

func (m *mockIssueRepo) GetByID(_ context.Context, id int64) (*models.Issue, error) {
	issue, ok := m.issues[id]
	if !ok {
		return nil, apperrors.ErrIssueNotFound
	}
	m.hydrate(issue)
	issue.Updates = m.updates[id]
	return issue, nil
}

func (m *mockIssueRepo) List(_ context.Context, filter repositories.IssueFilter) ([]*models.Issue, error) {
	var result []*models.Issue
	for _, issue := range m.issues {
		if filter.CreatedBy != nil && issue.CreatedBy != *filter.CreatedBy {
			continue
		}
		switch filter.Status {
		case "", "all":
		case models.StatusActive:
			if issue.Status == models.StatusClosed || issue.Status == models.StatusResolved {
				continue
			}
		default:
			if string(issue.Status) != filter.Status {
				continue
			}
		}
		result = append(result, m.hydrate(issue))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *mockIssueRepo) UpdateStatusWithHistory(_ context.Context, issueID int64, newStatus models.IssueStatus, comment string, updatedBy int64) (*models.Issue, error) {
	issue, ok := m.issues[issueID]
	if !ok {
		return nil, apperrors.ErrIssueNotFound
	}
	issue.Status = newStatus
	issue.UpdatedAt = time.Now()
	m.updates[issueID] = append(m.updates[issueID], &models.IssueUpdate{
		ID:        int64(len(m.updates[issueID]) + 1),
		IssueID:   issueID,
		NewStatus: newStatus,
		Comment:   comment,
		UpdatedBy: updatedBy,
		CreatedAt: issue.UpdatedAt,
	})
	return m.hydrate(issue), nil
}

func (m *mockIssueRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.issues)), nil
}

func (m *mockIssueRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, issue := range m.issues {
		counts[string(issue.Status)]++
	}
	return counts, nil
}

func (m *mockIssueRepo) CountByCategory(_ context.Context) ([]repositories.CategoryIssueCount, error) {
	byID := make(map[int64]int64)
	for _, issue := range m.issues {
		byID[issue.CategoryID]++
	}
	var result []repositories.CategoryIssueCount
	for id, count := range byID {
		name := "Unknown"
		if category, ok := m.categories.categories[id]; ok {
			name = category.Name
		}
		result = append(result, repositories.CategoryIssueCount{CategoryName: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications []*models.Notification
	nextID        int64
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{nextID: 1}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	notification.ID = m.nextID
	m.nextID++
	notification.CreatedAt = time.Now()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID int64, limit int) ([]*models.Notification, error) {
	var result []*models.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].UserID == userID {
			result = append(result, m.notifications[i])
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, userID, notificationID int64) error {
	for _, n := range m.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// ── Mock EmailService ──

type sentStatusEmail struct {
	to      string
	issueID int64
	comment string
}

type mockEmailService struct {
	issueReportedTo []string
	statusEmails    []sentStatusEmail
	resetCodes      map[string]string
}

func newMockEmailService() *mockEmailService {
	return &mockEmailService{resetCodes: make(map[string]string)}
}

func (m *mockEmailService) SendIssueReported(toEmail string, issue *models.Issue) error {
	m.issueReportedTo = append(m.issueReportedTo, toEmail)
	return nil
}

func (m *mockEmailService) SendStatusUpdated(toEmail, _ string, issue *models.Issue, comment string) error {
	m.statusEmails = append(m.statusEmails, sentStatusEmail{to: toEmail, issueID: issue.ID, comment: comment})
	return nil
}

func (m *mockEmailService) SendPasswordResetCode(toEmail, _, code string) error {
	m.resetCodes[toEmail] = code
	return nil
}

// ── Mock EventEmitter ──

type emittedEvent struct {
	userID int64
	event  realtime.Event
}

type mockEmitter struct {
	events []emittedEvent
}

func (m *mockEmitter) EmitToUser(userID int64, event realtime.Event) {
	m.events = append(m.events, emittedEvent{userID: userID, event: event})
}

func (m *mockEmitter) eventsFor(userID int64) []realtime.Event {
	var result []realtime.Event
	for _, e := range m.events {
		if e.userID == userID {
			result = append(result, e.event)
		}
	}
	return result
}
