package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/db"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
	"github.com/campusdesk/campusdesk/internal/pkg/logger"
)

// IssueFilter holds listing filters. Status "active" is a virtual value
// matching every issue that is not closed or resolved.
type IssueFilter struct {
	CreatedBy *int64
	Status    string
	Limit     int
}

// CategoryIssueCount is one row of the per-category breakdown
type CategoryIssueCount struct {
	CategoryName string
	Count        int64
}

// IIssueRepository defines the interface for issue database operations
type IIssueRepository interface {
	Create(ctx context.Context, issue *models.Issue, initialComment string, attachments []*models.Attachment) error
	GetByID(ctx context.Context, id int64) (*models.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]*models.Issue, error)
	UpdateStatusWithHistory(ctx context.Context, issueID int64, newStatus models.IssueStatus, comment string, updatedBy int64) (*models.Issue, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByCategory(ctx context.Context) ([]CategoryIssueCount, error)
}

const issueColumns = `id, issue_number, title, description, location, priority, status,
	category_id, created_by, created_at, updated_at`

// IssueRepository handles database operations for issues and their history
type IssueRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(database *db.PostgresDB) *IssueRepository {
	return &IssueRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanIssue(row pgx.Row) (*models.Issue, error) {
	var issue models.Issue
	err := row.Scan(
		&issue.ID,
		&issue.IssueNumber,
		&issue.Title,
		&issue.Description,
		&issue.Location,
		&issue.Priority,
		&issue.Status,
		&issue.CategoryID,
		&issue.CreatedBy,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("error scanning issue: %w", err)
	}
	return &issue, nil
}

// Create inserts the issue, its initial history row and any attachments in a
// single transaction. The issue number comes from a database sequence, so
// concurrent creations can never collide; the assigned number and timestamps
// are written back onto the issue.
func (r *IssueRepository) Create(ctx context.Context, issue *models.Issue, initialComment string, attachments []*models.Attachment) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO issues (title, description, location, priority, status, category_id, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, issue_number, created_at, updated_at`,
			issue.Title, issue.Description, issue.Location, issue.Priority,
			issue.Status, issue.CategoryID, issue.CreatedBy,
		).Scan(&issue.ID, &issue.IssueNumber, &issue.CreatedAt, &issue.UpdatedAt)
		if err != nil {
			return fmt.Errorf("error creating issue: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO issue_updates (issue_id, new_status, comment, updated_by)
			VALUES ($1, $2, $3, $4)`,
			issue.ID, issue.Status, initialComment, issue.CreatedBy)
		if err != nil {
			return fmt.Errorf("error creating initial issue update: %w", err)
		}

		for _, attachment := range attachments {
			attachment.IssueID = issue.ID
			err = tx.QueryRow(ctx, `
				INSERT INTO attachments (issue_id, uploaded_by, file_url, mime_type, file_size)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, created_at`,
				attachment.IssueID, attachment.UploadedBy, attachment.FileURL,
				attachment.MimeType, attachment.FileSize,
			).Scan(&attachment.ID, &attachment.CreatedAt)
			if err != nil {
				return fmt.Errorf("error creating attachment: %w", err)
			}
		}

		issue.Attachments = attachments
		return nil
	})
}

// GetByID retrieves an issue with its category, creator, full history and attachments
func (r *IssueRepository) GetByID(ctx context.Context, id int64) (*models.Issue, error) {
	issue, err := scanIssue(r.db.Pool.QueryRow(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	issue.Category, err = r.loadCategory(ctx, issue.CategoryID)
	if err != nil {
		return nil, err
	}

	issue.Creator, err = r.loadCreator(ctx, issue.CreatedBy)
	if err != nil {
		return nil, err
	}

	issue.Updates, err = r.loadUpdates(ctx, issue.ID)
	if err != nil {
		return nil, err
	}

	issue.Attachments, err = r.loadAttachments(ctx, issue.ID)
	if err != nil {
		return nil, err
	}

	return issue, nil
}

func (r *IssueRepository) loadCategory(ctx context.Context, categoryID int64) (*models.Category, error) {
	return scanCategory(r.db.Pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, categoryID))
}

func (r *IssueRepository) loadCreator(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, email, full_name, student_id, role_type FROM users WHERE id = $1`, userID,
	).Scan(&user.ID, &user.Email, &user.FullName, &user.StudentID, &user.RoleType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading issue creator: %w", err)
	}
	return &user, nil
}

func (r *IssueRepository) loadUpdates(ctx context.Context, issueID int64) ([]*models.IssueUpdate, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, issue_id, new_status, comment, updated_by, created_at
		FROM issue_updates
		WHERE issue_id = $1
		ORDER BY created_at ASC, id ASC`, issueID)
	if err != nil {
		return nil, fmt.Errorf("error loading issue updates: %w", err)
	}
	defer rows.Close()

	var updates []*models.IssueUpdate
	for rows.Next() {
		var update models.IssueUpdate
		err := rows.Scan(&update.ID, &update.IssueID, &update.NewStatus,
			&update.Comment, &update.UpdatedBy, &update.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning issue update: %w", err)
		}
		updates = append(updates, &update)
	}

	return updates, rows.Err()
}

func (r *IssueRepository) loadAttachments(ctx context.Context, issueID int64) ([]*models.Attachment, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, issue_id, uploaded_by, file_url, mime_type, file_size, created_at
		FROM attachments
		WHERE issue_id = $1
		ORDER BY id ASC`, issueID)
	if err != nil {
		return nil, fmt.Errorf("error loading attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		var attachment models.Attachment
		err := rows.Scan(&attachment.ID, &attachment.IssueID, &attachment.UploadedBy,
			&attachment.FileURL, &attachment.MimeType, &attachment.FileSize, &attachment.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning attachment: %w", err)
		}
		attachments = append(attachments, &attachment)
	}

	return attachments, rows.Err()
}

// List returns issues matching the filter, newest first, each with its
// category and creator summary attached.
func (r *IssueRepository) List(ctx context.Context, filter IssueFilter) ([]*models.Issue, error) {
	builder := r.sb.Select(
		"i.id", "i.issue_number", "i.title", "i.description", "i.location",
		"i.priority", "i.status", "i.category_id", "i.created_by", "i.created_at", "i.updated_at",
		"c.name", "u.full_name", "u.email").
		From("issues i").
		Join("categories c ON c.id = i.category_id").
		Join("users u ON u.id = i.created_by").
		OrderBy("i.created_at DESC")

	if filter.CreatedBy != nil {
		builder = builder.Where(squirrel.Eq{"i.created_by": *filter.CreatedBy})
	}
	switch filter.Status {
	case "", "all":
		// no status constraint
	case models.StatusActive:
		builder = builder.Where(squirrel.NotEq{"i.status": []models.IssueStatus{
			models.StatusClosed, models.StatusResolved,
		}})
	default:
		builder = builder.Where(squirrel.Eq{"i.status": filter.Status})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list issues SQL")
		return nil, fmt.Errorf("failed to build list issues query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing issues: %w", err)
	}
	defer rows.Close()

	var issues []*models.Issue
	for rows.Next() {
		var issue models.Issue
		var category models.Category
		var creator models.User
		err := rows.Scan(
			&issue.ID, &issue.IssueNumber, &issue.Title, &issue.Description, &issue.Location,
			&issue.Priority, &issue.Status, &issue.CategoryID, &issue.CreatedBy,
			&issue.CreatedAt, &issue.UpdatedAt,
			&category.Name, &creator.FullName, &creator.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning issue row: %w", err)
		}
		category.ID = issue.CategoryID
		creator.ID = issue.CreatedBy
		issue.Category = &category
		issue.Creator = &creator
		issues = append(issues, &issue)
	}

	return issues, rows.Err()
}

// UpdateStatusWithHistory writes the new status and appends the matching
// history row in one transaction, so the two can never diverge. Returns the
// updated issue with its category and creator loaded.
func (r *IssueRepository) UpdateStatusWithHistory(ctx context.Context, issueID int64, newStatus models.IssueStatus, comment string, updatedBy int64) (*models.Issue, error) {
	var issue *models.Issue
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE issues SET status = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING `+issueColumns,
			newStatus, issueID)

		var scanErr error
		issue, scanErr = scanIssue(row)
		if scanErr != nil {
			return scanErr
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO issue_updates (issue_id, new_status, comment, updated_by)
			VALUES ($1, $2, $3, $4)`,
			issueID, newStatus, comment, updatedBy)
		if err != nil {
			return fmt.Errorf("error appending issue update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	issue.Category, err = r.loadCategory(ctx, issue.CategoryID)
	if err != nil {
		return nil, err
	}
	issue.Creator, err = r.loadCreator(ctx, issue.CreatedBy)
	if err != nil {
		return nil, err
	}

	return issue, nil
}

// Count returns the total number of issues
func (r *IssueRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM issues`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting issues: %w", err)
	}
	return count, nil
}

// CountByStatus returns issue counts keyed by status
func (r *IssueRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT status, COUNT(*) FROM issues GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting issues by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning status count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// CountByCategory returns per-category issue counts, most reported first
func (r *IssueRepository) CountByCategory(ctx context.Context) ([]CategoryIssueCount, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT c.name, COUNT(i.id)
		FROM categories c
		LEFT JOIN issues i ON i.category_id = c.id
		GROUP BY c.name
		ORDER BY COUNT(i.id) DESC, c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error counting issues by category: %w", err)
	}
	defer rows.Close()

	var counts []CategoryIssueCount
	for rows.Next() {
		var c CategoryIssueCount
		if err := rows.Scan(&c.CategoryName, &c.Count); err != nil {
			return nil, fmt.Errorf("error scanning category count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
