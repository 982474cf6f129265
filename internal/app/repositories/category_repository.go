package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/pkg/apperrors"
)

// ICategoryRepository defines the interface for category database operations
type ICategoryRepository interface {
	GetActive(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	UpsertByName(ctx context.Context, category *models.Category) error
}

// CategoryRepository handles database operations for reporting categories
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

const categoryColumns = `id, name, description, department_email, is_active, created_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var category models.Category
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.DepartmentEmail,
		&category.IsActive,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("error scanning category: %w", err)
	}
	return &category, nil
}

// GetActive returns all active categories ordered by name
func (r *CategoryRepository) GetActive(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE is_active = TRUE ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(r.db.QueryRow(ctx, query, id))
}

// UpsertByName inserts a category or refreshes an existing one keyed by name.
// Used by seeding so restarts never duplicate reference data.
func (r *CategoryRepository) UpsertByName(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description, department_email, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET description = EXCLUDED.description,
		    department_email = EXCLUDED.department_email,
		    is_active = EXCLUDED.is_active
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		category.Name, category.Description, category.DepartmentEmail, category.IsActive,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("error upserting category %q: %w", category.Name, err)
	}
	return nil
}
