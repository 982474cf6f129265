package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/app/repositories"
)

// defaultCategories is served when the table has not been seeded yet, so the
// reporting form always has something to offer.
var defaultCategories = []*models.Category{
	{ID: 1, Name: "Infrastructure", Description: strPtr("Buildings, roads, facilities"), IsActive: true},
	{ID: 2, Name: "IT Services", Description: strPtr("WiFi, computers, software"), IsActive: true},
	{ID: 3, Name: "Hostel", Description: strPtr("Hostel related issues"), IsActive: true},
	{ID: 4, Name: "Academic", Description: strPtr("Classrooms, labs, library"), IsActive: true},
	{ID: 5, Name: "Cafeteria", Description: strPtr("Food and dining services"), IsActive: true},
	{ID: 6, Name: "Security", Description: strPtr("Safety and security concerns"), IsActive: true},
	{ID: 7, Name: "Other", Description: strPtr("Other issues"), IsActive: true},
}

func strPtr(s string) *string { return &s }

// CategoryService serves the reporting categories
type CategoryService struct {
	categoryRepo repositories.ICategoryRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repositories.ICategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List returns all active categories, falling back to the built-in set when
// the table is empty or unreachable.
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.GetActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load categories, serving defaults")
		return defaultCategories, nil
	}
	if len(categories) == 0 {
		return defaultCategories, nil
	}
	return categories, nil
}
