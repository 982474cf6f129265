// Package seed creates the default reference data the portal needs.
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/campusdesk/campusdesk/internal/app/models"
	"github.com/campusdesk/campusdesk/internal/app/repositories"
)

type categorySeed struct {
	name            string
	description     string
	departmentEmail string
}

var defaultCategorySeeds = []categorySeed{
	{"Facilities", "Buildings, rooms and campus grounds", "facilities@university.edu"},
	{"IT Support", "WiFi, computers and software", "itsupport@university.edu"},
	{"Academic", "Classrooms, labs and coursework", "academic@university.edu"},
	{"Housing", "Dorms and residential halls", "housing@university.edu"},
	{"Library", "Library services and resources", "library@university.edu"},
	{"Administrative", "Paperwork and administrative services", "admin@university.edu"},
	{"Safety", "Safety and security concerns", "security@university.edu"},
	{"Other", "Anything that fits nowhere else", "support@university.edu"},
}

// CreateDefaultData upserts the reporting categories keyed by name.
// Safe to run on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := repositories.NewCategoryRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default reporting categories...")

	var finalErr error
	for _, s := range defaultCategorySeeds {
		description := s.description
		category := &models.Category{
			Name:            s.name,
			Description:     &description,
			DepartmentEmail: s.departmentEmail,
			IsActive:        true,
		}
		if err := categoryRepo.UpsertByName(ctx, category); err != nil {
			lgr.Error().Err(err).Str("category", s.name).Msg("Error seeding category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("count", len(defaultCategorySeeds)).Msg("Default categories ready")
	}
	return finalErr
}
