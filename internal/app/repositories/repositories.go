package repositories

import (
	"github.com/campusdesk/campusdesk/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	CategoryRepository     *CategoryRepository
	IssueRepository        *IssueRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(database.Pool),
		CategoryRepository:     NewCategoryRepository(database.Pool),
		IssueRepository:        NewIssueRepository(database),
		NotificationRepository: NewNotificationRepository(database.Pool),
	}
}
