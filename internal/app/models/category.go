package models

import "time"

// Category represents a reporting category owned by a university department.
// Static reference data, created by seeding.
type Category struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	DepartmentEmail string    `json:"-" db:"department_email"`
	IsActive        bool      `json:"isActive" db:"is_active"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
