// Package repository holds the data-access interfaces for every entity
// plus their GORM implementations. Handlers, the authorization scoper and
// the team workflow all receive these instead of touching a global DB.
package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"agoge-backend/shared/database/models"
)

type UserRepository interface {
	All() ([]models.User, error)
	ByCompany(companyID uuid.UUID) ([]models.User, error)
	ByID(id uuid.UUID) (*models.User, error)
	ByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error
}

type CompanyRepository interface {
	All() ([]models.Company, error)
	ByID(id uuid.UUID) (*models.Company, error)
	Create(company *models.Company) error
	Update(id uuid.UUID, fields map[string]interface{}) error
	// DeleteCascade removes the company together with its settings,
	// users and course grants in a single transaction.
	DeleteCascade(id uuid.UUID) error
}

type SettingsRepository interface {
	// GetOrCreate fetches the company's settings, creating a default
	// record on first read. Concurrent first reads are resolved by the
	// unique index on company_id; the loser reads the winner's row.
	GetOrCreate(companyID uuid.UUID) (*models.CompanySettings, error)
	Update(companyID uuid.UUID, fields map[string]interface{}) (*models.CompanySettings, error)
}

type CourseRepository interface {
	All() ([]models.CourseToBuy, error)
	ByID(id uuid.UUID) (*models.CourseToBuy, error)
	Create(course *models.CourseToBuy) error
	Update(id uuid.UUID, fields map[string]interface{}) error
}

type GrantRepository interface {
	ByCompany(companyID uuid.UUID) ([]models.CompanyCourse, error)
	Create(grant *models.CompanyCourse) error
}

// Repositories bundles the per-entity implementations for wiring.
type Repositories struct {
	Users     UserRepository
	Companies CompanyRepository
	Settings  SettingsRepository
	Courses   CourseRepository
	Grants    GrantRepository
}

// New builds the GORM-backed repository set.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Companies: NewCompanyRepository(db),
		Settings:  NewSettingsRepository(db),
		Courses:   NewCourseRepository(db),
		Grants:    NewGrantRepository(db),
	}
}
