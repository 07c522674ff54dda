package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
)

type grantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

func (r *grantRepository) ByCompany(companyID uuid.UUID) ([]models.CompanyCourse, error) {
	var grants []models.CompanyCourse
	if err := r.db.Preload("Course").Where("company_id = ?", companyID).Order("purchased_at DESC").Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *grantRepository) Create(grant *models.CompanyCourse) error {
	if err := r.db.Create(grant).Error; err != nil {
		// The composite unique index on (company_id, course_id) is the
		// authoritative double-grant guard.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.ErrConflict, "Company already holds a grant for this course")
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.New(apperrors.ErrValidation, "Company or course not found")
		}
		return err
	}
	return nil
}
