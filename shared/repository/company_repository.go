package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
)

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) All() ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.Order("created_at DESC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) ByID(id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "Company with the given ID does not exist")
		}
		return nil, err
	}
	return &company, nil
}

func (r *companyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

func (r *companyRepository) Update(id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.Model(&models.Company{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Company with the given ID does not exist")
	}
	return nil
}

// DeleteCascade removes grants, settings and users before the company
// itself, all inside one transaction.
func (r *companyRepository) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.First(&company, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.ErrNotFound, "Company with the given ID does not exist")
			}
			return err
		}

		if err := tx.Delete(&models.CompanyCourse{}, "company_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.CompanySettings{}, "company_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, "company_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&company).Error
	})
}
