package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
)

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetOrCreate(companyID uuid.UUID) (*models.CompanySettings, error) {
	var settings models.CompanySettings
	err := r.db.Where("company_id = ?", companyID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.CompanySettings{
		CompanyID:      companyID,
		PrimaryColor:   models.DefaultPrimaryColor,
		TextColor:      models.DefaultTextColor,
		SecondaryColor: models.DefaultSecondaryColor,
	}
	if err := r.db.Create(&settings).Error; err != nil {
		// Lost a concurrent first-read race: the unique index on
		// company_id rejected us, read the winner's row instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.CompanySettings
			if err2 := r.db.Where("company_id = ?", companyID).First(&existing).Error; err2 == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(companyID uuid.UUID, fields map[string]interface{}) (*models.CompanySettings, error) {
	settings, err := r.GetOrCreate(companyID)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := r.db.Model(settings).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	var updated models.CompanySettings
	if err := r.db.Where("company_id = ?", companyID).First(&updated).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "Company settings not found")
		}
		return nil, err
	}
	return &updated, nil
}
