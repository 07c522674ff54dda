package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) All() ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Company").Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ByCompany(companyID uuid.UUID) ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Company").Where("company_id = ?", companyID).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Company").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "User with the given ID does not exist")
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Company").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "User with the given email does not exist")
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.ErrConflict, "A user with this email already exists")
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.New(apperrors.ErrValidation, "Company not found")
		}
		return err
	}
	return nil
}

func (r *userRepository) Update(id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.New(apperrors.ErrConflict, "Another user with this email already exists")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "User with the given ID does not exist")
	}
	return nil
}

func (r *userRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "User with the given ID does not exist")
	}
	return nil
}
