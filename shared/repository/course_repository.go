package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
)

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) All() ([]models.CourseToBuy, error) {
	var courses []models.CourseToBuy
	if err := r.db.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ByID(id uuid.UUID) (*models.CourseToBuy, error) {
	var course models.CourseToBuy
	if err := r.db.First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "Course with the given ID does not exist")
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Create(course *models.CourseToBuy) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) Update(id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.Model(&models.CourseToBuy{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrNotFound, "Course with the given ID does not exist")
	}
	return nil
}
