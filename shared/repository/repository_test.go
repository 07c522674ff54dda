package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agoge-backend/shared/database/models"
)

// openTestDB opens an in-memory database with the full schema migrated.
// TranslateError is on so constraint violations surface the same way they
// do against postgres.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Company{},
		&models.CompanySettings{},
		&models.User{},
		&models.CourseToBuy{},
		&models.CompanyCourse{},
	)
	require.NoError(t, err)

	return db
}

func createCompany(t *testing.T, db *gorm.DB, name string) *models.Company {
	t.Helper()

	company := models.Company{Name: name}
	require.NoError(t, db.Create(&company).Error)
	return &company
}

func createCourse(t *testing.T, db *gorm.DB, title, language string) *models.CourseToBuy {
	t.Helper()

	course := models.CourseToBuy{Title: title, Language: language, Price: 100}
	require.NoError(t, db.Create(&course).Error)
	return &course
}
