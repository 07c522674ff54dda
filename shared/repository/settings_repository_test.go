package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agoge-backend/shared/database/models"
)

func TestGetOrCreateReturnsDefaults(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingsRepository(db)
	company := createCompany(t, db, "Acme")

	settings, err := repo.GetOrCreate(company.ID)
	require.NoError(t, err)

	assert.Equal(t, company.ID, settings.CompanyID)
	assert.Equal(t, models.DefaultPrimaryColor, settings.PrimaryColor)
	assert.Equal(t, models.DefaultTextColor, settings.TextColor)
	assert.Equal(t, models.DefaultSecondaryColor, settings.SecondaryColor)
	assert.Empty(t, settings.Logo)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingsRepository(db)
	company := createCompany(t, db, "Acme")

	first, err := repo.GetOrCreate(company.ID)
	require.NoError(t, err)

	second, err := repo.GetOrCreate(company.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.CompanySettings{}).Where("company_id = ?", company.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSettingsAreIsolatedPerCompany(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingsRepository(db)
	acme := createCompany(t, db, "Acme")
	globex := createCompany(t, db, "Globex")

	_, err := repo.Update(acme.ID, map[string]interface{}{"primary_color": "#ff0000"})
	require.NoError(t, err)

	acmeSettings, err := repo.GetOrCreate(acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", acmeSettings.PrimaryColor)

	globexSettings, err := repo.GetOrCreate(globex.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPrimaryColor, globexSettings.PrimaryColor)
}

func TestUpdateTouchesOnlyGivenFields(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingsRepository(db)
	company := createCompany(t, db, "Acme")

	updated, err := repo.Update(company.ID, map[string]interface{}{
		"primary_color": "#123456",
	})
	require.NoError(t, err)

	assert.Equal(t, "#123456", updated.PrimaryColor)
	assert.Equal(t, models.DefaultTextColor, updated.TextColor)
	assert.Equal(t, models.DefaultSecondaryColor, updated.SecondaryColor)
}

func TestUpdateCreatesSettingsOnFirstWrite(t *testing.T) {
	db := openTestDB(t)
	repo := NewSettingsRepository(db)
	company := createCompany(t, db, "Acme")

	updated, err := repo.Update(company.ID, map[string]interface{}{
		"logo": "logos/" + uuid.NewString() + ".png",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPrimaryColor, updated.PrimaryColor)
	assert.NotEmpty(t, updated.Logo)
}
