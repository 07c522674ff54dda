package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
)

type fakeStorage struct {
	uploaded []string
	removed  []string
}

func (s *fakeStorage) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	io.Copy(io.Discard, reader)
	s.uploaded = append(s.uploaded, objectKey)
	return nil
}

func (s *fakeStorage) Remove(ctx context.Context, objectKey string) error {
	s.removed = append(s.removed, objectKey)
	return nil
}

type settingsFixture struct {
	db      *gorm.DB
	repos   *repository.Repositories
	storage *fakeStorage
	handler *SettingsHandler

	acme   *models.Company
	admin  models.User
	member models.User
}

func newSettingsFixture(t *testing.T) *settingsFixture {
	t.Helper()

	f := &settingsFixture{
		db:      openTestDB(t),
		storage: &fakeStorage{},
	}
	f.repos = repository.New(f.db)
	f.handler = NewSettingsHandler(f.repos.Settings, f.storage, nil)

	f.acme = createTestCompany(t, f.db, "Acme")
	f.admin = models.User{Email: "alice@acme.com", Password: "x", CompanyID: &f.acme.ID, IsAdmin: true}
	f.member = models.User{Email: "anton@acme.com", Password: "x", CompanyID: &f.acme.ID}
	require.NoError(t, f.db.Create(&f.admin).Error)
	require.NoError(t, f.db.Create(&f.member).Error)

	return f
}

func (f *settingsFixture) router(caller *models.User) http.Handler {
	r := newRouter()
	r.Use(asIdentity(caller))
	r.GET("/api/dashboard-settings/", f.handler.GetSettings)
	r.PUT("/api/dashboard-settings/", f.handler.UpdateSettings)
	return r
}

type settingsEnvelope struct {
	Success bool             `json:"success"`
	Data    SettingsResponse `json:"data"`
}

func TestGetSettingsCreatesDefaults(t *testing.T) {
	f := newSettingsFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard-settings/", nil)
	f.router(&f.member).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body settingsEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.DefaultPrimaryColor, body.Data.PrimaryColor)
	assert.Equal(t, models.DefaultTextColor, body.Data.TextColor)
	assert.Equal(t, models.DefaultSecondaryColor, body.Data.SecondaryColor)
	assert.Nil(t, body.Data.LogoURL)
}

func TestUpdateSettingsPartialJSON(t *testing.T) {
	f := newSettingsFixture(t)

	payload, _ := json.Marshal(map[string]string{"primary_color": "#112233"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/dashboard-settings/", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	f.router(&f.admin).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body settingsEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "#112233", body.Data.PrimaryColor)
	assert.Equal(t, models.DefaultTextColor, body.Data.TextColor)
}

func TestUpdateSettingsForbiddenForMember(t *testing.T) {
	f := newSettingsFixture(t)

	payload, _ := json.Marshal(map[string]string{"primary_color": "#112233"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/dashboard-settings/", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	f.router(&f.member).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateSettingsLogoUpload(t *testing.T) {
	f := newSettingsFixture(t)

	buildLogoRequest := func(color, filename string) *http.Request {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		if color != "" {
			require.NoError(t, writer.WriteField("primary_color", color))
		}
		part, err := writer.CreateFormFile("logo", filename)
		require.NoError(t, err)
		part.Write([]byte("not-really-a-png"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPut, "/api/dashboard-settings/", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	w := httptest.NewRecorder()
	f.router(&f.admin).ServeHTTP(w, buildLogoRequest("#445566", "logo.png"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.storage.uploaded, 1)

	var body settingsEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, f.storage.uploaded[0], body.Data.Logo)
	assert.Equal(t, "#445566", body.Data.PrimaryColor)

	// Uploading under a new key removes the previous object.
	w = httptest.NewRecorder()
	f.router(&f.admin).ServeHTTP(w, buildLogoRequest("", "logo.jpg"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{f.storage.uploaded[0]}, f.storage.removed)
}

func TestSettingsWithoutCompany(t *testing.T) {
	f := newSettingsFixture(t)
	drifter := models.User{Email: "carol@nowhere.io", Password: "x"}
	require.NoError(t, f.db.Create(&drifter).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard-settings/", nil)
	f.router(&drifter).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
