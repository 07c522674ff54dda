package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
)

type teamFixture struct {
	db      *gorm.DB
	repos   *repository.Repositories
	mailer  *recordingMailer
	events  *recordingBroadcaster
	handler *TeamHandler

	acme      *models.Company
	globex    *models.Company
	acmeAdmin models.User
	acmeUser  models.User
	globexCEO models.User
	drifter   models.User
}

func newTeamFixture(t *testing.T) *teamFixture {
	t.Helper()

	f := &teamFixture{
		db:     openTestDB(t),
		mailer: &recordingMailer{},
		events: &recordingBroadcaster{},
	}
	f.repos = repository.New(f.db)
	f.handler = NewTeamHandler(f.repos.Users, f.mailer, f.events)

	f.acme = createTestCompany(t, f.db, "Acme")
	f.globex = createTestCompany(t, f.db, "Globex")

	f.acmeAdmin = models.User{Email: "alice@acme.com", Password: "x", CompanyID: &f.acme.ID, IsAdmin: true}
	f.acmeUser = models.User{Email: "anton@acme.com", Password: "x", CompanyID: &f.acme.ID}
	f.globexCEO = models.User{Email: "bob@globex.com", Password: "x", CompanyID: &f.globex.ID, IsAdmin: true}
	f.drifter = models.User{Email: "carol@nowhere.io", Password: "x"}
	for _, u := range []*models.User{&f.acmeAdmin, &f.acmeUser, &f.globexCEO, &f.drifter} {
		require.NoError(t, f.db.Create(u).Error)
	}

	return f
}

func (f *teamFixture) router(caller *models.User) http.Handler {
	r := newRouter()
	r.Use(asIdentity(caller))
	r.GET("/api/team/", f.handler.GetTeam)
	r.POST("/api/team/invite/", f.handler.InviteMember)
	r.DELETE("/api/team/remove/:id/", f.handler.RemoveMember)
	return r
}

func inviteBody(t *testing.T, email string) *bytes.Buffer {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestGetTeamListsCompanyMembers(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/team/", nil)
	f.router(&f.acmeAdmin).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var members []TeamMemberResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	require.Len(t, members, 2)

	emails := []string{members[0].Email, members[1].Email}
	assert.ElementsMatch(t, []string{"alice@acme.com", "anton@acme.com"}, emails)
}

func TestGetTeamForbiddenForNonAdmin(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/team/", nil)
	f.router(&f.acmeUser).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetTeamNoCompany(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/team/", nil)
	f.router(&f.drifter).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInviteMemberSendsMailAndEvent(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/team/invite/", inviteBody(t, "newhire@acme.com"))
	req.Header.Set("Content-Type", "application/json")
	f.router(&f.acmeAdmin).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"newhire@acme.com"}, f.mailer.sent)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, "member_invited", f.events.events[0].Type)
	assert.Equal(t, f.acme.ID, f.events.events[0].CompanyID)

	// Invitations are stateless: no user record exists until registration.
	var count int64
	f.db.Model(&models.User{}).Where("email = ?", "newhire@acme.com").Count(&count)
	assert.Zero(t, count)
}

func TestInviteExistingEmailConflictSendsNoMail(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/team/invite/", inviteBody(t, "bob@globex.com"))
	req.Header.Set("Content-Type", "application/json")
	f.router(&f.acmeAdmin).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.events.events)
}

func TestInviteRequiresEmail(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/team/invite/", inviteBody(t, ""))
	req.Header.Set("Content-Type", "application/json")
	f.router(&f.acmeAdmin).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.mailer.sent)
}

func TestInviteRejectsMalformedEmail(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/team/invite/", inviteBody(t, "not-an-address"))
	req.Header.Set("Content-Type", "application/json")
	f.router(&f.acmeAdmin).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.mailer.sent)
}

func TestInviteForbiddenForNonAdmin(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/team/invite/", inviteBody(t, "newhire@acme.com"))
	req.Header.Set("Content-Type", "application/json")
	f.router(&f.acmeUser).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, f.mailer.sent)
}

func TestRemoveMemberDeletesAndBroadcasts(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/team/remove/"+f.acmeUser.ID.String()+"/", nil)
	f.router(&f.acmeAdmin).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	_, err := f.repos.Users.ByID(f.acmeUser.ID)
	assert.Error(t, err)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, "member_removed", f.events.events[0].Type)
	assert.Equal(t, f.acme.ID, f.events.events[0].CompanyID)
	assert.Equal(t, f.acmeUser.ID.String(), f.events.events[0].UserID)
}

func TestRemoveMemberUnknownID(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/team/remove/3f6f5a33-1111-4f62-9f5a-000000000000/", nil)
	f.router(&f.acmeAdmin).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.events.events)
}

func TestRemoveMemberInvalidID(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/team/remove/not-a-uuid/", nil)
	f.router(&f.acmeAdmin).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Removal is not tenant-checked: a member of one company can delete a
// user of another. This test pins the current behavior so a change here
// is a deliberate decision, not an accident.
func TestRemoveMemberIsNotTenantScoped(t *testing.T) {
	f := newTeamFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/team/remove/"+f.globexCEO.ID.String()+"/", nil)
	f.router(&f.acmeUser).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	_, err := f.repos.Users.ByID(f.globexCEO.ID)
	assert.Error(t, err)
}
