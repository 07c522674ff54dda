package scope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
)

type fixture struct {
	scoper *Scoper

	superuser models.User
	acmeAdmin models.User
	acmeUser  models.User
	globexCEO models.User
	drifter   models.User

	acme   models.Company
	globex models.Company
}

// newFixture seeds two companies plus a superuser and an unaffiliated
// user, the smallest population that exercises every scope variant.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Company{},
		&models.CompanySettings{},
		&models.User{},
		&models.CourseToBuy{},
		&models.CompanyCourse{},
	))

	f := &fixture{
		acme:   models.Company{Name: "Acme"},
		globex: models.Company{Name: "Globex"},
	}
	require.NoError(t, db.Create(&f.acme).Error)
	require.NoError(t, db.Create(&f.globex).Error)

	f.superuser = models.User{Email: "root@platform.io", Password: "x", IsSuperuser: true, IsAdmin: true}
	f.acmeAdmin = models.User{Email: "alice@acme.com", Password: "x", CompanyID: &f.acme.ID, IsAdmin: true}
	f.acmeUser = models.User{Email: "anton@acme.com", Password: "x", CompanyID: &f.acme.ID}
	f.globexCEO = models.User{Email: "bob@globex.com", Password: "x", CompanyID: &f.globex.ID, IsAdmin: true}
	f.drifter = models.User{Email: "carol@nowhere.io", Password: "x"}

	for _, u := range []*models.User{&f.superuser, &f.acmeAdmin, &f.acmeUser, &f.globexCEO, &f.drifter} {
		require.NoError(t, db.Create(u).Error)
	}

	repos := repository.New(db)
	f.scoper = NewScoper(repos.Users, repos.Companies, repos.Grants)
	return f
}

func emails(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Email)
	}
	return out
}

func TestIdentityFromUserVariants(t *testing.T) {
	companyID := uuid.New()

	tests := []struct {
		name string
		user models.User
		want Role
	}{
		{"superuser", models.User{IsSuperuser: true}, RoleSuperuser},
		{"superuser flag beats admin", models.User{IsSuperuser: true, IsAdmin: true, CompanyID: &companyID}, RoleSuperuser},
		{"company admin", models.User{IsAdmin: true, CompanyID: &companyID}, RoleCompanyAdmin},
		{"member", models.User{CompanyID: &companyID}, RoleMember},
		{"admin flag without company degrades", models.User{IsAdmin: true}, RoleUnaffiliated},
		{"unaffiliated", models.User{}, RoleUnaffiliated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IdentityFromUser(&tt.user).Role)
		})
	}
}

func TestVisibleUsersSuperuserSeesEveryone(t *testing.T) {
	f := newFixture(t)

	users, err := f.scoper.VisibleUsers(IdentityFromUser(&f.superuser))
	require.NoError(t, err)
	assert.Len(t, users, 5)
}

func TestVisibleUsersAdminSeesOwnCompanyOnly(t *testing.T) {
	f := newFixture(t)

	users, err := f.scoper.VisibleUsers(IdentityFromUser(&f.acmeAdmin))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice@acme.com", "anton@acme.com"}, emails(users))
}

func TestVisibleUsersMemberSeesSelfOnly(t *testing.T) {
	f := newFixture(t)

	users, err := f.scoper.VisibleUsers(IdentityFromUser(&f.acmeUser))
	require.NoError(t, err)
	assert.Equal(t, []string{"anton@acme.com"}, emails(users))
}

func TestVisibleUsersUnaffiliatedSeesSelfOnly(t *testing.T) {
	f := newFixture(t)

	users, err := f.scoper.VisibleUsers(IdentityFromUser(&f.drifter))
	require.NoError(t, err)
	assert.Equal(t, []string{"carol@nowhere.io"}, emails(users))
}

func TestVisibleUserCrossTenantReadsAsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.scoper.VisibleUser(IdentityFromUser(&f.acmeAdmin), f.globexCEO.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVisibleUserMemberCannotReadColleague(t *testing.T) {
	f := newFixture(t)

	_, err := f.scoper.VisibleUser(IdentityFromUser(&f.acmeUser), f.acmeAdmin.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVisibleUserAdminReadsOwnMember(t *testing.T) {
	f := newFixture(t)

	user, err := f.scoper.VisibleUser(IdentityFromUser(&f.acmeAdmin), f.acmeUser.ID)
	require.NoError(t, err)
	assert.Equal(t, "anton@acme.com", user.Email)
}

func TestVisibleUserSuperuserReadsAnyone(t *testing.T) {
	f := newFixture(t)

	user, err := f.scoper.VisibleUser(IdentityFromUser(&f.superuser), f.globexCEO.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@globex.com", user.Email)
}

func TestVisibleCompanies(t *testing.T) {
	f := newFixture(t)

	all, err := f.scoper.VisibleCompanies(IdentityFromUser(&f.superuser))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := f.scoper.VisibleCompanies(IdentityFromUser(&f.acmeUser))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Acme", own[0].Name)

	none, err := f.scoper.VisibleCompanies(IdentityFromUser(&f.drifter))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVisibleCompanyCrossTenantReadsAsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.scoper.VisibleCompany(IdentityFromUser(&f.acmeAdmin), f.globex.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompanyGrantsRequiresCompany(t *testing.T) {
	f := newFixture(t)

	_, err := f.scoper.CompanyGrants(IdentityFromUser(&f.drifter))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoTenant)
}

func TestRequireCompany(t *testing.T) {
	f := newFixture(t)

	companyID, err := IdentityFromUser(&f.acmeUser).RequireCompany()
	require.NoError(t, err)
	assert.Equal(t, f.acme.ID, companyID)

	_, err = IdentityFromUser(&f.drifter).RequireCompany()
	assert.ErrorIs(t, err, apperrors.ErrNoTenant)
}
