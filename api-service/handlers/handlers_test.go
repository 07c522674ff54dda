package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agoge-backend/api-service/services"
	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
	"agoge-backend/shared/scope"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func openTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// asIdentity injects a resolved identity the way AuthMiddleware would.
func asIdentity(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identity", scope.IdentityFromUser(user))
		c.Next()
	}
}

func newRouter() *gin.Engine {
	return gin.New()
}

func createTestCompany(t *testing.T, db *gorm.DB, name string) *models.Company {
	t.Helper()

	company := models.Company{Name: name}
	require.NoError(t, db.Create(&company).Error)
	return &company
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendInvitation(to string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type recordingBroadcaster struct {
	events []services.TeamEvent
}

func (b *recordingBroadcaster) Broadcast(event services.TeamEvent) {
	b.events = append(b.events, event)
}

func newScoper(repos *repository.Repositories) *scope.Scoper {
	return scope.NewScoper(repos.Users, repos.Companies, repos.Grants)
}
