package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"agoge-backend/api-service/handlers"
	"agoge-backend/api-service/middleware"
	"agoge-backend/api-service/services"
	"agoge-backend/shared/config"
	"agoge-backend/shared/database"
	"agoge-backend/shared/repository"
	"agoge-backend/shared/scope"
	"agoge-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	repos := repository.New(database.GetDB())
	scoper := scope.NewScoper(repos.Users, repos.Companies, repos.Grants)

	storage, err := services.NewStorageService()
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	cacheManager := cache.GetCacheManager()
	if cacheManager == nil {
		log.Println("Warning: running without settings cache")
	}

	mailer := services.NewEmailService(cfg)
	wsManager := services.GetWebSocketManager()

	authHandler := handlers.NewAuthHandler(repos.Users)
	userHandler := handlers.NewUserHandler(repos.Users, scoper, storage)
	companyHandler := handlers.NewCompanyHandler(repos.Companies, scoper)
	settingsHandler := handlers.NewSettingsHandler(repos.Settings, storage, cacheManager)
	courseHandler := handlers.NewCourseHandler(repos.Courses, repos.Grants, scoper, storage)
	teamHandler := handlers.NewTeamHandler(repos.Users, mailer, wsManager)

	router := gin.Default()
	router.Use(cors.Default())

	api := router.Group("/api")

	// Token endpoints
	api.POST("/token/", authHandler.ObtainToken)
	api.POST("/token/refresh/", authHandler.RefreshToken)

	// Public catalog
	api.GET("/coursetobuy/", courseHandler.GetCourses)
	api.GET("/coursetobuy/:id/", courseHandler.GetCourse)

	// Authenticated routes
	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(repos.Users))

	authorized.GET("/user/", userHandler.GetUsers)
	authorized.GET("/user/:id/", userHandler.GetUser)
	authorized.POST("/user/", userHandler.CreateUser)
	authorized.PUT("/user/:id/", userHandler.UpdateUser)
	authorized.DELETE("/user/:id/", userHandler.DeleteUser)
	authorized.PUT("/user/:id/profile-image/", userHandler.UploadProfileImage)

	authorized.GET("/company/", companyHandler.GetCompanies)
	authorized.GET("/company/:id/", companyHandler.GetCompany)
	authorized.POST("/company/", companyHandler.CreateCompany)
	authorized.PUT("/company/:id/", companyHandler.UpdateCompany)
	authorized.DELETE("/company/:id/", companyHandler.DeleteCompany)

	authorized.GET("/dashboard-settings/", settingsHandler.GetSettings)
	authorized.PUT("/dashboard-settings/", settingsHandler.UpdateSettings)

	authorized.POST("/coursetobuy/", courseHandler.CreateCourse)
	authorized.POST("/coursetobuy/:id/purchase/", courseHandler.PurchaseCourse)
	authorized.GET("/company-courses/", courseHandler.GetCompanyCourses)

	authorized.GET("/team/", teamHandler.GetTeam)
	authorized.POST("/team/invite/", teamHandler.InviteMember)
	authorized.DELETE("/team/remove/:id/", teamHandler.RemoveMember)
	authorized.GET("/team/events", teamHandler.TeamEvents)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "api",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("API Service starting on port %s...", cfg.ServerPort)
	router.Run(":" + cfg.ServerPort)
}
