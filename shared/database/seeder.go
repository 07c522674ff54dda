package database

import (
	"log"

	"agoge-backend/shared/config"
	"agoge-backend/shared/database/models"
	utils "agoge-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with initial data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	coursesCreated, err := seedCourseCatalog()
	if err != nil {
		return err
	}

	companiesCreated, err := seedDemoCompany()
	if err != nil {
		return err
	}

	if coursesCreated > 0 || companiesCreated > 0 {
		log.Printf("✅ Database seeding completed (%d courses, %d companies created)", coursesCreated, companiesCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	// Create super admin from config
	if err := CreateSuperAdminFromConfig(); err != nil {
		return err
	}

	return nil
}

// seedCourseCatalog creates the shared course catalog
func seedCourseCatalog() (int, error) {
	courses := []models.CourseToBuy{
		{Title: "Onboarding Essentials", Description: "Company onboarding basics for new hires", Price: 149, TimeToComplete: 90, Language: models.LanguageEN},
		{Title: "Workplace Safety", Description: "Mandatory workplace safety training", Price: 99, TimeToComplete: 60, Language: models.LanguageEN},
		{Title: "Arbetsmiljö och säkerhet", Description: "Svensk arbetsmiljöutbildning", Price: 129, TimeToComplete: 75, Language: models.LanguageSE},
		{Title: "Datenschutz Grundlagen", Description: "DSGVO-Schulung für Mitarbeiter", Price: 119, TimeToComplete: 45, Language: models.LanguageDE},
		{Title: "Gestion du temps", Description: "Techniques de gestion du temps", Price: 89, TimeToComplete: 50, Language: models.LanguageFR},
	}

	created := 0
	for _, course := range courses {
		var existing models.CourseToBuy
		result := DB.Where("title = ?", course.Title).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&course).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

// seedDemoCompany creates a demo company with an admin user and default
// dashboard settings so a fresh install has something to log into.
func seedDemoCompany() (int, error) {
	var existing models.Company
	if err := DB.Where("name = ?", "Demo Company").First(&existing).Error; err == nil {
		return 0, nil
	}

	company := models.Company{Name: "Demo Company"}
	if err := DB.Create(&company).Error; err != nil {
		return 0, err
	}

	hashedPassword, err := utils.HashPassword("demo1234")
	if err != nil {
		return 0, err
	}

	admin := models.User{
		Email:     "admin@demo.agoge.io",
		Password:  hashedPassword,
		FirstName: "Demo",
		LastName:  "Admin",
		CompanyID: &company.ID,
		IsAdmin:   true,
		IsStaff:   true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return 0, err
	}

	settings := models.CompanySettings{
		CompanyID:      company.ID,
		PrimaryColor:   models.DefaultPrimaryColor,
		TextColor:      models.DefaultTextColor,
		SecondaryColor: models.DefaultSecondaryColor,
	}
	if err := DB.Create(&settings).Error; err != nil {
		return 0, err
	}

	return 1, nil
}

// CreateSuperAdminFromConfig creates super admin using config values
func CreateSuperAdminFromConfig() error {
	cfg := config.GetConfig()
	return CreateSuperAdmin(cfg.SuperAdminEmail, cfg.SuperAdminPassword, "Super", "Admin")
}

// CreateSuperAdmin creates the platform superuser
func CreateSuperAdmin(email, password, firstName, lastName string) error {
	var existingUser models.User
	if err := DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
		log.Println("Super admin already exists")
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	superAdminUser := models.User{
		Email:       email,
		Password:    hashedPassword,
		FirstName:   firstName,
		LastName:    lastName,
		IsAdmin:     true,
		IsStaff:     true,
		IsSuperuser: true,
	}

	if err := DB.Create(&superAdminUser).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", email)
	return nil
}
