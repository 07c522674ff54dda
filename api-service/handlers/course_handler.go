package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agoge-backend/api-service/middleware"
	"agoge-backend/api-service/services"
	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
	"agoge-backend/shared/scope"
	"agoge-backend/shared/utils/media"
)

type CourseHandler struct {
	courses repository.CourseRepository
	grants  repository.GrantRepository
	scoper  *scope.Scoper
	storage services.ObjectStorage
}

func NewCourseHandler(courses repository.CourseRepository, grants repository.GrantRepository, scoper *scope.Scoper, storage services.ObjectStorage) *CourseHandler {
	return &CourseHandler{courses: courses, grants: grants, scoper: scoper, storage: storage}
}

// CourseResponse represents a catalog entry for API responses
type CourseResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	TimeToComplete int       `json:"time_to_complete"`
	Language       string    `json:"language"`
	LanguageIcon   string    `json:"language_icon"`
	ImageURL       *string   `json:"image_url"`
}

// GrantResponse represents a company's course grant
type GrantResponse struct {
	ID          uuid.UUID      `json:"id"`
	IsOrdered   bool           `json:"is_ordered"`
	PurchasedAt string         `json:"purchased_at"`
	Course      CourseResponse `json:"course"`
}

// PurchaseRequest distinguishes an order from an immediate purchase
type PurchaseRequest struct {
	IsOrdered bool `json:"is_ordered"`
}

func toCourseResponse(course *models.CourseToBuy) CourseResponse {
	return CourseResponse{
		ID:             course.ID,
		Title:          course.Title,
		Description:    course.Description,
		Price:          course.Price,
		TimeToComplete: course.TimeToComplete,
		Language:       course.Language,
		LanguageIcon:   course.LanguageIcon(),
		ImageURL:       media.ResolveURL(course.Img),
	}
}

// GetCourses lists the shared catalog
// @Summary List catalog courses
// @Description Public catalog browsing, no tenant scoping
// @Tags catalog
// @Accept json
// @Produce json
// @Success 200 {array} handlers.CourseResponse
// @Router /coursetobuy/ [get]
func (h *CourseHandler) GetCourses(c *gin.Context) {
	courses, err := h.courses.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve courses"})
		return
	}

	items := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		items = append(items, toCourseResponse(&courses[i]))
	}

	c.JSON(http.StatusOK, items)
}

// GetCourse retrieves a single catalog entry
// @Summary Get catalog course by ID
// @Description Public catalog detail, no tenant scoping
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Course ID" format(uuid)
// @Success 200 {object} handlers.CourseResponse
// @Failure 400 {object} map[string]string "Invalid course ID format"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /coursetobuy/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid course ID format"))
		return
	}

	course, err := h.courses.ByID(courseUUID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, toCourseResponse(course))
}

// CreateCourse adds a catalog entry
// @Summary Create a catalog course
// @Description Add a course to the shared catalog with an optional image; superusers only
// @Tags catalog
// @Accept mpfd
// @Produce json
// @Param title formData string true "Course title"
// @Param description formData string false "Course description"
// @Param price formData number false "Price"
// @Param time_to_complete formData int false "Minutes to complete"
// @Param language formData string false "Two-letter language code"
// @Param img formData file false "Course image"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created course"
// @Failure 400 {object} map[string]string "Missing title or bad number"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /coursetobuy/ [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	if identity.Role != scope.RoleSuperuser {
		apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden, "Only platform operators can create courses"))
		return
	}

	title := c.PostForm("title")
	if title == "" {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Course title is required"))
		return
	}

	course := models.CourseToBuy{
		Title:       title,
		Description: c.PostForm("description"),
		Language:    c.PostForm("language"),
	}

	if raw := c.PostForm("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid price"))
			return
		}
		course.Price = price
	}
	if raw := c.PostForm("time_to_complete"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid time_to_complete"))
			return
		}
		course.TimeToComplete = minutes
	}

	if err := h.courses.Create(&course); err != nil {
		apperrors.Respond(c, err)
		return
	}

	if fileHeader, err := c.FormFile("img"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Could not read uploaded image"))
			return
		}
		defer file.Close()

		objectKey := services.CourseImageObjectKey(course.ID, fileHeader.Filename)
		contentType := fileHeader.Header.Get("Content-Type")
		if err := h.storage.Upload(c.Request.Context(), objectKey, file, fileHeader.Size, contentType); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store course image"})
			return
		}

		course.Img = objectKey
		if err := h.courses.Update(course.ID, map[string]interface{}{"img": objectKey}); err != nil {
			apperrors.Respond(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Course created successfully",
		"data":    toCourseResponse(&course),
	})
}

// PurchaseCourse grants the caller's company access to a course
// @Summary Purchase or order a course
// @Description Create a course grant for the caller's company; duplicate grants are rejected
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Course ID" format(uuid)
// @Param purchase body PurchaseRequest false "Purchase options"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created grant"
// @Failure 400 {object} map[string]string "User has no company or invalid ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 409 {object} map[string]string "Company already holds this course"
// @Router /coursetobuy/{id}/purchase [post]
func (h *CourseHandler) PurchaseCourse(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	companyID, err := identity.RequireCompany()
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	courseUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid course ID format"))
		return
	}

	course, err := h.courses.ByID(courseUUID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var request PurchaseRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
			return
		}
	}

	grant := models.CompanyCourse{
		CompanyID: companyID,
		CourseID:  course.ID,
		IsOrdered: request.IsOrdered,
	}
	if err := h.grants.Create(&grant); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Course granted successfully",
		"data": GrantResponse{
			ID:          grant.ID,
			IsOrdered:   grant.IsOrdered,
			PurchasedAt: grant.PurchasedAt.Format("2006-01-02T15:04:05Z07:00"),
			Course:      toCourseResponse(course),
		},
	})
}

// GetCompanyCourses lists the caller's course grants
// @Summary List company course grants
// @Description List the caller's company grants joined to their catalog entries
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} handlers.GrantResponse
// @Failure 400 {object} map[string]string "User has no company"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /company-courses/ [get]
func (h *CourseHandler) GetCompanyCourses(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	grants, err := h.scoper.CompanyGrants(identity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	items := make([]GrantResponse, 0, len(grants))
	for i := range grants {
		items = append(items, GrantResponse{
			ID:          grants[i].ID,
			IsOrdered:   grants[i].IsOrdered,
			PurchasedAt: grants[i].PurchasedAt.Format("2006-01-02T15:04:05Z07:00"),
			Course:      toCourseResponse(&grants[i].Course),
		})
	}

	c.JSON(http.StatusOK, items)
}
