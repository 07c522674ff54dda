package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agoge-backend/api-service/middleware"
	"agoge-backend/api-service/services"
	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
	"agoge-backend/shared/scope"
	utils "agoge-backend/shared/utils/auth"
	"agoge-backend/shared/utils/media"
	"agoge-backend/shared/utils/query"
)

type UserHandler struct {
	users   repository.UserRepository
	scoper  *scope.Scoper
	storage services.ObjectStorage
}

func NewUserHandler(users repository.UserRepository, scoper *scope.Scoper, storage services.ObjectStorage) *UserHandler {
	return &UserHandler{users: users, scoper: scoper, storage: storage}
}

// UserResponse represents user data for API responses
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	IsAdmin       bool       `json:"is_admin"`
	CompanyID     *uuid.UUID `json:"company_id,omitempty"`
	ProfileImgURL *string    `json:"profile_img_url"`
	CreatedAt     string     `json:"created_at"`
	UpdatedAt     string     `json:"updated_at"`
}

// CreateUserRequest represents request body for creating user
type CreateUserRequest struct {
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required,min=6"`
	FirstName string     `json:"first_name" binding:"required"`
	LastName  string     `json:"last_name" binding:"required"`
	IsAdmin   bool       `json:"is_admin"`
	CompanyID *uuid.UUID `json:"company_id"`
}

// UpdateUserRequest represents request body for updating user
type UpdateUserRequest struct {
	Email     string     `json:"email" binding:"omitempty,email"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	IsAdmin   *bool      `json:"is_admin"`
	CompanyID *uuid.UUID `json:"company_id"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		IsAdmin:       user.IsAdmin,
		CompanyID:     user.CompanyID,
		ProfileImgURL: media.ResolveURL(user.ProfileImg),
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     user.UpdatedAt.Format(time.RFC3339),
	}
}

// GetUsers retrieves the users visible to the caller
// @Summary List users
// @Description List users filtered by the caller's visibility scope
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across name and email"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /user/ [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	params := query.ParseListParams(c)

	users, err := h.scoper.VisibleUsers(identity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if params.Search != "" {
		users = filterUsers(users, params.Search)
	}

	total := int64(len(users))
	paged := query.Paginate(users, params.Page, params.Limit)

	items := make([]UserResponse, 0, len(paged))
	for i := range paged {
		items = append(items, toUserResponse(&paged[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
		},
	})
}

func filterUsers(users []models.User, search string) []models.User {
	needle := strings.ToLower(search)
	matched := make([]models.User, 0, len(users))
	for _, user := range users {
		haystack := strings.ToLower(user.FirstName + " " + user.LastName + " " + user.Email)
		if strings.Contains(haystack, needle) {
			matched = append(matched, user)
		}
	}
	return matched
}

// GetUser retrieves a single user by ID
// @Summary Get user by ID
// @Description Get a user record; ids outside the caller's scope read as not found
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid user ID format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid user ID format"))
		return
	}

	user, err := h.scoper.VisibleUser(identity, userUUID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toUserResponse(user),
	})
}

// CreateUser creates a new user
// @Summary Create a new user
// @Description Create a user; company admins create into their own company
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created user"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Email already exists"
// @Router /user/ [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	if !identity.IsAdmin() {
		apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden, "Only admins can create users"))
		return
	}

	var request CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
		return
	}

	companyID := request.CompanyID
	if identity.Role == scope.RoleCompanyAdmin {
		// Company admins cannot plant users in other tenants.
		companyID = identity.CompanyID
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:     request.Email,
		Password:  hashedPassword,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		IsAdmin:   request.IsAdmin,
		CompanyID: companyID,
	}

	if err := h.users.Create(&user); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"data":    toUserResponse(&user),
	})
}

// UpdateUser updates an existing user
// @Summary Update a user
// @Description Partially update a user inside the caller's scope
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param user body UpdateUserRequest true "Updated user information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated user"
// @Failure 400 {object} map[string]string "Invalid request data or ID format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Email already exists"
// @Router /user/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid user ID format"))
		return
	}

	var request UpdateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
		return
	}

	// Scope check first: out-of-scope targets read as not found.
	if _, err := h.scoper.VisibleUser(identity, userUUID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	updates := map[string]interface{}{}
	if request.Email != "" {
		updates["email"] = request.Email
	}
	if request.FirstName != nil {
		updates["first_name"] = *request.FirstName
	}
	if request.LastName != nil {
		updates["last_name"] = *request.LastName
	}
	if request.IsAdmin != nil && identity.IsAdmin() {
		updates["is_admin"] = *request.IsAdmin
	}
	if request.CompanyID != nil && identity.Role == scope.RoleSuperuser {
		updates["company_id"] = request.CompanyID
	}

	if len(updates) > 0 {
		if err := h.users.Update(userUUID, updates); err != nil {
			apperrors.Respond(c, err)
			return
		}
	}

	updated, err := h.users.ByID(userUUID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"data":    toUserResponse(updated),
	})
}

// DeleteUser deletes a user inside the caller's scope
// @Summary Delete a user
// @Description Delete a user record; ids outside the caller's scope read as not found
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} map[string]string "Invalid user ID format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid user ID format"))
		return
	}

	if _, err := h.scoper.VisibleUser(identity, userUUID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := h.users.Delete(userUUID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

// UploadProfileImage replaces a user's profile image
// @Summary Upload profile image
// @Description Replace the profile image of a user inside the caller's scope
// @Tags users
// @Accept mpfd
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param profile_img formData file true "Profile image"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated user"
// @Failure 400 {object} map[string]string "Missing file or invalid ID format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /user/{id}/profile-image/ [put]
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid user ID format"))
		return
	}

	target, err := h.scoper.VisibleUser(identity, userUUID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	fileHeader, err := c.FormFile("profile_img")
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "No profile image provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Could not read uploaded image"))
		return
	}
	defer file.Close()

	objectKey := services.ProfileImageObjectKey(target.ID, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.storage.Upload(c.Request.Context(), objectKey, file, fileHeader.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store profile image"})
		return
	}

	if target.ProfileImg != "" && target.ProfileImg != objectKey {
		if err := h.storage.Remove(c.Request.Context(), target.ProfileImg); err != nil {
			c.Error(err)
		}
	}

	if err := h.users.Update(target.ID, map[string]interface{}{"profile_img": objectKey}); err != nil {
		apperrors.Respond(c, err)
		return
	}

	updated, err := h.users.ByID(target.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile image updated successfully",
		"data":    toUserResponse(updated),
	})
}
