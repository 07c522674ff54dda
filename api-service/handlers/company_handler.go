package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agoge-backend/api-service/middleware"
	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
	"agoge-backend/shared/scope"
	"agoge-backend/shared/utils/query"
)

type CompanyHandler struct {
	companies repository.CompanyRepository
	scoper    *scope.Scoper
}

func NewCompanyHandler(companies repository.CompanyRepository, scoper *scope.Scoper) *CompanyHandler {
	return &CompanyHandler{companies: companies, scoper: scoper}
}

// CompanyResponse represents company data for API responses
type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// CreateCompanyRequest represents request body for creating a company
type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCompanyRequest represents request body for updating a company
type UpdateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

func toCompanyResponse(company *models.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		CreatedAt: company.CreatedAt.Format(time.RFC3339),
		UpdatedAt: company.UpdatedAt.Format(time.RFC3339),
	}
}

// GetCompanies lists the companies visible to the caller
// @Summary List companies
// @Description Superusers see all companies, affiliated users see their own, others get an empty set
// @Tags companies
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /company/ [get]
func (h *CompanyHandler) GetCompanies(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	params := query.ParseListParams(c)

	companies, err := h.scoper.VisibleCompanies(identity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	total := int64(len(companies))
	paged := query.Paginate(companies, params.Page, params.Limit)

	items := make([]CompanyResponse, 0, len(paged))
	for i := range paged {
		items = append(items, toCompanyResponse(&paged[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      items,
			"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
		},
	})
}

// GetCompany retrieves a single company by ID
// @Summary Get company by ID
// @Description Get a company record; ids outside the caller's scope read as not found
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid company ID format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Company not found"
// @Router /company/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	companyUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid company ID format"))
		return
	}

	company, err := h.scoper.VisibleCompany(identity, companyUUID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toCompanyResponse(company),
	})
}

// CreateCompany creates a new company
// @Summary Create a company
// @Description Create a new tenant; superusers only
// @Tags companies
// @Accept json
// @Produce json
// @Param company body CreateCompanyRequest true "Company information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created company"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /company/ [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	if identity.Role != scope.RoleSuperuser {
		apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden, "Only platform operators can create companies"))
		return
	}

	var request CreateCompanyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
		return
	}

	company := models.Company{Name: request.Name}
	if err := h.companies.Create(&company); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Company created successfully",
		"data":    toCompanyResponse(&company),
	})
}

// UpdateCompany updates a company inside the caller's scope
// @Summary Update a company
// @Description Rename a company; requires admin rights on it
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Param company body UpdateCompanyRequest true "Updated company information"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated company"
// @Failure 400 {object} map[string]string "Invalid request data or ID format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Company not found"
// @Router /company/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	companyUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid company ID format"))
		return
	}

	var request UpdateCompanyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
		return
	}

	if _, err := h.scoper.VisibleCompany(identity, companyUUID); err != nil {
		apperrors.Respond(c, err)
		return
	}
	if !identity.IsAdmin() {
		apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden, "Only admins can update the company"))
		return
	}

	if err := h.companies.Update(companyUUID, map[string]interface{}{"name": request.Name}); err != nil {
		apperrors.Respond(c, err)
		return
	}

	updated, err := h.companies.ByID(companyUUID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Company updated successfully",
		"data":    toCompanyResponse(updated),
	})
}

// DeleteCompany deletes a company and everything scoped to it
// @Summary Delete a company
// @Description Delete a tenant with its settings, users and course grants in one transaction; superusers only
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} map[string]string "Invalid company ID format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Company not found"
// @Router /company/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	if identity.Role != scope.RoleSuperuser {
		apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden, "Only platform operators can delete companies"))
		return
	}

	companyUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid company ID format"))
		return
	}

	if err := h.companies.DeleteCascade(companyUUID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Company deleted successfully",
	})
}
