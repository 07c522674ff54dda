package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agoge-backend/api-service/middleware"
	"agoge-backend/api-service/services"
	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
	"agoge-backend/shared/utils/cache"
	"agoge-backend/shared/utils/media"
)

type SettingsHandler struct {
	settings repository.SettingsRepository
	storage  services.ObjectStorage
	cache    *cache.CacheManager // nil disables caching
}

func NewSettingsHandler(settings repository.SettingsRepository, storage services.ObjectStorage, cacheManager *cache.CacheManager) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		storage:  storage,
		cache:    cacheManager,
	}
}

// SettingsResponse represents dashboard branding for API responses
type SettingsResponse struct {
	PrimaryColor    string  `json:"primary_color"`
	TextColor       string  `json:"text_color"`
	SecondaryColor  string  `json:"secondary_color"`
	BackgroundColor string  `json:"background_color,omitempty"`
	Logo            string  `json:"logo,omitempty"`
	LogoURL         *string `json:"logo_url"`
}

// UpdateSettingsRequest represents a partial JSON update of branding colors
type UpdateSettingsRequest struct {
	PrimaryColor    *string `json:"primary_color"`
	TextColor       *string `json:"text_color"`
	SecondaryColor  *string `json:"secondary_color"`
	BackgroundColor *string `json:"background_color"`
}

func toSettingsResponse(settings *models.CompanySettings) SettingsResponse {
	return SettingsResponse{
		PrimaryColor:    settings.PrimaryColor,
		TextColor:       settings.TextColor,
		SecondaryColor:  settings.SecondaryColor,
		BackgroundColor: settings.BackgroundColor,
		Logo:            settings.Logo,
		LogoURL:         media.ResolveURL(settings.Logo),
	}
}

// GetSettings returns the caller's dashboard branding
// @Summary Get dashboard settings
// @Description Fetch the company's branding; created with defaults on first read
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.SettingsResponse
// @Failure 400 {object} map[string]string "User has no company"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /dashboard-settings/ [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
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

	if h.cache != nil {
		if cached := h.cache.GetSettings(companyID); cached != nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": toSettingsResponse(cached)})
			return
		}
	}

	settings, err := h.settings.GetOrCreate(companyID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if h.cache != nil {
		h.cache.SetSettings(settings)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toSettingsResponse(settings)})
}

// UpdateSettings updates the caller's dashboard branding
// @Summary Update dashboard settings
// @Description Partially update branding colors and optionally replace the logo; admins only
// @Tags settings
// @Accept json
// @Accept mpfd
// @Produce json
// @Param settings body UpdateSettingsRequest false "Branding colors"
// @Security BearerAuth
// @Success 200 {object} handlers.SettingsResponse
// @Failure 400 {object} map[string]string "User has no company or invalid body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Router /dashboard-settings/ [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
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

	if !identity.IsAdmin() {
		apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden, "You don't have permission to update settings"))
		return
	}

	updates := map[string]interface{}{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		for field, column := range map[string]string{
			"primary_color":    "primary_color",
			"text_color":       "text_color",
			"secondary_color":  "secondary_color",
			"background_color": "background_color",
		} {
			if value, exists := c.GetPostForm(field); exists {
				updates[column] = value
			}
		}

		if fileHeader, err := c.FormFile("logo"); err == nil {
			current, err := h.settings.GetOrCreate(companyID)
			if err != nil {
				apperrors.Respond(c, err)
				return
			}

			file, err := fileHeader.Open()
			if err != nil {
				apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Could not read uploaded logo"))
				return
			}
			defer file.Close()

			objectKey := services.LogoObjectKey(companyID, fileHeader.Filename)
			contentType := fileHeader.Header.Get("Content-Type")
			if err := h.storage.Upload(c.Request.Context(), objectKey, file, fileHeader.Size, contentType); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store logo"})
				return
			}

			// The new asset fully replaces the previous one.
			if current.Logo != "" && current.Logo != objectKey {
				if err := h.storage.Remove(c.Request.Context(), current.Logo); err != nil {
					// Orphaned object only; the reference below is
					// already correct.
					c.Error(err)
				}
			}
			updates["logo"] = objectKey
		}
	} else {
		var request UpdateSettingsRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
			return
		}

		if request.PrimaryColor != nil {
			updates["primary_color"] = *request.PrimaryColor
		}
		if request.TextColor != nil {
			updates["text_color"] = *request.TextColor
		}
		if request.SecondaryColor != nil {
			updates["secondary_color"] = *request.SecondaryColor
		}
		if request.BackgroundColor != nil {
			updates["background_color"] = *request.BackgroundColor
		}
	}

	settings, err := h.settings.Update(companyID, updates)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if h.cache != nil {
		h.cache.InvalidateSettings(companyID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toSettingsResponse(settings)})
}
