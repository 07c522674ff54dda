package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/repository"
	utils "agoge-backend/shared/utils/auth"
)

type AuthHandler struct {
	users repository.UserRepository
}

func NewAuthHandler(users repository.UserRepository) *AuthHandler {
	return &AuthHandler{users: users}
}

// TokenRequest is the credential pair exchanged for tokens.
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@agoge.com"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

type TokenResponse struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// ObtainToken issues an access/refresh token pair
// @Summary Obtain token pair
// @Description Authenticate with email and password, returns JWT access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body TokenRequest true "Login credentials"
// @Success 200 {object} handlers.TokenResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /token/ [post]
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
		return
	}

	user, err := h.users.ByEmail(req.Email)
	if err != nil {
		// Same response for unknown email and bad password.
		if errors.Is(err, apperrors.ErrNotFound) {
			apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Invalid credentials"))
			return
		}
		apperrors.Respond(c, err)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Invalid credentials"))
		return
	}

	access, err := utils.GenerateJWT(user.ID, user.Email, user.CompanyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refresh, err := utils.GenerateRefreshJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Access:    access,
		Refresh:   refresh,
		ExpiresAt: time.Now().Add(utils.GetJWTExpireDuration()),
	})
}

// RefreshToken rotates an access/refresh token pair
// @Summary Refresh token pair
// @Description Exchange a valid refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} handlers.TokenResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Router /token/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
		return
	}

	claims, err := utils.ValidateRefreshJWT(req.Refresh)
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Invalid or expired refresh token"))
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Invalid user ID in token"))
		return
	}

	// Reload so a deleted user cannot refresh back in.
	user, err := h.users.ByID(userID)
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Token does not resolve to a known user"))
		return
	}

	access, err := utils.GenerateJWT(user.ID, user.Email, user.CompanyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refresh, err := utils.GenerateRefreshJWT(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Access:    access,
		Refresh:   refresh,
		ExpiresAt: time.Now().Add(utils.GetJWTExpireDuration()),
	})
}
