package handlers

import (
	"errors"
	"net/http"

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
)

// TeamHandler implements the team management workflow: list, invite and
// remove members, with mail and websocket side effects on changes.
type TeamHandler struct {
	users  repository.UserRepository
	mailer services.Mailer
	events services.TeamEventBroadcaster // nil disables broadcasting
}

func NewTeamHandler(users repository.UserRepository, mailer services.Mailer, events services.TeamEventBroadcaster) *TeamHandler {
	return &TeamHandler{users: users, mailer: mailer, events: events}
}

// TeamMemberResponse represents a team member for API responses
type TeamMemberResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	IsAdmin       bool      `json:"is_admin"`
	ProfileImgURL *string   `json:"profile_img_url"`
}

// InviteRequest carries the address to invite
type InviteRequest struct {
	Email string `json:"email"`
}

func toTeamMemberResponse(user *models.User) TeamMemberResponse {
	return TeamMemberResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		IsAdmin:       user.IsAdmin,
		ProfileImgURL: media.ResolveURL(user.ProfileImg),
	}
}

// GetTeam lists the caller's team
// @Summary List team members
// @Description List all users of the caller's company; admins only
// @Tags team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} handlers.TeamMemberResponse
// @Failure 400 {object} map[string]string "User has no company"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Router /team/ [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
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

	if identity.Role != scope.RoleCompanyAdmin && identity.Role != scope.RoleSuperuser {
		apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden, "Only admins can see the team"))
		return
	}

	members, err := h.users.ByCompany(companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team members"})
		return
	}

	items := make([]TeamMemberResponse, 0, len(members))
	for i := range members {
		items = append(items, toTeamMemberResponse(&members[i]))
	}

	c.JSON(http.StatusOK, items)
}

// InviteMember invites a new member by email
// @Summary Invite a team member
// @Description Send an invitation mail with a registration link; no user record is created yet
// @Tags team
// @Accept json
// @Produce json
// @Param invite body InviteRequest true "Address to invite"
// @Security BearerAuth
// @Success 200 {object} map[string]string "Confirmation message"
// @Failure 400 {object} map[string]string "Missing email or no company"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /team/invite/ [post]
func (h *TeamHandler) InviteMember(c *gin.Context) {
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
		apperrors.Respond(c, apperrors.New(apperrors.ErrForbidden, "Only admins can invite members"))
		return
	}

	var request InviteRequest
	if err := c.ShouldBindJSON(&request); err != nil || request.Email == "" {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "No email address provided"))
		return
	}
	if err := utils.ValidateEmail(request.Email); err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, err.Error()))
		return
	}

	// Duplicate check runs before the mail goes out: a conflict must not
	// produce a notification.
	if _, err := h.users.ByEmail(request.Email); err == nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrConflict, "A user with this email already exists"))
		return
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
		return
	}

	if err := h.mailer.SendInvitation(request.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send invitation"})
		return
	}

	if h.events != nil {
		h.events.Broadcast(services.TeamEvent{
			Type:      "member_invited",
			CompanyID: companyID,
			Email:     request.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation sent to " + request.Email + "!",
	})
}

// RemoveMember deletes a user by id
// @Summary Remove a team member
// @Description Delete a user by id. Any authenticated caller may do this for any id; the endpoint is intentionally not tenant-scoped and a regression test pins that.
// @Tags team
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]string "Confirmation message"
// @Failure 400 {object} map[string]string "Invalid user ID format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /team/remove/{id} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	_, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authentication required"))
		return
	}

	userUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.New(apperrors.ErrValidation, "Invalid user ID format"))
		return
	}

	target, err := h.users.ByID(userUUID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := h.users.Delete(target.ID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	if h.events != nil && target.CompanyID != nil {
		h.events.Broadcast(services.TeamEvent{
			Type:      "member_removed",
			CompanyID: *target.CompanyID,
			Email:     target.Email,
			UserID:    target.ID.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User has been removed!",
	})
}

// TeamEvents upgrades the request to a websocket delivering team change
// events for the caller's company.
// @Summary Subscribe to team events
// @Description Websocket stream of member_invited and member_removed events for the caller's company
// @Tags team
// @Security BearerAuth
// @Success 101 {string} string "Switching protocols"
// @Failure 400 {object} map[string]string "User has no company"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /team/events [get]
func (h *TeamHandler) TeamEvents(c *gin.Context) {
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

	manager, ok := h.events.(*services.WebSocketManager)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event stream is not available"})
		return
	}

	manager.HandleConnection(c.Writer, c.Request, identity.UserID.String(), companyID)
}
