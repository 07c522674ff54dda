package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/repository"
	"agoge-backend/shared/scope"
	utils "agoge-backend/shared/utils/auth"
)

const identityKey = "identity"

// AuthMiddleware validates the bearer token, reloads the user so role
// flags are current, and stores the resolved identity in the context.
func AuthMiddleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Invalid authorization format. Expected Bearer {token}"))
			return
		}

		claims, err := utils.ValidateJWT(tokenParts[1])
		if err != nil {
			apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Invalid user ID in token"))
			return
		}

		user, err := users.ByID(userID)
		if err != nil {
			apperrors.Respond(c, apperrors.New(apperrors.ErrUnauthorized, "Token does not resolve to a known user"))
			return
		}

		c.Set(identityKey, scope.IdentityFromUser(user))
		c.Next()
	}
}

// GetIdentity returns the identity placed in the context by AuthMiddleware.
func GetIdentity(c *gin.Context) (scope.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return scope.Identity{}, false
	}
	identity, ok := value.(scope.Identity)
	return identity, ok
}
