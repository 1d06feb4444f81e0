package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appidentity "github.com/storeops/backend/internal/application/identity"
	"github.com/storeops/backend/internal/domain/identity"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

const userContextKey = "auth_user"

// APIKeyAuth authenticates requests by the X-API-Key header
func APIKeyAuth(users *appidentity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		user, err := users.Authenticate(c.Request.Context(), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.ErrorResponse(dto.ErrCodeUnauthorized, "Invalid or missing API key"))
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous
// requests
func CurrentUser(c *gin.Context) *identity.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*identity.User); ok {
			return user
		}
	}
	return nil
}

// RequireRole rejects requests whose user lacks one of the given roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !allowed[user.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.ErrorResponse(dto.ErrCodeUnauthorized, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}
