package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storeops/backend/internal/domain/identity"
	"github.com/storeops/backend/internal/domain/shared"
)

func roleRouter(user *identity.User, roles ...identity.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	})
	r.GET("/guarded", RequireRole(roles...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func testUser(role identity.Role) *identity.User {
	return &identity.User{
		BaseEntity: shared.NewBaseEntity(),
		Username:   "someone",
		Role:       role,
		IsActive:   true,
	}
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	r := roleRouter(testUser(identity.RoleAdmin), identity.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_RejectsOtherRoles(t *testing.T) {
	r := roleRouter(testUser(identity.RoleStaff), identity.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireRole_RejectsMissingUser(t *testing.T) {
	r := roleRouter(nil, identity.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_AcceptsAnyListedRole(t *testing.T) {
	r := roleRouter(testUser(identity.RoleManager), identity.RoleAdmin, identity.RoleManager)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
