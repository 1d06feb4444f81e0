package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appidentity "github.com/storeops/backend/internal/application/identity"
	"github.com/storeops/backend/internal/domain/identity"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// userView hides the password hash from API responses
type userView struct {
	ID       uuid.UUID     `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Role     identity.Role `json:"role"`
	IsActive bool          `json:"is_active"`
}

func toUserView(u *identity.User) userView {
	return userView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// UserHandler serves user management endpoints
type UserHandler struct {
	BaseHandler
	users *appidentity.Service
}

// NewUserHandler creates the handler
func NewUserHandler(users *appidentity.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		users:       users,
	}
}

// Register mounts the user routes
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/users", h.Create)
	rg.GET("/users", h.List)
	rg.GET("/users/:user_id", h.Get)
	rg.POST("/users/:user_id/api-key", h.RotateAPIKey)
	rg.DELETE("/users/:user_id", h.Deactivate)
}

// Create registers a new user. The generated API key is returned only
// in this response.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), appidentity.CreateUserCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     identity.Role(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	apiKey := ""
	if user.APIKey != nil {
		apiKey = *user.APIKey
	}
	h.Success(c, http.StatusCreated, gin.H{
		"user":    toUserView(user),
		"api_key": apiKey,
	})
}

// Get returns one user
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid user id")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusOK, toUserView(user))
}

// List returns users with paging
func (h *UserHandler) List(c *gin.Context) {
	filter := shared.NewFilter()
	filter.Page, filter.PageSize = parsePaging(c)

	users, total, err := h.users.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	h.SuccessList(c, views, dto.Meta{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	})
}

// RotateAPIKey replaces a user's API key
func (h *UserHandler) RotateAPIKey(c *gin.Context) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid user id")
		return
	}

	key, err := h.users.RotateAPIKey(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusOK, gin.H{"api_key": key})
}

// Deactivate disables a user
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid user id")
		return
	}

	if err := h.users.DeactivateUser(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusOK, gin.H{"deactivated": true})
}
