package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// BaseHandler provides response helpers shared by all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a base handler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success writes a success envelope
func (h *BaseHandler) Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.SuccessResponse(data))
}

// SuccessList writes a success envelope with pagination meta
func (h *BaseHandler) SuccessList(c *gin.Context, data interface{}, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.SuccessListResponse(data, meta))
}

// Error writes an error envelope
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.ErrorResponse(code, message))
}

// HandleError maps an error to the right status code and envelope
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		c.JSON(dto.GetHTTPStatus(de.Code), dto.ErrorResponse(de.Code, de.Message))
		return
	}

	h.logger.Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError,
		dto.ErrorResponse(dto.ErrCodeInternal, "Internal server error"))
}

// BadRequest writes a validation error envelope
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest,
		dto.ErrorResponse(dto.ErrCodeInvalidInput, err.Error()))
}
