package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appaudit "github.com/storeops/backend/internal/application/audit"
	"github.com/storeops/backend/internal/domain/audit"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// AuditHandler serves the audit trail
type AuditHandler struct {
	BaseHandler
	audits *appaudit.Service
}

// NewAuditHandler creates the handler
func NewAuditHandler(audits *appaudit.Service, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		BaseHandler: NewBaseHandler(logger),
		audits:      audits,
	}
}

// Register mounts the audit routes
func (h *AuditHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/audit", h.List)
}

// List returns audit entries matching the query
func (h *AuditHandler) List(c *gin.Context) {
	filter := audit.Filter{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
	}
	filter.Page, filter.PageSize = parsePaging(c)

	if v := c.Query("actor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.Error(c, dto.ErrCodeInvalidInput, "Invalid actor id")
			return
		}
		filter.ActorID = &id
	}
	if v := c.Query("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.Error(c, dto.ErrCodeInvalidInput, "Invalid from timestamp")
			return
		}
		filter.From = &ts
	}
	if v := c.Query("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.Error(c, dto.ErrCodeInvalidInput, "Invalid to timestamp")
			return
		}
		filter.To = &ts
	}

	rows, total, err := h.audits.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, rows, dto.Meta{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	})
}
