package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appcatalog "github.com/storeops/backend/internal/application/catalog"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/interfaces/http/dto"
)

// StoreHandler serves store management endpoints
type StoreHandler struct {
	BaseHandler
	catalog *appcatalog.Service
}

// NewStoreHandler creates the handler
func NewStoreHandler(catalog *appcatalog.Service, logger *zap.Logger) *StoreHandler {
	return &StoreHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
	}
}

// Register mounts the store routes
func (h *StoreHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/stores", h.Create)
	rg.GET("/stores", h.List)
	rg.GET("/stores/:store_id", h.Get)
	rg.DELETE("/stores/:store_id", h.Deactivate)
}

// Create registers a new store
func (h *StoreHandler) Create(c *gin.Context) {
	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	store, err := h.catalog.CreateStore(c.Request.Context(), appcatalog.CreateStoreCommand{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusCreated, store)
}

// Get returns one store
func (h *StoreHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid store id")
		return
	}

	store, err := h.catalog.GetStore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusOK, store)
}

// List returns stores with paging
func (h *StoreHandler) List(c *gin.Context) {
	filter := shared.NewFilter()
	filter.Page, filter.PageSize = parsePaging(c)

	stores, total, err := h.catalog.ListStores(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, stores, dto.Meta{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	})
}

// Deactivate marks a store inactive
func (h *StoreHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid store id")
		return
	}

	if err := h.catalog.DeactivateStore(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusOK, gin.H{"deactivated": true})
}
