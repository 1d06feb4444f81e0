package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appstock "github.com/storeops/backend/internal/application/stock"
	stockdomain "github.com/storeops/backend/internal/domain/stock"
	"github.com/storeops/backend/internal/infrastructure/cache"
	"github.com/storeops/backend/internal/interfaces/http/dto"
	"github.com/storeops/backend/internal/interfaces/http/middleware"
)

// StockHandler serves stock levels and the movement ledger
type StockHandler struct {
	BaseHandler
	movements *appstock.MovementService
	alerts    cache.AlertCache
}

// NewStockHandler creates the handler
func NewStockHandler(movements *appstock.MovementService, alerts cache.AlertCache, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		BaseHandler: NewBaseHandler(logger),
		movements:   movements,
		alerts:      alerts,
	}
}

// Register mounts the read-only stock routes
func (h *StockHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/stores/:store_id/stock", h.GetStoreStock)
	rg.GET("/stores/:store_id/movements", h.ListMovements)
	rg.GET("/movements", h.ListAllMovements)
}

// RegisterMutations mounts the rate-limited mutation route
func (h *StockHandler) RegisterMutations(rg *gin.RouterGroup) {
	rg.POST("/stores/:store_id/stock", h.RecordMovement)
}

// RecordMovement applies one stock mutation
func (h *StockHandler) RecordMovement(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid store id")
		return
	}

	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid product id")
		return
	}

	var actorID *uuid.UUID
	if user := middleware.CurrentUser(c); user != nil {
		actorID = &user.ID
	}

	result, err := h.movements.RecordMovement(c.Request.Context(), appstock.RecordMovementCommand{
		StoreID:         storeID,
		ProductID:       productID,
		MovementType:    stockdomain.MovementType(req.MovementType),
		Quantity:        req.Quantity,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		ActorID:         actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusCreated, result)
}

// GetStoreStock returns the current stock levels of a store
func (h *StockHandler) GetStoreStock(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid store id")
		return
	}

	levels, err := h.movements.GetStoreStock(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if c.Query("include_alerts") == "true" {
		alerts, err := h.alerts.ListByStore(c.Request.Context(), storeID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, http.StatusOK, gin.H{
			"stock":  levels,
			"alerts": alerts,
		})
		return
	}
	h.Success(c, http.StatusOK, gin.H{"stock": levels})
}

// ListMovements returns the ledger for one store
func (h *StockHandler) ListMovements(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("store_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid store id")
		return
	}
	h.listMovements(c, &storeID)
}

// ListAllMovements returns the ledger across all stores
func (h *StockHandler) ListAllMovements(c *gin.Context) {
	h.listMovements(c, nil)
}

func (h *StockHandler) listMovements(c *gin.Context, storeID *uuid.UUID) {
	filter := stockdomain.MovementFilter{StoreID: storeID}
	filter.Page, filter.PageSize = parsePaging(c)

	if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.Error(c, dto.ErrCodeInvalidInput, "Invalid product id")
			return
		}
		filter.ProductID = &id
	}
	if v := c.Query("movement_type"); v != "" {
		mt := stockdomain.MovementType(v)
		if !mt.IsValid() {
			h.Error(c, dto.ErrCodeInvalidInput, "Unknown movement type: "+v)
			return
		}
		filter.MovementType = &mt
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

	rows, total, err := h.movements.ListMovements(c.Request.Context(), filter)
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

func parsePaging(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return page, pageSize
}
