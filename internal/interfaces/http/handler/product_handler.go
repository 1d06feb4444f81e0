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

// ProductHandler serves product management endpoints
type ProductHandler struct {
	BaseHandler
	catalog *appcatalog.Service
}

// NewProductHandler creates the handler
func NewProductHandler(catalog *appcatalog.Service, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
	}
}

// Register mounts the product routes
func (h *ProductHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/products", h.Create)
	rg.GET("/products", h.List)
	rg.GET("/products/:product_id", h.Get)
	rg.PATCH("/products/:product_id/threshold", h.UpdateThreshold)
	rg.DELETE("/products/:product_id", h.Deactivate)
}

// Create registers a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), appcatalog.CreateProductCommand{
		Name:              req.Name,
		SKU:               req.SKU,
		Description:       req.Description,
		UnitPrice:         req.UnitPrice,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusCreated, product)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid product id")
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusOK, product)
}

// List returns products with paging
func (h *ProductHandler) List(c *gin.Context) {
	filter := shared.NewFilter()
	filter.Page, filter.PageSize = parsePaging(c)

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, products, dto.Meta{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	})
}

// UpdateThreshold changes a product's low-stock threshold
func (h *ProductHandler) UpdateThreshold(c *gin.Context) {
	id, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid product id")
		return
	}

	var req dto.UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	product, err := h.catalog.UpdateThreshold(c.Request.Context(), id, req.LowStockThreshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusOK, product)
}

// Deactivate marks a product inactive
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid product id")
		return
	}

	if err := h.catalog.DeactivateProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, http.StatusOK, gin.H{"deactivated": true})
}
